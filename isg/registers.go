package isg

import "github.com/victorjacobs/go-isg/sensor"

// Register addresses are zero based, the ISG documentation numbers input
// registers from 1 (e.g. 501 is address 500).
const (
	systemValuesAddress     = 500
	systemValuesCount       = 40
	energyManagementAddress = 5000
	energyManagementCount   = 1
	energyAddress           = 3500
	energyCount             = 16
)

// notAvailable is what the ISG reports for sensors that are not fitted.
const notAvailable = -32768

type register struct {
	key     string
	offset  int
	divisor float64
}

var systemValueRegisters = [...]register{
	{key: sensor.ActualTemperature, offset: 0, divisor: 10},
	{key: sensor.TargetTemperature, offset: 1, divisor: 10},
	{key: sensor.ActualTemperatureFEK, offset: 2, divisor: 10},
	{key: sensor.TargetTemperatureFEK, offset: 3, divisor: 10},
	{key: sensor.ActualHumidity, offset: 4, divisor: 10},
	{key: sensor.DewpointTemperature, offset: 5, divisor: 10},
	{key: sensor.OutdoorTemperature, offset: 6, divisor: 10},
	{key: sensor.ActualTemperatureHK1, offset: 7, divisor: 10},
	{key: sensor.TargetTemperatureHK1, offset: 8, divisor: 10},
	{key: sensor.ActualTemperatureHK2, offset: 10, divisor: 10},
	{key: sensor.TargetTemperatureHK2, offset: 11, divisor: 10},
	{key: sensor.ActualTemperatureBuffer, offset: 17, divisor: 10},
	{key: sensor.TargetTemperatureBuffer, offset: 18, divisor: 10},
	{key: sensor.HeaterPressure, offset: 19, divisor: 100},
	{key: sensor.VolumeStream, offset: 20, divisor: 10},
	{key: sensor.ActualTemperatureWater, offset: 21, divisor: 10},
	{key: sensor.TargetTemperatureWater, offset: 22, divisor: 10},
	{key: sensor.SourceTemperature, offset: 35, divisor: 10},
}

// Daily counters are a single kWh register, totals are split in a kWh and
// a MWh register.
type energyRegister struct {
	key       string
	kwhOffset int
	mwhOffset int
}

var energyRegisters = [...]energyRegister{
	{key: sensor.ProducedHeatingToday, kwhOffset: 0, mwhOffset: -1},
	{key: sensor.ProducedHeatingTotal, kwhOffset: 1, mwhOffset: 2},
	{key: sensor.ProducedWaterHeatingToday, kwhOffset: 3, mwhOffset: -1},
	{key: sensor.ProducedWaterHeatingTotal, kwhOffset: 4, mwhOffset: 5},
	{key: sensor.ConsumedHeatingToday, kwhOffset: 10, mwhOffset: -1},
	{key: sensor.ConsumedHeatingTotal, kwhOffset: 11, mwhOffset: 12},
	{key: sensor.ConsumedWaterHeatingToday, kwhOffset: 13, mwhOffset: -1},
	{key: sensor.ConsumedWaterHeatingTotal, kwhOffset: 14, mwhOffset: 15},
}

func decodeSystemValues(registers []uint16, data map[string]any) {
	for _, r := range systemValueRegisters {
		raw := int16(registers[r.offset])
		if raw == notAvailable {
			continue
		}

		data[r.key] = float64(raw) / r.divisor
	}
}

func decodeEnergyManagement(registers []uint16, data map[string]any) {
	data[sensor.SGReadyState] = int(registers[0])
}

func decodeEnergy(registers []uint16, data map[string]any) {
	for _, r := range energyRegisters {
		kwh := float64(registers[r.kwhOffset])
		if r.mwhOffset >= 0 {
			kwh += float64(registers[r.mwhOffset]) * 1000
		}

		data[r.key] = kwh
	}
}
