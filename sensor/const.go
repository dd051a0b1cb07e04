package sensor

const Domain = "stiebel_eltron_isg"

// Keys into the coordinator data.
const (
	ActualTemperature       = "actual_temperature"
	TargetTemperature       = "target_temperature"
	ActualTemperatureFEK    = "actual_temperature_fek"
	TargetTemperatureFEK    = "target_temperature_fek"
	ActualHumidity          = "actual_humidity"
	DewpointTemperature     = "dewpoint_temperature"
	OutdoorTemperature      = "outdoor_temperature"
	ActualTemperatureHK1    = "actual_temperature_hk1"
	TargetTemperatureHK1    = "target_temperature_hk1"
	ActualTemperatureHK2    = "actual_temperature_hk2"
	TargetTemperatureHK2    = "target_temperature_hk2"
	ActualTemperatureBuffer = "actual_temperature_buffer"
	TargetTemperatureBuffer = "target_temperature_buffer"
	ActualTemperatureWater  = "actual_temperature_water"
	TargetTemperatureWater  = "target_temperature_water"
	SourceTemperature       = "source_temperature"
	HeaterPressure          = "heater_pressure"
	VolumeStream            = "volume_stream"

	SGReadyState = "sg_ready_state"

	ProducedHeatingToday      = "produced_heating_today"
	ProducedHeatingTotal      = "produced_heating_total"
	ProducedWaterHeatingToday = "produced_water_heating_today"
	ProducedWaterHeatingTotal = "produced_water_heating_total"
	ConsumedHeatingToday      = "consumed_heating_today"
	ConsumedHeatingTotal      = "consumed_heating_total"
	ConsumedWaterHeatingToday = "consumed_water_heating_today"
	ConsumedWaterHeatingTotal = "consumed_water_heating_total"
	ConsumedPower             = "consumed_power"
)

const (
	UnitCelsius      = "°C"
	UnitPercentage   = "%"
	UnitBar          = "bar"
	UnitLitresMinute = "l/min"
	UnitKiloWattHour = "kWh"
	UnitKiloWatt     = "kW"
)

type StateClass string

const (
	StateClassNone            StateClass = ""
	StateClassMeasurement     StateClass = "measurement"
	StateClassTotalIncreasing StateClass = "total_increasing"
)

type DeviceClass string

const (
	DeviceClassNone   DeviceClass = ""
	DeviceClassEnergy DeviceClass = "energy"
)
