package sensor

// Description is the static metadata of a sensor.
type Description struct {
	Key         string
	Name        string
	Unit        string
	Icon        string
	StateClass  StateClass
	DeviceClass DeviceClass
}

func temperature(name string, key string) Description {
	return Description{
		Key:        key,
		Name:       name,
		Unit:       UnitCelsius,
		Icon:       "hass:thermometer",
		StateClass: StateClassMeasurement,
	}
}

func humidity(name string, key string) Description {
	return Description{
		Key:        key,
		Name:       name,
		Unit:       UnitPercentage,
		Icon:       "hass:water-percent",
		StateClass: StateClassMeasurement,
	}
}

func pressure(name string, key string) Description {
	return Description{
		Key:        key,
		Name:       name,
		Unit:       UnitBar,
		Icon:       "mdi:gauge",
		StateClass: StateClassMeasurement,
	}
}

func volumeStream(name string, key string) Description {
	return Description{
		Key:        key,
		Name:       name,
		Unit:       UnitLitresMinute,
		Icon:       "mdi:gauge",
		StateClass: StateClassMeasurement,
	}
}

var SystemValuesSensorTypes = []Description{
	temperature("Actual Temperature", ActualTemperature),
	temperature("Target Temperature", TargetTemperature),
	temperature("Actual Temperature FEK", ActualTemperatureFEK),
	temperature("Target Temperature FEK", TargetTemperatureFEK),
	humidity("Humidity", ActualHumidity),
	temperature("Dew Point Temperature", DewpointTemperature),
	temperature("Outdoor Temperature", OutdoorTemperature),
	temperature("Actual Temperature HK 1", ActualTemperatureHK1),
	temperature("Target Temperature HK 1", TargetTemperatureHK1),
	temperature("Actual Temperature HK 2", ActualTemperatureHK2),
	temperature("Target Temperature HK 2", TargetTemperatureHK2),
	temperature("Actual Temperature Buffer", ActualTemperatureBuffer),
	temperature("Target Temperature Buffer", TargetTemperatureBuffer),
	pressure("Heater Pressure", HeaterPressure),
	volumeStream("Volume Stream", VolumeStream),
	temperature("Actual Temperature Water", ActualTemperatureWater),
	temperature("Target Temperature Water", TargetTemperatureWater),
	temperature("Source Temperature", SourceTemperature),
}

var EnergyManagementSensorTypes = []Description{
	{
		Key:  SGReadyState,
		Name: "SG Ready State",
		Icon: "mdi:solar-power",
	},
}

// EnergyMeter is a (name, key, unit, icon) row of the energy table.
type EnergyMeter struct {
	Name string
	Key  string
	Unit string
	Icon string
}

var EnergySensorTypes = []EnergyMeter{
	{"Produced Heating Today", ProducedHeatingToday, UnitKiloWattHour, "mdi:radiator"},
	{"Produced Heating Total", ProducedHeatingTotal, UnitKiloWattHour, "mdi:radiator"},
	{"Produced Water Heating Today", ProducedWaterHeatingToday, UnitKiloWattHour, "mdi:water-boiler"},
	{"Produced Water Heating Total", ProducedWaterHeatingTotal, UnitKiloWattHour, "mdi:water-boiler"},
	{"Consumed Heating Today", ConsumedHeatingToday, UnitKiloWattHour, "mdi:lightning-bolt"},
	{"Consumed Heating Total", ConsumedHeatingTotal, UnitKiloWattHour, "mdi:lightning-bolt"},
	{"Consumed Water Heating Today", ConsumedWaterHeatingToday, UnitKiloWattHour, "mdi:lightning-bolt"},
	{"Consumed Water Heating Total", ConsumedWaterHeatingTotal, UnitKiloWattHour, "mdi:lightning-bolt"},
	{"Consumed Power", ConsumedPower, UnitKiloWatt, "mdi:lightning-bolt"},
}

// Description turns the row into a sensor description. Meters counting kWh
// are cumulative, everything else is an instantaneous measurement.
func (m EnergyMeter) Description() Description {
	description := Description{
		Key:        m.Key,
		Name:       m.Name,
		Unit:       m.Unit,
		Icon:       m.Icon,
		StateClass: StateClassMeasurement,
	}

	if description.Unit == UnitKiloWattHour {
		description.StateClass = StateClassTotalIncreasing
		description.DeviceClass = DeviceClassEnergy
	}

	return description
}

// Descriptions returns every sensor description in registration order.
func Descriptions() []Description {
	descriptions := make([]Description, 0, len(SystemValuesSensorTypes)+len(EnergyManagementSensorTypes)+len(EnergySensorTypes))
	descriptions = append(descriptions, SystemValuesSensorTypes...)
	descriptions = append(descriptions, EnergyManagementSensorTypes...)
	for _, meter := range EnergySensorTypes {
		descriptions = append(descriptions, meter.Description())
	}

	return descriptions
}
