package homeassistant

type sensorConfiguration struct {
	UniqueId          string              `json:"unique_id"`
	ObjectId          string              `json:"object_id"`
	Name              string              `json:"name"`
	Icon              string              `json:"icon,omitempty"`
	DeviceClass       string              `json:"device_class,omitempty"`
	StateClass        string              `json:"state_class,omitempty"`
	StateTopic        string              `json:"state_topic"`
	AvailabilityTopic string              `json:"availability_topic"`
	UnitOfMeasurement string              `json:"unit_of_measurement,omitempty"`
	Device            deviceConfiguration `json:"device"`
}

type deviceConfiguration struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model"`
}
