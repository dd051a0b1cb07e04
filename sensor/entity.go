package sensor

import "fmt"

// Coordinator is the data source sensors read their values from.
type Coordinator interface {
	Name() string
	Get(key string) (any, bool)
	LastUpdateSuccess() bool
}

type DeviceInfo struct {
	Identifiers  []string
	Name         string
	Manufacturer string
	Model        string
}

type Entity struct {
	coordinator Coordinator
	Description Description
}

func NewEntity(coordinator Coordinator, description Description) *Entity {
	return &Entity{
		coordinator: coordinator,
		Description: description,
	}
}

// SetupEntities creates an entity for every description and hands them to add.
func SetupEntities(coordinator Coordinator, add func(entities []*Entity)) {
	var entities []*Entity

	for _, description := range SystemValuesSensorTypes {
		entities = append(entities, NewEntity(coordinator, description))
	}

	for _, description := range EnergyManagementSensorTypes {
		entities = append(entities, NewEntity(coordinator, description))
	}

	for _, meter := range EnergySensorTypes {
		entities = append(entities, NewEntity(coordinator, meter.Description()))
	}

	add(entities)
}

func (e *Entity) UniqueID() string {
	return fmt.Sprintf("%v_%v_%v", Domain, e.coordinator.Name(), e.Description.Key)
}

func (e *Entity) Name() string {
	return e.Description.Name
}

// NativeValue looks up the latest value of the sensor. The second return
// value is false when the coordinator has no value for the key.
func (e *Entity) NativeValue() (any, bool) {
	return e.coordinator.Get(e.Description.Key)
}

func (e *Entity) Available() bool {
	return e.coordinator.LastUpdateSuccess()
}

func (e *Entity) Device() DeviceInfo {
	return DeviceInfo{
		Identifiers:  []string{fmt.Sprintf("%v_%v", Domain, e.coordinator.Name())},
		Name:         e.coordinator.Name(),
		Manufacturer: "Stiebel Eltron",
		Model:        "ISG",
	}
}
