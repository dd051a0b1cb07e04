package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCoordinator struct {
	name    string
	data    map[string]any
	success bool
}

func (f *fakeCoordinator) Name() string { return f.name }

func (f *fakeCoordinator) Get(key string) (any, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCoordinator) LastUpdateSuccess() bool { return f.success }

func setup(t *testing.T, c *fakeCoordinator) []*Entity {
	t.Helper()

	var added []*Entity
	calls := 0
	SetupEntities(c, func(entities []*Entity) {
		calls++
		added = entities
	})
	require.Equal(t, 1, calls)

	return added
}

func TestSetupEntitiesCoversEveryDescription(t *testing.T) {
	entities := setup(t, &fakeCoordinator{name: "isg"})

	require.Len(t, entities, len(SystemValuesSensorTypes)+len(EnergyManagementSensorTypes)+len(EnergySensorTypes))
	for i, description := range Descriptions() {
		assert.Equal(t, description, entities[i].Description)
	}
}

func TestNativeValueIsLiveLookup(t *testing.T) {
	c := &fakeCoordinator{name: "isg", data: map[string]any{}}
	entities := setup(t, c)

	for i, entity := range entities {
		_, ok := entity.NativeValue()
		assert.False(t, ok, entity.Description.Key)

		c.data[entity.Description.Key] = float64(i) + 0.5

		value, ok := entity.NativeValue()
		assert.True(t, ok)
		assert.Equal(t, float64(i)+0.5, value)
	}

	c.data[SGReadyState] = 3
	for _, entity := range entities {
		if entity.Description.Key == SGReadyState {
			value, _ := entity.NativeValue()
			assert.Equal(t, 3, value)
		}
	}
}

func TestUniqueID(t *testing.T) {
	entities := setup(t, &fakeCoordinator{name: "Heatpump"})

	assert.Equal(t, "stiebel_eltron_isg_Heatpump_actual_temperature", entities[0].UniqueID())

	seen := map[string]bool{}
	for _, entity := range entities {
		id := entity.UniqueID()
		assert.Equal(t, Domain+"_Heatpump_"+entity.Description.Key, id)
		assert.False(t, seen[id], "duplicate unique id %v", id)
		seen[id] = true
	}
}

func TestEnergyClassification(t *testing.T) {
	for _, meter := range EnergySensorTypes {
		description := meter.Description()

		if meter.Unit == UnitKiloWattHour {
			assert.Equal(t, StateClassTotalIncreasing, description.StateClass, meter.Key)
			assert.Equal(t, DeviceClassEnergy, description.DeviceClass, meter.Key)
		} else {
			assert.Equal(t, StateClassMeasurement, description.StateClass, meter.Key)
			assert.Equal(t, DeviceClassNone, description.DeviceClass, meter.Key)
		}
	}

	power := EnergyMeter{"Consumed Power", ConsumedPower, UnitKiloWatt, "mdi:lightning-bolt"}.Description()
	assert.Equal(t, StateClassMeasurement, power.StateClass)
}

func TestSystemValuesAreMeasurements(t *testing.T) {
	for _, description := range SystemValuesSensorTypes {
		assert.Equal(t, StateClassMeasurement, description.StateClass, description.Key)
		assert.NotEmpty(t, description.Unit, description.Key)
	}

	sgReady := EnergyManagementSensorTypes[0]
	assert.Equal(t, StateClassNone, sgReady.StateClass)
	assert.Empty(t, sgReady.Unit)
}

func TestAvailabilityAndDevice(t *testing.T) {
	c := &fakeCoordinator{name: "isg"}
	entity := NewEntity(c, SystemValuesSensorTypes[0])

	assert.False(t, entity.Available())
	c.success = true
	assert.True(t, entity.Available())

	device := entity.Device()
	assert.Equal(t, []string{"stiebel_eltron_isg_isg"}, device.Identifiers)
	assert.Equal(t, "Stiebel Eltron", device.Manufacturer)
}
