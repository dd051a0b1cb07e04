package homeassistant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/victorjacobs/go-isg/coordinator"
	"github.com/victorjacobs/go-isg/sensor"
)

type fakeToken struct {
	err error
}

func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t *fakeToken) Done() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
func (t *fakeToken) Error() error { return t.err }

type message struct {
	payload  string
	retained bool
}

type fakeMqtt struct {
	mqtt.Client

	mutex     sync.Mutex
	published map[string]message
	err       error
}

func (f *fakeMqtt) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.published == nil {
		f.published = map[string]message{}
	}

	var p string
	switch v := payload.(type) {
	case string:
		p = v
	case []byte:
		p = string(v)
	}
	f.published[topic] = message{payload: p, retained: retained}

	return &fakeToken{err: f.err}
}

func newCoordinator(t *testing.T, data map[string]any) *coordinator.Coordinator {
	c := coordinator.New("isg", coordinator.FetcherFunc(func(ctx context.Context) (map[string]any, error) {
		return data, nil
	}), time.Minute)
	require.NoError(t, c.Refresh(context.Background()))

	return c
}

func TestRegisterSensor(t *testing.T) {
	m := &fakeMqtt{}
	client := NewClient(m, "homeassistant", "isg")

	c := newCoordinator(t, map[string]any{})
	meter := sensor.EnergySensorTypes[1].Description()
	require.NoError(t, client.RegisterSensor(sensor.NewEntity(c, meter)))

	published, ok := m.published["homeassistant/sensor/stiebel_eltron_isg_isg_produced_heating_total/config"]
	require.True(t, ok)
	assert.True(t, published.retained)

	var config map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(published.payload), &config))

	assert.Equal(t, "stiebel_eltron_isg_isg_produced_heating_total", config["unique_id"])
	assert.Equal(t, "Produced Heating Total", config["name"])
	assert.Equal(t, "mdi:radiator", config["icon"])
	assert.Equal(t, "kWh", config["unit_of_measurement"])
	assert.Equal(t, "total_increasing", config["state_class"])
	assert.Equal(t, "energy", config["device_class"])
	assert.Equal(t, "isg/sensor/produced_heating_total/state", config["state_topic"])
	assert.Equal(t, "isg/availability", config["availability_topic"])

	device := config["device"].(map[string]interface{})
	assert.Equal(t, "Stiebel Eltron", device["manufacturer"])
}

func TestRegisterSensorOmitsEmptyFields(t *testing.T) {
	m := &fakeMqtt{}
	client := NewClient(m, "homeassistant", "isg")

	entity := sensor.NewEntity(newCoordinator(t, map[string]any{}), sensor.EnergyManagementSensorTypes[0])
	require.NoError(t, client.RegisterSensor(entity))

	var config map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(m.published[client.ConfigTopic(entity)].payload), &config))

	assert.NotContains(t, config, "unit_of_measurement")
	assert.NotContains(t, config, "state_class")
	assert.NotContains(t, config, "device_class")
}

func TestPublishState(t *testing.T) {
	m := &fakeMqtt{}
	client := NewClient(m, "homeassistant", "isg")

	c := newCoordinator(t, map[string]any{sensor.ActualTemperature: 21.5})
	actual := sensor.NewEntity(c, sensor.SystemValuesSensorTypes[0])
	target := sensor.NewEntity(c, sensor.SystemValuesSensorTypes[1])

	require.NoError(t, client.PublishState(actual))
	require.NoError(t, client.PublishState(target))

	assert.Equal(t, "21.5", m.published["isg/sensor/actual_temperature/state"].payload)
	assert.Equal(t, PayloadNone, m.published["isg/sensor/target_temperature/state"].payload)
}

func TestPublishAvailability(t *testing.T) {
	m := &fakeMqtt{}
	client := NewClient(m, "homeassistant", "isg")

	require.NoError(t, client.PublishAvailability(true))
	assert.Equal(t, PayloadOnline, m.published["isg/availability"].payload)

	require.NoError(t, client.PublishAvailability(false))
	assert.Equal(t, PayloadOffline, m.published["isg/availability"].payload)
}

func TestPublishError(t *testing.T) {
	m := &fakeMqtt{err: errors.New("not connected")}
	client := NewClient(m, "homeassistant", "isg")

	err := client.PublishAvailability(true)
	assert.ErrorContains(t, err, "not connected")
	assert.ErrorContains(t, err, "isg/availability")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "None", FormatValue(nil, false))
	assert.Equal(t, "None", FormatValue(nil, true))
	assert.Equal(t, "-3.5", FormatValue(-3.5, true))
	assert.Equal(t, "4345", FormatValue(4345.0, true))
	assert.Equal(t, "2", FormatValue(2, true))
}
