package homeassistant

import (
	"encoding/json"
	"fmt"
	"strconv"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-isg/sensor"
)

const (
	PayloadOnline  = "online"
	PayloadOffline = "offline"
	// Home Assistant shows a sensor receiving this payload as unknown
	PayloadNone = "None"
)

type Client struct {
	mqtt                mqtt.Client
	homeAssistantPrefix string
	topicPrefix         string
}

func NewClient(mqtt mqtt.Client, homeAssistantPrefix string, topicPrefix string) *Client {
	return &Client{
		mqtt:                mqtt,
		homeAssistantPrefix: homeAssistantPrefix,
		topicPrefix:         topicPrefix,
	}
}

func (h *Client) AvailabilityTopic() string {
	return fmt.Sprintf("%v/availability", h.topicPrefix)
}

func (h *Client) StateTopic(entity *sensor.Entity) string {
	return fmt.Sprintf("%v/sensor/%v/state", h.topicPrefix, entity.Description.Key)
}

func (h *Client) ConfigTopic(entity *sensor.Entity) string {
	return fmt.Sprintf("%v/sensor/%v/config", h.homeAssistantPrefix, entity.UniqueID())
}

func (h *Client) RegisterSensor(entity *sensor.Entity) error {
	device := entity.Device()

	sensorConfiguration, err := json.Marshal(sensorConfiguration{
		UniqueId:          entity.UniqueID(),
		ObjectId:          entity.UniqueID(),
		Name:              entity.Name(),
		Icon:              entity.Description.Icon,
		DeviceClass:       string(entity.Description.DeviceClass),
		StateClass:        string(entity.Description.StateClass),
		StateTopic:        h.StateTopic(entity),
		AvailabilityTopic: h.AvailabilityTopic(),
		UnitOfMeasurement: entity.Description.Unit,
		Device: deviceConfiguration{
			Identifiers:  device.Identifiers,
			Name:         device.Name,
			Manufacturer: device.Manufacturer,
			Model:        device.Model,
		},
	})
	if err != nil {
		return err
	}

	return h.publish(h.ConfigTopic(entity), true, sensorConfiguration)
}

// PublishState publishes the current value of the sensor, or PayloadNone
// when the coordinator has no value for it.
func (h *Client) PublishState(entity *sensor.Entity) error {
	value, ok := entity.NativeValue()

	return h.publish(h.StateTopic(entity), true, FormatValue(value, ok))
}

func (h *Client) PublishAvailability(online bool) error {
	payload := PayloadOffline
	if online {
		payload = PayloadOnline
	}

	return h.publish(h.AvailabilityTopic(), true, payload)
}

func (h *Client) publish(topic string, retained bool, payload interface{}) error {
	if t := h.mqtt.Publish(topic, 0, retained, payload); t.Wait() && t.Error() != nil {
		return fmt.Errorf("error publishing to %v: %w", topic, t.Error())
	}

	return nil
}

func FormatValue(value any, ok bool) string {
	if !ok || value == nil {
		return PayloadNone
	}

	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
