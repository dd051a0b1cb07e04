package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultName                = "Stiebel Eltron ISG"
	DefaultHomeAssistantPrefix = "homeassistant"
	DefaultTopicPrefix         = "isg"
	DefaultScanInterval        = 60
	DefaultHttpAddress         = ":8080"
)

type Configuration struct {
	Name         string `json:"name"`
	ScanInterval int    `json:"scan_interval"`
	Device       Device `json:"device"`
	Mqtt         Mqtt   `json:"mqtt"`
	Influx       Influx `json:"influx"`
	HttpAddress  string `json:"http_address"`
	LogLevel     string `json:"log_level"`
}

type Device struct {
	// Either an address for Modbus TCP or a serial port for Modbus RTU
	Address    string `json:"address"`
	SerialPort string `json:"serial_port"`
	BaudRate   int    `json:"baud_rate"`
	UnitId     int    `json:"unit_id"`
	TimeoutMs  int    `json:"timeout_ms"`
}

type Mqtt struct {
	IpAddress           string `json:"ip_address"`
	Port                int    `json:"port"`
	Username            string `json:"username"`
	Password            string `json:"password"`
	HomeAssistantPrefix string `json:"home_assistant_prefix"`
	TopicPrefix         string `json:"topic_prefix"`
}

type Influx struct {
	Url          string `json:"url"`
	Token        string `json:"token"`
	Organization string `json:"organization"`
	Bucket       string `json:"bucket"`
}

func LoadConfiguration(filename string) (*Configuration, error) {
	var file *os.File
	var err error
	if file, err = os.Open(filename); err != nil {
		return nil, err
	}

	defer file.Close()
	decoder := json.NewDecoder(file)
	configuration := &Configuration{}
	if err := decoder.Decode(configuration); err != nil {
		return nil, fmt.Errorf("error decoding %v: %w", filename, err)
	}

	configuration.applyEnvironment()
	configuration.applyDefaults()

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return configuration, nil
}

// LoadEnvironment reads a .env file into the environment if there is one.
func LoadEnvironment(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// Secrets can be kept out of the JSON file.
func (c *Configuration) applyEnvironment() {
	overrides := map[string]*string{
		"ISG_DEVICE_ADDRESS": &c.Device.Address,
		"ISG_SERIAL_PORT":    &c.Device.SerialPort,
		"ISG_MQTT_ADDRESS":   &c.Mqtt.IpAddress,
		"ISG_MQTT_USERNAME":  &c.Mqtt.Username,
		"ISG_MQTT_PASSWORD":  &c.Mqtt.Password,
		"ISG_INFLUX_URL":     &c.Influx.Url,
		"ISG_INFLUX_TOKEN":   &c.Influx.Token,
		"ISG_LOG_LEVEL":      &c.LogLevel,
	}

	for name, field := range overrides {
		if value, ok := os.LookupEnv(name); ok {
			*field = value
		}
	}

	if value, ok := os.LookupEnv("ISG_SCAN_INTERVAL"); ok {
		if interval, err := strconv.Atoi(value); err != nil {
			log.Printf("Ignoring invalid ISG_SCAN_INTERVAL %q", value)
		} else {
			c.ScanInterval = interval
		}
	}
}

func (c *Configuration) applyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.ScanInterval == 0 {
		c.ScanInterval = DefaultScanInterval
	}
	if c.HttpAddress == "" {
		c.HttpAddress = DefaultHttpAddress
	}
	if c.Device.UnitId == 0 {
		c.Device.UnitId = 1
	}
	if c.Device.BaudRate == 0 {
		c.Device.BaudRate = 19200
	}
	if c.Device.TimeoutMs == 0 {
		c.Device.TimeoutMs = 3000
	}
	if c.Mqtt.Port == 0 {
		c.Mqtt.Port = 1883
	}
	if c.Mqtt.HomeAssistantPrefix == "" {
		c.Mqtt.HomeAssistantPrefix = DefaultHomeAssistantPrefix
	}
	if c.Mqtt.TopicPrefix == "" {
		c.Mqtt.TopicPrefix = DefaultTopicPrefix
	}
}

func (c *Configuration) Validate() error {
	if c.Device.Address == "" && c.Device.SerialPort == "" {
		return errors.New("either device.address or device.serial_port is required")
	}
	if c.Device.Address != "" && c.Device.SerialPort != "" {
		return errors.New("device.address and device.serial_port are mutually exclusive")
	}
	if c.Device.UnitId < 1 || c.Device.UnitId > 247 {
		return fmt.Errorf("invalid device.unit_id %v", c.Device.UnitId)
	}
	if c.ScanInterval < 1 {
		return fmt.Errorf("invalid scan_interval %v", c.ScanInterval)
	}
	if c.Mqtt.IpAddress == "" {
		return errors.New("mqtt.ip_address is required")
	}
	if c.Influx.Url != "" && c.Influx.Bucket == "" {
		return errors.New("influx.bucket is required when influx.url is set")
	}

	return nil
}

func (c *Configuration) Interval() time.Duration {
	return time.Duration(c.ScanInterval) * time.Second
}

func (d *Device) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

func (m *Mqtt) ClientOptions(clientId string) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%v:%v", m.IpAddress, m.Port)).
		SetClientID(clientId).
		SetUsername(m.Username).
		SetPassword(m.Password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			log.Printf("MQTT connection lost: %v", err)
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			log.Printf("MQTT reconnecting")
		})
}
