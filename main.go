package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/victorjacobs/go-isg/bridge"
	"github.com/victorjacobs/go-isg/config"
	"github.com/victorjacobs/go-isg/coordinator"
	"github.com/victorjacobs/go-isg/homeassistant"
	"github.com/victorjacobs/go-isg/isg"
	"github.com/victorjacobs/go-isg/routes"
	"github.com/victorjacobs/go-isg/storage"
)

func main() {
	var configFile, envFile string

	app := &cli.App{
		Name:  "go-isg",
		Usage: "bridge a Stiebel Eltron ISG heat pump to Home Assistant over MQTT",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       "isg.json",
				Usage:       "configuration file",
				Destination: &configFile,
			},
			&cli.StringFlag{
				Name:        "env",
				Value:       ".env",
				Usage:       "optional file with environment overrides",
				Destination: &envFile,
			},
		},
		Action: func(c *cli.Context) error {
			return run(c.Context, configFile, envFile)
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, configFile string, envFile string) error {
	if err := config.LoadEnvironment(envFile); err != nil {
		return fmt.Errorf("error loading %v: %w", envFile, err)
	}

	cfg, err := config.LoadConfiguration(configFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	if cfg.LogLevel != "" {
		level, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}

	var transport isg.Transport
	if cfg.Device.SerialPort != "" {
		log.Printf("Connecting to %v", cfg.Device.SerialPort)
		transport = isg.NewRTUTransport(cfg.Device.SerialPort, cfg.Device.BaudRate, cfg.Device.Timeout())
	} else {
		log.Printf("Connecting to %v", cfg.Device.Address)
		transport = isg.NewTCPTransport(cfg.Device.Address, cfg.Device.Timeout())
	}

	isgClient := isg.NewClient(transport, byte(cfg.Device.UnitId))
	defer isgClient.Close()

	dataCoordinator := coordinator.New(cfg.Name, isgClient, cfg.Interval())

	var b *bridge.Bridge
	mqttOpts := cfg.Mqtt.ClientOptions(cfg.Mqtt.TopicPrefix)
	mqttOpts.SetWill(fmt.Sprintf("%v/availability", cfg.Mqtt.TopicPrefix), homeassistant.PayloadOffline, 0, true)
	// Register sensors in the OnConnectHandler so Home Assistant sees them again after a broker restart
	mqttOpts.SetOnConnectHandler(func(client mqtt.Client) {
		if err := b.RegisterSensors(); err != nil {
			log.Printf("Registering sensors failed: %v", err)
			return
		}
		b.PublishStates()
	})

	mqttClient := mqtt.NewClient(mqttOpts)
	homeAssistantClient := homeassistant.NewClient(mqttClient, cfg.Mqtt.HomeAssistantPrefix, cfg.Mqtt.TopicPrefix)
	b = bridge.New(dataCoordinator, homeAssistantClient)

	if cfg.Influx.Url != "" {
		influx := storage.NewInflux(cfg.Influx)
		defer influx.Close()

		if err := influx.Check(ctx); err != nil {
			log.Printf("%v", err)
		}
		b.WithSink(influx)
	}

	if t := mqttClient.Connect(); t.Wait() && t.Error() != nil {
		return fmt.Errorf("MQTT connection error: %w", t.Error())
	}
	defer mqttClient.Disconnect(250)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go dataCoordinator.Run(ctx)

	router := routes.Router(b)
	go loopSafely(func() {
		if err := http.ListenAndServe(cfg.HttpAddress, router); err != nil {
			log.Printf("HTTP server stopped: %v", err)
		}

		time.Sleep(time.Second)
	})

	<-ctx.Done()
	log.Printf("Shutting down")

	if err := homeAssistantClient.PublishAvailability(false); err != nil {
		log.Printf("%v", err)
	}

	return nil
}
