package storage

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	log "github.com/sirupsen/logrus"
	"github.com/victorjacobs/go-isg/config"
)

const Measurement = "heat_pump"

// Influx stores every coordinator snapshot as a point in InfluxDB.
type Influx struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewInflux(cfg config.Influx) *Influx {
	client := influxdb2.NewClient(cfg.Url, cfg.Token)

	return &Influx{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Organization, cfg.Bucket),
	}
}

// Check verifies InfluxDB is reachable and healthy.
func (i *Influx) Check(ctx context.Context) error {
	health, err := i.client.Health(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	if health.Status != "pass" {
		var message string
		if health.Message != nil {
			message = *health.Message
		}
		return fmt.Errorf("InfluxDB health check failed: %v", message)
	}

	log.Printf("Connected to InfluxDB")
	return nil
}

func (i *Influx) Write(ctx context.Context, device string, data map[string]any, timestamp time.Time) error {
	point := Point(device, data, timestamp)
	if len(point.FieldList()) == 0 {
		return nil
	}

	if err := i.writeAPI.WritePoint(ctx, point); err != nil {
		return fmt.Errorf("failed to write to InfluxDB: %w", err)
	}

	return nil
}

func (i *Influx) Close() {
	i.client.Close()
}

func Point(device string, data map[string]any, timestamp time.Time) *write.Point {
	fields := make(map[string]interface{}, len(data))
	for key, value := range data {
		if value != nil {
			fields[key] = value
		}
	}

	return influxdb2.NewPoint(Measurement, map[string]string{"device": device}, fields, timestamp)
}
