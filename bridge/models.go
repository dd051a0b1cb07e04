package bridge

import (
	"context"
	"time"

	"github.com/victorjacobs/go-isg/sensor"
)

type Publisher interface {
	RegisterSensor(entity *sensor.Entity) error
	PublishState(entity *sensor.Entity) error
	PublishAvailability(online bool) error
}

type Sink interface {
	Write(ctx context.Context, device string, data map[string]any, timestamp time.Time) error
}
