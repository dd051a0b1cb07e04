package bridge

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/victorjacobs/go-isg/coordinator"
	"github.com/victorjacobs/go-isg/sensor"
)

const sinkTimeout = 10 * time.Second

type Bridge struct {
	coordinator *coordinator.Coordinator
	publisher   Publisher
	sink        Sink

	mutex    sync.RWMutex
	entities []*sensor.Entity
	byKey    map[string]*sensor.Entity
}

func New(c *coordinator.Coordinator, publisher Publisher) *Bridge {
	b := &Bridge{
		coordinator: c,
		publisher:   publisher,
		byKey:       map[string]*sensor.Entity{},
	}

	sensor.SetupEntities(c, b.addEntities)
	c.AddListener(b.onUpdate)

	return b
}

// WithSink makes the bridge store every successful update in sink as well.
func (b *Bridge) WithSink(sink Sink) *Bridge {
	b.sink = sink
	return b
}

func (b *Bridge) addEntities(entities []*sensor.Entity) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for _, entity := range entities {
		b.entities = append(b.entities, entity)
		b.byKey[entity.Description.Key] = entity
	}
}

func (b *Bridge) Entities() []*sensor.Entity {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return append([]*sensor.Entity(nil), b.entities...)
}

func (b *Bridge) Entity(key string) (*sensor.Entity, bool) {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	entity, ok := b.byKey[key]
	return entity, ok
}

func (b *Bridge) Coordinator() *coordinator.Coordinator {
	return b.coordinator
}

// RegisterSensors publishes the discovery configuration of every entity.
func (b *Bridge) RegisterSensors() error {
	for _, entity := range b.Entities() {
		if err := b.publisher.RegisterSensor(entity); err != nil {
			return err
		}

		log.WithField("unique_id", entity.UniqueID()).Debugf("Registered sensor %v", entity.Name())
	}

	log.Printf("Registered %v sensors", len(b.Entities()))
	return nil
}

func (b *Bridge) PublishStates() {
	available := b.coordinator.LastUpdateSuccess()

	if err := b.publisher.PublishAvailability(available); err != nil {
		log.Printf("MQTT publishing failed: %v", err)
		return
	}

	if !available {
		return
	}

	for _, entity := range b.Entities() {
		if err := b.publisher.PublishState(entity); err != nil {
			log.WithField("key", entity.Description.Key).Printf("MQTT publishing failed: %v", err)
			continue
		}
	}
}

func (b *Bridge) onUpdate() {
	b.PublishStates()

	if b.sink == nil || !b.coordinator.LastUpdateSuccess() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	defer cancel()

	if err := b.sink.Write(ctx, b.coordinator.Name(), b.coordinator.Data(), b.coordinator.LastUpdated()); err != nil {
		log.Printf("Storing readings failed: %v", err)
	}
}
