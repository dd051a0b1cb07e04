package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"github.com/victorjacobs/go-isg/bridge"
	"github.com/victorjacobs/go-isg/sensor"
)

type sensorState struct {
	UniqueId    string `json:"unique_id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Unit        string `json:"unit,omitempty"`
	StateClass  string `json:"state_class,omitempty"`
	DeviceClass string `json:"device_class,omitempty"`
	Value       any    `json:"value"`
}

type stateResponse struct {
	Name          string        `json:"name"`
	Available     bool          `json:"available"`
	LastRefreshed time.Time     `json:"last_refreshed"`
	Sensors       []sensorState `json:"sensors"`
}

func newSensorState(entity *sensor.Entity) sensorState {
	value, _ := entity.NativeValue()

	return sensorState{
		UniqueId:    entity.UniqueID(),
		Key:         entity.Description.Key,
		Name:        entity.Name(),
		Unit:        entity.Description.Unit,
		StateClass:  string(entity.Description.StateClass),
		DeviceClass: string(entity.Description.DeviceClass),
		Value:       value,
	}
}

func Router(b *bridge.Bridge) *httprouter.Router {
	router := httprouter.New()
	router.GET("/state", State(b))
	router.GET("/state/:key", SensorState(b))

	return router
}

func State(b *bridge.Bridge) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		c := b.Coordinator()

		resp := stateResponse{
			Name:          c.Name(),
			Available:     c.LastUpdateSuccess(),
			LastRefreshed: c.LastUpdated(),
			Sensors:       []sensorState{},
		}

		for _, entity := range b.Entities() {
			resp.Sensors = append(resp.Sensors, newSensorState(entity))
		}

		writeJson(w, resp)
	}
}

func SensorState(b *bridge.Bridge) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		entity, ok := b.Entity(params.ByName("key"))
		if !ok {
			http.Error(w, "unknown sensor", http.StatusNotFound)
			return
		}

		writeJson(w, newSensorState(entity))
	}
}

func writeJson(w http.ResponseWriter, v interface{}) {
	if marshaled, err := json.Marshal(v); err != nil {
		log.Printf("error marshaling: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.Write(marshaled)
	}
}
