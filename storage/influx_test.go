package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriteAPI struct {
	api.WriteAPIBlocking

	points []*write.Point
	err    error
}

func (f *fakeWriteAPI) WritePoint(ctx context.Context, point ...*write.Point) error {
	f.points = append(f.points, point...)
	return f.err
}

func TestPoint(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	point := Point("isg", map[string]any{"outdoor_temperature": -3.5, "missing": nil}, ts)

	assert.Equal(t, Measurement, point.Name())
	assert.Equal(t, ts, point.Time())

	require.Len(t, point.TagList(), 1)
	assert.Equal(t, "device", point.TagList()[0].Key)
	assert.Equal(t, "isg", point.TagList()[0].Value)

	require.Len(t, point.FieldList(), 1)
	assert.Equal(t, "outdoor_temperature", point.FieldList()[0].Key)
	assert.Equal(t, -3.5, point.FieldList()[0].Value)
}

func TestWrite(t *testing.T) {
	writeAPI := &fakeWriteAPI{}
	influx := &Influx{writeAPI: writeAPI}

	require.NoError(t, influx.Write(context.Background(), "isg", map[string]any{"a": 1.0}, time.Now()))
	assert.Len(t, writeAPI.points, 1)

	require.NoError(t, influx.Write(context.Background(), "isg", map[string]any{}, time.Now()))
	assert.Len(t, writeAPI.points, 1, "empty snapshots are not written")

	writeAPI.err = errors.New("unauthorized")
	assert.ErrorContains(t, influx.Write(context.Background(), "isg", map[string]any{"a": 1.0}, time.Now()), "unauthorized")
}
