package coordinator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshReplacesSnapshot(t *testing.T) {
	results := []map[string]any{
		{"a": 1.0, "b": 2.0},
		{"a": 3.0},
	}
	i := 0
	c := New("isg", FetcherFunc(func(ctx context.Context) (map[string]any, error) {
		r := results[i]
		i++
		return r, nil
	}), time.Minute)

	require.NoError(t, c.Refresh(context.Background()))
	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	assert.True(t, c.LastUpdateSuccess())

	require.NoError(t, c.Refresh(context.Background()))
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"a": 3.0}, c.Data())
}

func TestRefreshFailureKeepsData(t *testing.T) {
	fail := false
	c := New("isg", FetcherFunc(func(ctx context.Context) (map[string]any, error) {
		if fail {
			return nil, errors.New("timeout")
		}
		return map[string]any{"a": 1.0}, nil
	}), time.Minute)

	require.NoError(t, c.Refresh(context.Background()))
	updated := c.LastUpdated()

	fail = true
	assert.EqualError(t, c.Refresh(context.Background()), "timeout")
	assert.False(t, c.LastUpdateSuccess())
	assert.EqualError(t, c.LastError(), "timeout")
	assert.Equal(t, updated, c.LastUpdated())

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)
}

func TestDataIsCopy(t *testing.T) {
	c := New("isg", FetcherFunc(func(ctx context.Context) (map[string]any, error) {
		return map[string]any{"a": 1.0}, nil
	}), time.Minute)
	require.NoError(t, c.Refresh(context.Background()))

	data := c.Data()
	data["a"] = 5.0

	v, _ := c.Get("a")
	assert.Equal(t, 1.0, v)
}

func TestListeners(t *testing.T) {
	c := New("isg", FetcherFunc(func(ctx context.Context) (map[string]any, error) {
		return map[string]any{}, nil
	}), time.Minute)

	calls := 0
	remove := c.AddListener(func() { calls++ })

	c.Refresh(context.Background())
	assert.Equal(t, 1, calls)

	remove()
	c.Refresh(context.Background())
	assert.Equal(t, 1, calls)
}

func TestRunStopsOnCancel(t *testing.T) {
	var fetches atomic.Int32
	c := New("isg", FetcherFunc(func(ctx context.Context) (map[string]any, error) {
		fetches.Add(1)
		return map[string]any{}, nil
	}), 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return fetches.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
