package coordinator

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type Fetcher interface {
	Fetch(ctx context.Context) (map[string]any, error)
}

type FetcherFunc func(ctx context.Context) (map[string]any, error)

func (f FetcherFunc) Fetch(ctx context.Context) (map[string]any, error) {
	return f(ctx)
}

// Coordinator polls a Fetcher and caches the latest readings for sensors.
type Coordinator struct {
	name     string
	fetcher  Fetcher
	interval time.Duration

	mutex             sync.RWMutex
	data              map[string]any
	lastUpdateSuccess bool
	lastUpdated       time.Time
	lastError         error

	listenerMutex sync.Mutex
	listeners     map[int]func()
	nextListener  int
}

func New(name string, fetcher Fetcher, interval time.Duration) *Coordinator {
	return &Coordinator{
		name:      name,
		fetcher:   fetcher,
		interval:  interval,
		data:      map[string]any{},
		listeners: map[int]func(){},
	}
}

func (c *Coordinator) Name() string {
	return c.name
}

// Data returns a copy of the latest snapshot.
func (c *Coordinator) Data() map[string]any {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	data := make(map[string]any, len(c.data))
	for k, v := range c.data {
		data[k] = v
	}

	return data
}

func (c *Coordinator) Get(key string) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	v, ok := c.data[key]
	return v, ok
}

func (c *Coordinator) LastUpdateSuccess() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.lastUpdateSuccess
}

func (c *Coordinator) LastUpdated() time.Time {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.lastUpdated
}

func (c *Coordinator) LastError() error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.lastError
}

// AddListener registers f to be called after every refresh. The returned
// function removes it again.
func (c *Coordinator) AddListener(f func()) func() {
	c.listenerMutex.Lock()
	defer c.listenerMutex.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = f

	return func() {
		c.listenerMutex.Lock()
		defer c.listenerMutex.Unlock()

		delete(c.listeners, id)
	}
}

// Refresh fetches new data. On failure the previous snapshot is kept and the
// coordinator is marked as unsuccessful until the next good fetch.
func (c *Coordinator) Refresh(ctx context.Context) error {
	data, err := c.fetcher.Fetch(ctx)

	c.mutex.Lock()
	if err != nil {
		if c.lastError == nil {
			log.Printf("Error fetching %v data: %v", c.name, err)
		}
		c.lastUpdateSuccess = false
		c.lastError = err
	} else {
		if c.lastError != nil {
			log.Printf("Fetching %v data recovered", c.name)
		}
		c.data = data
		c.lastUpdateSuccess = true
		c.lastUpdated = time.Now()
		c.lastError = nil
	}
	c.mutex.Unlock()

	c.notify()

	return err
}

func (c *Coordinator) notify() {
	c.listenerMutex.Lock()
	listeners := make([]func(), 0, len(c.listeners))
	for _, f := range c.listeners {
		listeners = append(listeners, f)
	}
	c.listenerMutex.Unlock()

	for _, f := range listeners {
		f()
	}
}

// Run refreshes immediately and then on every tick until ctx is done.
func (c *Coordinator) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		if err := c.Refresh(ctx); err != nil {
			log.Debugf("Refresh of %v failed: %v", c.name, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
