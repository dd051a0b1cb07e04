package isg

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/victorjacobs/go-isg/sensor"
)

type Client struct {
	transport Transport
	unitID    byte
	now       func() time.Time

	mutex            sync.Mutex
	lastConsumed     float64
	lastConsumedAt   time.Time
	haveLastConsumed bool
}

func NewClient(transport Transport, unitID byte) *Client {
	return &Client{
		transport: transport,
		unitID:    unitID,
		now:       time.Now,
	}
}

func (c *Client) ReadInputRegisters(ctx context.Context, address uint16, count uint16) ([]uint16, error) {
	return c.read(ctx, funcReadInputRegisters, address, count)
}

func (c *Client) ReadHoldingRegisters(ctx context.Context, address uint16, count uint16) ([]uint16, error) {
	return c.read(ctx, funcReadHoldingRegisters, address, count)
}

func (c *Client) read(ctx context.Context, function byte, address uint16, count uint16) ([]uint16, error) {
	request, err := readRequest(function, address, count)
	if err != nil {
		return nil, err
	}

	response, err := c.transport.Request(ctx, c.unitID, request)
	if err != nil {
		return nil, err
	}

	return parseReadResponse(function, count, response)
}

// Fetch reads all register blocks and decodes them into sensor keys. Sensors
// the heat pump does not have are left out.
func (c *Client) Fetch(ctx context.Context) (map[string]any, error) {
	data := map[string]any{}

	if registers, err := c.ReadInputRegisters(ctx, systemValuesAddress, systemValuesCount); err != nil {
		return nil, fmt.Errorf("error reading system values: %w", err)
	} else {
		decodeSystemValues(registers, data)
	}

	if registers, err := c.ReadInputRegisters(ctx, energyManagementAddress, energyManagementCount); err != nil {
		return nil, fmt.Errorf("error reading energy management values: %w", err)
	} else {
		decodeEnergyManagement(registers, data)
	}

	if registers, err := c.ReadInputRegisters(ctx, energyAddress, energyCount); err != nil {
		return nil, fmt.Errorf("error reading energy values: %w", err)
	} else {
		decodeEnergy(registers, data)
	}

	if power, ok := c.consumedPower(data); ok {
		data[sensor.ConsumedPower] = power
	}

	return data, nil
}

// consumedPower derives the current power draw in kW from how much the
// consumed today counters grew since the previous fetch.
func (c *Client) consumedPower(data map[string]any) (float64, bool) {
	heating, ok := data[sensor.ConsumedHeatingToday].(float64)
	if !ok {
		return 0, false
	}
	water, ok := data[sensor.ConsumedWaterHeatingToday].(float64)
	if !ok {
		return 0, false
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	consumed := heating + water
	now := c.now()

	previous, previousAt, havePrevious := c.lastConsumed, c.lastConsumedAt, c.haveLastConsumed
	c.lastConsumed, c.lastConsumedAt, c.haveLastConsumed = consumed, now, true

	if !havePrevious {
		return 0, false
	}

	// Counters reset at midnight
	if consumed < previous {
		log.Debugf("Consumed energy counter reset from %v to %v kWh", previous, consumed)
		return 0, false
	}

	hours := now.Sub(previousAt).Hours()
	if hours <= 0 {
		return 0, false
	}

	return (consumed - previous) / hours, true
}

func (c *Client) Close() error {
	return c.transport.Close()
}
