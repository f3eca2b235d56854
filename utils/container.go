package utils

import (
	"context"
	"sync"
)

type ContainerKey string

const (
	AddressProvider ContainerKey = "address_provider"
)

type container struct {
	mu    sync.RWMutex
	items map[ContainerKey]interface{}
}

// Container holds the long lived services shared by the commands and handlers
var Container = &container{
	items: make(map[ContainerKey]interface{}),
}

func (c *container) Assign(_ context.Context, key ContainerKey, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = value
}

func (c *container) Fetch(_ context.Context, key ContainerKey) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.items[key]
}

func (c *container) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[ContainerKey]interface{})
}
