// Package di provides a minimal service container for module wiring.
package di

import (
	"fmt"
	"sync"
)

// ServiceRegistry is the read side of the container.
type ServiceRegistry interface {
	// Get returns the service registered under name, or nil.
	Get(name string) any
	// MustGet returns the service or panics. Wiring bugs should fail loudly
	// at startup, not at first use.
	MustGet(name string) any
}

// Container is the write side of the container, used during module registration.
type Container interface {
	ServiceRegistry
	// Register stores a service under name. Re-registering a name panics.
	Register(name string, svc any)
}

type container struct {
	mu       sync.RWMutex
	services map[string]any
}

// NewContainer creates an empty container.
func NewContainer() Container {
	return &container{services: make(map[string]any)}
}

func (c *container) Register(name string, svc any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[name]; exists {
		panic(fmt.Sprintf("di: service %q already registered", name))
	}
	c.services[name] = svc
}

func (c *container) Get(name string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.services[name]
}

func (c *container) MustGet(name string) any {
	svc := c.Get(name)
	if svc == nil {
		panic(fmt.Sprintf("di: service %q not registered", name))
	}
	return svc
}
