// Package di provides dependency injection container
package di

import (
	"github.com/luxgrid/pxld/pkg/api" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	cacheFactory  api.CacheFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
		cacheFactory:  api.NewCacheFactory(),
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// GetCacheFactory returns the index cache factory
func (c *Container) GetCacheFactory() api.CacheFactory {
	return c.cacheFactory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// SetCacheFactory allows overriding the index cache factory (for testing)
func (c *Container) SetCacheFactory(factory api.CacheFactory) {
	c.cacheFactory = factory
}
