package api

import "github.com/luxgrid/pxld/pkg/cache"

// DefaultServerFactory is the default implementation of ServerFactory
type DefaultServerFactory struct{}

// NewServerFactory creates a new server factory
func NewServerFactory() ServerFactory {
	return &DefaultServerFactory{}
}

// CreateServerStarter creates a server starter
func (f *DefaultServerFactory) CreateServerStarter() ServerStarter {
	return &DefaultServerStarter{}
}

// DefaultServerStarter is the default implementation of ServerStarter
type DefaultServerStarter struct{}

// StartServer starts the API server with the given configuration
func (s *DefaultServerStarter) StartServer(registry *FileRegistry, config ServerConfig) error {
	return StartServer(registry, config)
}

// DefaultCacheFactory is the default implementation of CacheFactory
type DefaultCacheFactory struct{}

// NewCacheFactory creates a new cache factory
func NewCacheFactory() CacheFactory {
	return &DefaultCacheFactory{}
}

// OpenCache opens (or creates) the index cache under dir
func (f *DefaultCacheFactory) OpenCache(dir string) (*cache.IndexCache, error) {
	return cache.Open(dir)
}
