package api

import "github.com/luxgrid/pxld/pkg/cache"

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer starts the API server with the given configuration
	StartServer(registry *FileRegistry, config ServerConfig) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}

// CacheFactory opens frame-index caches
type CacheFactory interface {
	// OpenCache opens (or creates) the index cache under dir
	OpenCache(dir string) (*cache.IndexCache, error)
}
