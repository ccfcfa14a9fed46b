/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/luxgrid/pxld/pkg/api"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [file...]",
	Short: "Start the read-only inspection API server",
	Long: `Start the HTTP inspection server. Capture files named on the command
line are registered at startup; more can be registered over the API.
With --api-key set, every /api/v1 request must carry it in X-API-Key.

Examples:
  pxld serve show.pxld
  pxld serve --port 9300 --api-key mysecretkey --data-dir ./data show.pxld`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		apiKey, _ := cmd.Flags().GetString("api-key")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		noCache, _ := cmd.Flags().GetBool("no-cache")

		cfg := api.ServerConfig{
			Port:    port,
			Bind:    bind,
			APIKey:  apiKey,
			DataDir: dataDir,
		}
		if noCache {
			cfg.DataDir = ""
		}
		return startServer(cmd, cfg, args)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 9300, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind the server to")
	serveCmd.Flags().String("api-key", "", "API key for authentication (empty disables auth)")
	serveCmd.Flags().String("data-dir", "./data", "Data directory for the frame-index cache")
	serveCmd.Flags().Bool("no-cache", false, "Disable the frame-index cache")
}

// startServer wires the cache, registry, and server through the dependency
// container the way main injected them, preloading any named capture files.
func startServer(cmd *cobra.Command, cfg api.ServerConfig, preload []string) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	registry := api.NewFileRegistry(nil)
	if cfg.DataDir != "" {
		idx, err := container.GetCacheFactory().OpenCache(filepath.Join(cfg.DataDir, "index-cache"))
		if err != nil {
			return fmt.Errorf("failed to open index cache: %w", err)
		}
		defer idx.Close()
		registry = api.NewFileRegistry(idx)
	}
	defer registry.CloseAll()

	for _, path := range preload {
		id, r, err := registry.Open(path, false)
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", path, err)
		}
		cmd.Printf("Registered %s as %s (%d frames)\n", path, id, r.FrameCount())
	}

	starter := container.GetServerFactory().CreateServerStarter()
	return starter.StartServer(registry, cfg)
}
