/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/luxgrid/pxld/pkg/api"
	"github.com/luxgrid/pxld/pkg/config"
	"github.com/spf13/cobra"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Bootstrap and start the pxld server",
	Long: `Bootstrap pxld by creating configuration and an API key if they don't
exist, then start the inspection server. This is the recommended way to
get pxld running.

The command will:
- Create the configuration file with a generated API key if missing
- Resolve the API key ("auto" generates a fresh one at startup)
- Start the inspection API server

Examples:
  pxld up
  pxld up --data-dir ./mydata --port 9000
  pxld up --config ./custom-config.yaml --print-key`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		port, _ := cmd.Flags().GetInt("port")
		bind, _ := cmd.Flags().GetString("bind")
		configPath, _ := cmd.Flags().GetString("config")
		printKey, _ := cmd.Flags().GetBool("print-key")

		// Use default config path if not specified
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		var cfg *config.Config
		var err error

		// Check if config exists
		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.Printf("✅ Loaded existing configuration from %s\n", configPath)
		} else {
			cmd.Printf("🔧 First run detected. Bootstrapping pxld...\n")

			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return err
			}
			cmd.Printf("✅ Configuration created at %s\n", configPath)
		}

		applyFlagOverrides(cfg, dataDir, port, bind)

		apiKey, generated, err := resolveAPIKey(cfg)
		if err != nil {
			return err
		}
		if printKey || generated {
			cmd.Printf("🔑 API key: %s\n", apiKey)
		}

		cmd.Printf("🚀 Starting pxld server on %s:%d\n", cfg.Bind, cfg.Port)
		cmd.Printf("📁 Data directory: %s\n", cfg.DataDir)

		return startServer(cmd, api.ServerConfig{
			Port:    cfg.Port,
			Bind:    cfg.Bind,
			APIKey:  apiKey,
			DataDir: cfg.DataDir,
		}, args)
	},
}

func init() {
	rootCmd.AddCommand(upCmd)

	upCmd.Flags().StringP("data-dir", "d", "", "Data directory for the index cache")
	upCmd.Flags().IntP("port", "p", 9300, "Port to listen on")
	upCmd.Flags().String("bind", "127.0.0.1", "Address to bind the server to")
	upCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	upCmd.Flags().Bool("print-key", false, "Print the API key to the console")
}

// applyFlagOverrides layers explicitly set command line flags over the loaded
// configuration. Defaults leave the configuration untouched.
func applyFlagOverrides(cfg *config.Config, dataDir string, port int, bind string) {
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if port != 9300 { // Only override if explicitly set
		cfg.Port = port
	}
	if bind != "127.0.0.1" { // Only override if explicitly set
		cfg.Bind = bind
	}
}

// resolveAPIKey turns the configured key into the one the server uses. The
// "auto" marker generates a fresh key for this run without persisting it;
// an empty key disables authentication.
func resolveAPIKey(cfg *config.Config) (key string, generated bool, err error) {
	if cfg.APIKey != "auto" {
		return cfg.APIKey, false, nil
	}
	key, err = config.GenerateAPIKey(32)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}
