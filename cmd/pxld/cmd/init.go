/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/luxgrid/pxld/pkg/config"
	"github.com/spf13/cobra"
)

// rigSkeleton is the starter rig document written by init.
const rigSkeleton = `# pxld rig document: one entry per pixel slave controller.
name: example-rig
slaves:
  - id: 1
    name: left-wall
    led_type: APA102C        # APA102C | WS2812B | STANDARD_LED
    outputs:
      - label: strip-a
        count: 120           # pixels (channels for STANDARD_LED)
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration and rig document",
	Long: `Write a starter tool configuration and rig document for a new
installation.

This command will:
- Create the configuration file with a generated API key
- Write a commented rig document skeleton to edit
- Point the configuration at the rig document

Examples:
  pxld init
  pxld init --config ./pxld.yaml --rig ./rig.yaml --data-dir ./data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		rigPath, _ := cmd.Flags().GetString("rig")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		force, _ := cmd.Flags().GetBool("force")

		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		cfg, created, err := initWorkspace(configPath, rigPath, dataDir, force)
		if err != nil {
			return err
		}
		if !created {
			cmd.Printf("Already initialized. Use --force to reinitialize.\n")
			cmd.Printf("Configuration: %s\n", configPath)
			return nil
		}

		cmd.Printf("✅ pxld initialization completed successfully!\n")
		cmd.Printf("Configuration: %s\n", configPath)
		cmd.Printf("Rig document: %s\n", rigPath)
		cmd.Printf("API key: %s\n", cfg.APIKey)
		cmd.Printf("\nYou can now start the server with:\n")
		cmd.Printf("  pxld up --config %s\n", configPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("config", "", "Path to config file (default: OS-specific location)")
	initCmd.Flags().String("rig", "rig.yaml", "Path for the starter rig document")
	initCmd.Flags().String("data-dir", "./data", "Data directory for the index cache")
	initCmd.Flags().Bool("force", false, "Overwrite existing configuration and rig document")
}

// initWorkspace bootstraps the tool config and a starter rig document.
// created reports whether anything was written; an existing installation
// without force is left untouched.
func initWorkspace(configPath, rigPath, dataDir string, force bool) (*config.Config, bool, error) {
	if config.ConfigExists(configPath) && !force {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, false, err
		}
		return cfg, false, nil
	}

	cfg, err := config.BootstrapConfig(configPath, dataDir)
	if err != nil {
		return nil, false, err
	}

	if _, err := os.Stat(rigPath); os.IsNotExist(err) || force {
		if dir := filepath.Dir(rigPath); dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return nil, false, fmt.Errorf("failed to create rig directory: %w", err)
			}
		}
		if err := os.WriteFile(rigPath, []byte(rigSkeleton), 0600); err != nil {
			return nil, false, fmt.Errorf("failed to write rig document: %w", err)
		}
	}

	cfg.RigPath = rigPath
	if err := config.SaveConfig(cfg, configPath); err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}
