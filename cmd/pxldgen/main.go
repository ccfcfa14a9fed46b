package main

import (
	"fmt"
	"os"

	"github.com/luxgrid/pxld/pkg/rig"
	"github.com/spf13/cobra"
)

// Global configuration
type Config struct {
	RigPath string
	Output  string
	FPS     uint8
	Seconds float64
	Quiet   bool
}

// Global variables
var (
	config  Config
	showRig *rig.Rig
	rootCmd *cobra.Command
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "pxldgen",
		Short: "PXLD show generator - author demo capture files",
		Long: `A command-line tool that authors demo .pxld capture files straight
from a rig document, for exercising players and the inspection API.

Examples:
  pxldgen solid --rig rig.yaml --color 255,0,0 -o red.pxld
  pxldgen fade --rig rig.yaml --seconds 5
  pxldgen chase --rig rig.yaml --width 5 --fps 25`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Every generator draws against the rig document
			var err error
			showRig, err = rig.Load(config.RigPath)
			if err != nil {
				return fmt.Errorf("failed to load rig: %w", err)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&config.RigPath, "rig", "r", "rig.yaml", "rig document to generate against")
	rootCmd.PersistentFlags().StringVarP(&config.Output, "output", "o", "show.pxld", "output .pxld path")
	rootCmd.PersistentFlags().Uint8Var(&config.FPS, "fps", 40, "declared playback frame rate")
	rootCmd.PersistentFlags().Float64Var(&config.Seconds, "seconds", 10, "show length in seconds")
	rootCmd.PersistentFlags().BoolVarP(&config.Quiet, "quiet", "q", false, "suppress non-essential messages")

	// Add subcommands
	rootCmd.AddCommand(solidCmd)
	rootCmd.AddCommand(fadeCmd)
	rootCmd.AddCommand(chaseCmd)
}
