/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/luxgrid/pxld/pkg/di"
	"github.com/spf13/cobra"
)

// container holds the dependencies shared by the server-facing commands.
var container *di.Container

// SetContainer injects the dependency container. Called by main and by tests.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pxld",
	Short: "PXLD - LED show capture toolkit",
	Long: `pxld inspects, verifies, splits, and authors .pxld capture files:
self-describing containers of timed LED pixel frames addressed to
distributed slave controllers.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
