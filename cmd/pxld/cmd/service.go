/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/luxgrid/pxld/pkg/config"
	"github.com/spf13/cobra"
)

// serviceCmd represents the service command
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage pxld as a systemd service",
	Long: `Manage pxld as a systemd service. This command provides native
integration with systemd for production deployments.

The service will be installed with proper security settings and
automatic restart on failure.`,
}

// installServiceCmd represents the service install command
var installServiceCmd = &cobra.Command{
	Use:   "install",
	Short: "Install pxld as a systemd service",
	Long: `Install pxld as a systemd service with proper configuration.

This will:
- Create or use existing configuration
- Generate systemd unit file
- Enable and optionally start the service

Examples:
  pxld service install
  pxld service install --data-dir /var/lib/pxld --user pxld`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		configPath, _ := cmd.Flags().GetString("config")
		user, _ := cmd.Flags().GetString("user")
		port, _ := cmd.Flags().GetInt("port")
		startNow, _ := cmd.Flags().GetBool("start")

		// Use default config path if not specified
		if configPath == "" {
			configPath = config.GetDefaultConfigPath()
		}

		// Check if running as root (required for systemd operations)
		if os.Geteuid() != 0 {
			cmd.Printf("Error: service install requires root privileges\n")
			cmd.Printf("Run with: sudo pxld service install\n")
			return fmt.Errorf("not running as root")
		}

		cmd.Printf("🔧 Installing pxld systemd service...\n")

		// Ensure config exists
		var cfg *config.Config
		var err error

		if config.ConfigExists(configPath) {
			cfg, err = config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cmd.Printf("✅ Loaded existing configuration\n")
		} else {
			cfg, err = config.BootstrapConfig(configPath, dataDir)
			if err != nil {
				return err
			}
			cmd.Printf("✅ Created new configuration at %s\n", configPath)
		}

		// Override config with flags
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
		if port != 9300 {
			cfg.Port = port
		}

		// Save updated config
		if err := config.SaveConfig(cfg, configPath); err != nil {
			return err
		}

		// Create systemd unit file
		if err := createSystemdUnit(cfg, configPath, user); err != nil {
			return fmt.Errorf("failed to create systemd unit: %w", err)
		}

		// Reload systemd
		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}

		// Enable service
		if err := runSystemctlCommand("enable", "pxld.service"); err != nil {
			return fmt.Errorf("failed to enable service: %w", err)
		}

		cmd.Printf("✅ Service enabled successfully\n")

		// Start service if requested
		if startNow {
			if err := runSystemctlCommand("start", "pxld.service"); err != nil {
				return fmt.Errorf("failed to start service: %w", err)
			}
			cmd.Printf("✅ Service started successfully\n")
		}

		cmd.Printf("\n🎉 pxld service installed!\n")
		cmd.Printf("Service: pxld.service\n")
		cmd.Printf("Config: %s\n", configPath)
		cmd.Printf("Data: %s\n", cfg.DataDir)
		cmd.Printf("Port: %d\n", cfg.Port)

		if !startNow {
			cmd.Printf("\nTo start the service: sudo systemctl start pxld.service\n")
		}
		cmd.Printf("To check status: sudo systemctl status pxld.service\n")
		cmd.Printf("To view logs: sudo journalctl -u pxld.service -f\n")
		return nil
	},
}

// startServiceCmd represents the service start command
var startServiceCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the pxld service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSystemctlCommand("start", "pxld.service"); err != nil {
			return fmt.Errorf("failed to start service: %w", err)
		}
		cmd.Printf("✅ pxld service started\n")
		return nil
	},
}

// stopServiceCmd represents the service stop command
var stopServiceCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the pxld service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSystemctlCommand("stop", "pxld.service"); err != nil {
			return fmt.Errorf("failed to stop service: %w", err)
		}
		cmd.Printf("✅ pxld service stopped\n")
		return nil
	},
}

// restartServiceCmd represents the service restart command
var restartServiceCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the pxld service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runSystemctlCommand("restart", "pxld.service"); err != nil {
			return fmt.Errorf("failed to restart service: %w", err)
		}
		cmd.Printf("✅ pxld service restarted\n")
		return nil
	},
}

// statusServiceCmd represents the service status command
var statusServiceCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pxld service status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSystemctlCommand("status", "pxld.service")
	},
}

// logsServiceCmd represents the service logs command
var logsServiceCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show pxld service logs",
	Long: `Show pxld service logs using journalctl.

Examples:
  pxld service logs
  pxld service logs -f  # Follow logs`,
	RunE: func(cmd *cobra.Command, args []string) error {
		follow, _ := cmd.Flags().GetBool("follow")
		lines, _ := cmd.Flags().GetInt("lines")

		journalArgs := []string{"-u", "pxld.service"}
		if follow {
			journalArgs = append(journalArgs, "-f")
		}
		if lines > 0 {
			journalArgs = append(journalArgs, fmt.Sprintf("-n%d", lines))
		}

		return runCommand("journalctl", journalArgs...)
	},
}

// uninstallServiceCmd represents the service uninstall command
var uninstallServiceCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the pxld service",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check if running as root
		if os.Geteuid() != 0 {
			cmd.Printf("Error: service uninstall requires root privileges\n")
			cmd.Printf("Run with: sudo pxld service uninstall\n")
			return fmt.Errorf("not running as root")
		}

		cmd.Printf("🗑️  Uninstalling pxld service...\n")

		// Stop service first
		_ = runSystemctlCommand("stop", "pxld.service") // Ignore errors if already stopped

		// Disable service
		if err := runSystemctlCommand("disable", "pxld.service"); err != nil {
			cmd.Printf("Warning: could not disable service: %v\n", err)
		}

		// Remove unit file
		unitPath := "/etc/systemd/system/pxld.service"
		if _, err := os.Stat(unitPath); err == nil {
			if err := os.Remove(unitPath); err != nil {
				return fmt.Errorf("failed to remove unit file: %w", err)
			}
		}

		// Reload systemd
		if err := runSystemctlCommand("daemon-reload"); err != nil {
			return fmt.Errorf("failed to reload systemd: %w", err)
		}

		cmd.Printf("✅ pxld service uninstalled\n")
		cmd.Printf("Note: Configuration and data files were not removed\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serviceCmd)

	// Add subcommands
	serviceCmd.AddCommand(installServiceCmd)
	serviceCmd.AddCommand(startServiceCmd)
	serviceCmd.AddCommand(stopServiceCmd)
	serviceCmd.AddCommand(restartServiceCmd)
	serviceCmd.AddCommand(statusServiceCmd)
	serviceCmd.AddCommand(logsServiceCmd)
	serviceCmd.AddCommand(uninstallServiceCmd)

	// Install command flags
	installServiceCmd.Flags().String("data-dir", "/var/lib/pxld", "Data directory for the service")
	installServiceCmd.Flags().String("config", "", "Path to config file")
	installServiceCmd.Flags().String("user", "pxld", "User to run the service as")
	installServiceCmd.Flags().Int("port", 9300, "Port for the service")
	installServiceCmd.Flags().Bool("start", true, "Start the service after installation")

	// Logs command flags
	logsServiceCmd.Flags().BoolP("follow", "f", false, "Follow log output")
	logsServiceCmd.Flags().IntP("lines", "n", 0, "Number of lines to show")
}

// systemdUnitContent renders the unit file for the given configuration.
func systemdUnitContent(cfg *config.Config, configPath, user string) string {
	return fmt.Sprintf(`[Unit]
Description=PXLD Capture Server
After=network-online.target
Wants=network-online.target

[Service]
User=%s
Group=%s
ExecStart=/usr/local/bin/pxld up --config %s
Restart=on-failure
NoNewPrivileges=true
UMask=0077
ReadWritePaths=%s
ReadWritePaths=%s

[Install]
WantedBy=multi-user.target
`, user, user, configPath, cfg.DataDir, filepath.Dir(configPath))
}

// createSystemdUnit creates the systemd unit file
func createSystemdUnit(cfg *config.Config, configPath, user string) error {
	unitPath := "/etc/systemd/system/pxld.service"
	return os.WriteFile(unitPath, []byte(systemdUnitContent(cfg, configPath, user)), 0600)
}

// runSystemctlCommand runs a systemctl command
func runSystemctlCommand(args ...string) error {
	return runCommand("systemctl", args...)
}

// runCommand runs a system command and returns its error
func runCommand(command string, args ...string) error {
	cmd := exec.Command(command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
