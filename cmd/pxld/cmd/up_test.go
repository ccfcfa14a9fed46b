package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/luxgrid/pxld/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpCommandConfigFlow(t *testing.T) {
	// Create temporary directory for test
	tmpDir, err := os.MkdirTemp("", "pxld_up_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	dataDir := filepath.Join(tmpDir, "data")
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Run("bootstrap and config creation", func(t *testing.T) {
		cfg, err := config.BootstrapConfig(configPath, dataDir)
		require.NoError(t, err)

		// Verify config was created
		assert.True(t, config.ConfigExists(configPath))

		// Verify config content
		loadedConfig, err := config.LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, dataDir, loadedConfig.DataDir)
		assert.Equal(t, cfg.APIKey, loadedConfig.APIKey)
		assert.NotEqual(t, "auto", loadedConfig.APIKey)
	})

	t.Run("load existing config", func(t *testing.T) {
		existingConfig := &config.Config{
			DataDir: dataDir,
			Port:    9000,
			Bind:    "0.0.0.0",
			APIKey:  "existing-api-key",
			RigPath: filepath.Join(tmpDir, "rig.yaml"),
			Logging: config.Logging{
				Level: "debug",
			},
		}

		err := config.SaveConfig(existingConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := config.LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, existingConfig, loadedConfig)
	})
}

func TestApplyFlagOverrides(t *testing.T) {
	t.Run("explicit flags override", func(t *testing.T) {
		cfg := &config.Config{
			DataDir: "./data",
			Port:    9300,
			Bind:    "127.0.0.1",
		}

		applyFlagOverrides(cfg, "/flag/data/dir", 9000, "0.0.0.0")

		assert.Equal(t, "/flag/data/dir", cfg.DataDir)
		assert.Equal(t, 9000, cfg.Port)
		assert.Equal(t, "0.0.0.0", cfg.Bind)
	})

	t.Run("defaults leave config untouched", func(t *testing.T) {
		cfg := &config.Config{
			DataDir: "/config/data",
			Port:    8500,
			Bind:    "10.0.0.5",
		}

		applyFlagOverrides(cfg, "", 9300, "127.0.0.1")

		assert.Equal(t, "/config/data", cfg.DataDir)
		assert.Equal(t, 8500, cfg.Port)
		assert.Equal(t, "10.0.0.5", cfg.Bind)
	})
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("auto generates a fresh key", func(t *testing.T) {
		cfg := config.DefaultConfig()
		require.Equal(t, "auto", cfg.APIKey)

		key, generated, err := resolveAPIKey(cfg)
		require.NoError(t, err)
		assert.True(t, generated)
		assert.Len(t, key, 64)

		again, _, err := resolveAPIKey(cfg)
		require.NoError(t, err)
		assert.NotEqual(t, key, again)
	})

	t.Run("explicit key passes through", func(t *testing.T) {
		cfg := &config.Config{APIKey: "mysecretkey"}

		key, generated, err := resolveAPIKey(cfg)
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, "mysecretkey", key)
	})

	t.Run("empty key disables auth", func(t *testing.T) {
		cfg := &config.Config{APIKey: ""}

		key, generated, err := resolveAPIKey(cfg)
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Empty(t, key)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	path := config.GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "pxld")
	assert.Contains(t, path, "config.yaml")
}

func TestUpCommandErrorHandling(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "pxld_error_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	t.Run("invalid config file", func(t *testing.T) {
		invalidConfigPath := filepath.Join(tmpDir, "invalid.yaml")
		err := os.WriteFile(invalidConfigPath, []byte("invalid: yaml: content: ["), 0600)
		require.NoError(t, err)

		_, err = config.LoadConfig(invalidConfigPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})

	t.Run("config bootstrap failure", func(t *testing.T) {
		invalidPath := "/invalid/path/config.yaml"
		_, err := config.BootstrapConfig(invalidPath, "/some/data")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create config directory")
	})

	t.Run("config save failure", func(t *testing.T) {
		cfg := config.DefaultConfig()
		invalidPath := "/invalid/path/config.yaml"
		err := config.SaveConfig(cfg, invalidPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create config directory")
	})
}
