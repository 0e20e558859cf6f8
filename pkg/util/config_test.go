package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROUTEPLANNER_ROUTING_API_KEY", "secret")

	cfg, err := ReadConfig()
	require.NoError(t, err)

	assert.Equal(t, "tomtom", cfg.Routing.Provider)
	assert.Equal(t, "secret", cfg.Routing.APIKey)
	assert.Equal(t, "car", cfg.Routing.TravelMode)
	assert.Equal(t, time.Duration(0), cfg.Routing.Timeout)
	assert.Equal(t, 12.0, cfg.Map.Zoom)
	assert.Equal(t, "blue", cfg.Map.OriginColor)
	assert.Equal(t, "red", cfg.Map.DestinationColor)
	assert.Equal(t, "#ff0000", cfg.Overlay.Color)
	assert.Equal(t, 5.0, cfg.Overlay.Width)
	assert.False(t, cfg.Origin.FollowPosition)
	assert.Equal(t, 6060, cfg.API.Port)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout)
}

func TestReadConfigDotEnvCredential(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ROUTEPLANNER_ROUTING_API_KEY", "")
	t.Setenv("TOMTOM_API_KEY", "")
	t.Setenv("NEXT_PUBLIC_TOMTOM_API_KEY", "")

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NEXT_PUBLIC_TOMTOM_API_KEY=from-dotenv\n"), 0o600))

	cfg, err := ReadConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Routing.APIKey)
}

func TestReadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("ROUTEPLANNER_ROUTING_API_KEY", "")
	t.Setenv("GOOGLE_MAPS_API_KEY", "gkey")

	yaml := "routing:\n  provider: google\n  travel_mode: bicycling\norigin:\n  follow_position: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := ReadConfig()
	require.NoError(t, err)
	assert.Equal(t, "google", cfg.Routing.Provider)
	assert.Equal(t, "gkey", cfg.Routing.APIKey)
	assert.Equal(t, "bicycling", cfg.Routing.TravelMode)
	assert.True(t, cfg.Origin.FollowPosition)
}

func TestReadConfigMissingCredential(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROUTEPLANNER_ROUTING_API_KEY", "")
	t.Setenv("TOMTOM_API_KEY", "")
	t.Setenv("NEXT_PUBLIC_TOMTOM_API_KEY", "")

	_, err := ReadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")
}

func TestConfigValidate(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ROUTEPLANNER_ROUTING_API_KEY", "secret")

	cfg, err := ReadConfig()
	require.NoError(t, err)

	cfg.Routing.Provider = "osrm"
	cfg.API.Port = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Provider")
	assert.Contains(t, err.Error(), "Port")
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
