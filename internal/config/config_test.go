package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Dataset.Dir)
	assert.Equal(t, "*_scored", cfg.Dataset.Pattern)
	assert.Equal(t, 3424, cfg.Dataset.EPSG)

	assert.Equal(t, "csv", cfg.Outreach.Driver)
	assert.Equal(t, "data/outreach_log.csv", cfg.Outreach.LogPath)

	assert.Equal(t, float64(12), cfg.Map.RampMultiplier)
	assert.Equal(t, uint8(60), cfg.Map.RampBlue)
	assert.Equal(t, uint8(160), cfg.Map.RampAlpha)
	assert.Equal(t, 200, cfg.Map.ZoomPointThreshold)
	assert.Equal(t, 12, cfg.Map.NearZoom)
	assert.Equal(t, 9, cfg.Map.FarZoom)

	assert.Equal(t, float64(12), cfg.Table.HighScoreThreshold)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	dir := chdirTemp(t)

	content := `
dataset:
  dir: /srv/parcels
  epsg: 26918
outreach:
  driver: sqlite
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/parcels", cfg.Dataset.Dir)
	assert.Equal(t, 26918, cfg.Dataset.EPSG)
	assert.Equal(t, "sqlite", cfg.Outreach.Driver)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Untouched keys keep their defaults.
	assert.Equal(t, "*_scored", cfg.Dataset.Pattern)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("GRIDSCOUT_SERVER_PORT", "7070")
	t.Setenv("GRIDSCOUT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("dataset: ["), 0o644))

	_, err := Load()
	require.Error(t, err)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shout", Format: "json"})
	require.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
}
