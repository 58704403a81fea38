package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gridscout/internal/config"
	"github.com/sells-group/gridscout/internal/outreach"
)

func TestNewOutreachStore(t *testing.T) {
	dir := t.TempDir()

	csvStore, err := newOutreachStore(&config.Config{
		Outreach: config.OutreachConfig{Driver: "csv", LogPath: filepath.Join(dir, "log.csv")},
	})
	require.NoError(t, err)
	_, ok := csvStore.(*outreach.CSVStore)
	assert.True(t, ok)

	dbStore, err := newOutreachStore(&config.Config{
		Outreach: config.OutreachConfig{Driver: "sqlite", DBPath: filepath.Join(dir, "log.db")},
	})
	require.NoError(t, err)
	_, ok = dbStore.(*outreach.SQLiteStore)
	assert.True(t, ok)
	require.NoError(t, dbStore.Close())

	_, err = newOutreachStore(&config.Config{
		Outreach: config.OutreachConfig{Driver: "postgres"},
	})
	require.Error(t, err)
}

func TestResolveDataset(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"sussex_scored.gpkg", "warren_scored.gpkg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	cfg := &config.Config{Dataset: config.DatasetConfig{Dir: dir, Pattern: "*_scored"}}

	entry, err := resolveDataset(cfg, "Warren")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "warren_scored.gpkg"), entry.Path)

	_, err = resolveDataset(cfg, "")
	require.Error(t, err)

	_, err = resolveDataset(cfg, "Bergen")
	require.Error(t, err)
}

func TestResolveDataset_SoleEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sussex_scored.gpkg"), []byte("x"), 0o644))
	cfg := &config.Config{Dataset: config.DatasetConfig{Dir: dir, Pattern: "*_scored"}}

	entry, err := resolveDataset(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, "Sussex", entry.Name)
}

func TestResolveDataset_EmptyDir(t *testing.T) {
	cfg := &config.Config{Dataset: config.DatasetConfig{Dir: t.TempDir(), Pattern: "*_scored"}}
	_, err := resolveDataset(cfg, "")
	require.Error(t, err)
}
