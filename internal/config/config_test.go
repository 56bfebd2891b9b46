package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadKeepsDefaultsForAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yardplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pricing:\n  areaRate: 50\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50.0, cfg.Pricing.AreaRate)
	assert.Equal(t, 45.0, cfg.Pricing.LengthRate)
	assert.Equal(t, 30, cfg.Editor.HistoryCap)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "yardplan.yaml")
	cfg := Default()
	cfg.Listen = "127.0.0.1:9000"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pricing: ["), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("conf", "catalog.yaml"), Resolve("conf/yardplan.yaml", "catalog.yaml"))
	assert.Equal(t, "/abs/catalog.yaml", Resolve("conf/yardplan.yaml", "/abs/catalog.yaml"))
}
