package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	assert.Equal(t, Defaults(), Load(path))
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0o644))
	assert.Equal(t, Defaults(), Load(path))
}

func TestLoadNegativeFreshnessFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	require.NoError(t, os.WriteFile(path, []byte("freshness: -5\n"), 0o644))
	assert.Equal(t, Defaults().Freshness, Load(path).Freshness)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lodestar", "global.yaml")
	want := Settings{
		HelpWithTesting: true,
		NetworkUse:      "minimal",
		Freshness:       3600,
	}
	require.NoError(t, Save(path, want))
	assert.Equal(t, want, Load(path))
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "global.yaml")
	require.NoError(t, Save(path, Defaults()))
	require.NoError(t, Save(path, Settings{NetworkUse: "off-line", Freshness: 60}))

	got := Load(path)
	assert.Equal(t, "off-line", got.NetworkUse)
	assert.Equal(t, 60, got.Freshness)

	// No temp files are left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "global.yaml", entries[0].Name())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global.yaml")
	require.NoError(t, Save(path, Settings{NetworkUse: "full", Freshness: 3600}))

	t.Setenv("LODESTAR_NETWORK_USE", "off-line")
	assert.Equal(t, "off-line", Load(path).NetworkUse)
}
