package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tally.yaml")

	cfg := Default("Test Biz")
	cfg.Storage.Path = "ledger.db"
	cfg.Events.Brokers = []string{"localhost:9092"}
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("Acme")
	assert.Equal(t, "Acme", cfg.Business.Name)
	assert.Equal(t, "tally.db", cfg.Storage.Path)
	assert.Equal(t, "0.01", cfg.Ledger.TrialBalanceTolerance)
	assert.Empty(t, cfg.Events.Brokers)
}
