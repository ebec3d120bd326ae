package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/config"
)

// chdir changes into dir for the duration of the test; t.Chdir needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })
}

func runTally(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInit_CreatesProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runTally(t, "init", dir, "--name", "Test Biz"))

	cfg, err := config.Load(filepath.Join(dir, "tally.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "Test Biz", cfg.Business.Name)

	_, err = os.Stat(filepath.Join(dir, cfg.Storage.Path))
	require.NoError(t, err, "database file should exist")
}

func TestInit_RequiresName(t *testing.T) {
	require.Error(t, runTally(t, "init", t.TempDir()))
}

func TestEndToEndFlow(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, runTally(t, "init", ".", "--name", "Flow Biz"))

	// The seeded chart resolves codes for posting.
	require.NoError(t, runTally(t, "post",
		"--debit", "1110", "--credit", "4100", "--amount", "500",
		"--type", "sale", "--description", "first sale"))

	require.NoError(t, runTally(t, "ledger", "1110"))
	require.NoError(t, runTally(t, "trial-balance"))
	require.NoError(t, runTally(t, "summary"))
	require.NoError(t, runTally(t, "chart"))

	// Seeded accounts with postings refuse deletion.
	require.Error(t, runTally(t, "account", "rm", "1110"))
}

func TestAccountImportCommand(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, runTally(t, "init", ".", "--name", "Import Biz"))

	csvPath := filepath.Join(dir, "chart.csv")
	csv := "code,name,type,parentcode\n8000,Other Income,revenue,\n8100,Interest,revenue,8000\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(csv), 0o644))

	require.NoError(t, runTally(t, "account", "import", csvPath))

	// Imported accounts are permanent.
	require.Error(t, runTally(t, "account", "rm", "8100"))
}
