package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cbamcalc/internal/cli"
	"github.com/rshade/cbamcalc/internal/config"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cbam.yaml")

	out, _, err := executeCmd(t, "--config", path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration initialized successfully")
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "free_allowance:")
	assert.Contains(t, string(data), "carbon_price:")
}

func TestConfigInit_DefaultLocation(t *testing.T) {
	_, _, err := executeCmd(t, "config", "init")
	require.NoError(t, err)

	// CBAM_HOME set by executeCmd is still in effect here.
	_, statErr := os.Stat(config.DefaultPath())
	assert.NoError(t, statErr)
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market:\n  carbon_price: 70\n"), 0o600))

	_, _, err := executeCmd(t, "--config", path, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = executeCmd(t, "--config", path, "config", "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "carbon_price: 70")
}

func TestConfigShow_AppliesFileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: table\n  locale: it\n  precision: 2\n"), 0o600))
	t.Setenv("CBAM_CARBON_PRICE", "79.5")

	out, _, err := executeCmd(t, "--config", path, "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "locale: it")
	assert.Contains(t, out, "carbon_price: 79.5")
	assert.Contains(t, out, filepath.Join("testdata", "benchmarks.csv"))
}

func TestConfigShow_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market:\n  carbon_price: -3\n"), 0o600))

	_, _, err := executeCmd(t, "--config", path, "config", "show")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestConfigValidate(t *testing.T) {
	out, _, err := executeCmd(t, "config", "validate")
	require.NoError(t, err)

	assert.Contains(t, out, "Configuration is valid")
	assert.Contains(t, out, "Benchmarks: testdata")
	assert.Contains(t, out, "Vintages:   2026, 2027, 2028")
}

func TestConfigValidate_BadColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cbam.yaml")
	cfg := config.New()
	cfg.Columns.Benchmarks.Code.Contains = []string{"tariff heading"}
	require.NoError(t, cfg.Save(path))

	_, _, err := executeCmd(t, "--config", path, "config", "validate")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}
