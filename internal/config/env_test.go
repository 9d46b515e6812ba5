package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cbamcalc/internal/config"
)

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		config.EnvBenchmarks:  "/b.csv",
		config.EnvDefaults:    "/d.csv",
		config.EnvCarbonPrice: "81.25",
		config.EnvLogFormat:   "json",
		config.EnvServerAddr:  ":9999",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := config.New()
	require.NoError(t, config.ApplyEnv(cfg, lookup))

	assert.Equal(t, "/b.csv", cfg.Tables.Benchmarks)
	assert.Equal(t, "/d.csv", cfg.Tables.Defaults)
	assert.InDelta(t, 81.25, cfg.Market.CarbonPrice, 1e-9)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level, "unset variable leaves value")
	assert.Equal(t, ":9999", cfg.Server.Addr)
}

func TestApplyEnv_BadPrice(t *testing.T) {
	lookup := func(k string) (string, bool) {
		if k == config.EnvCarbonPrice {
			return "eighty", true
		}
		return "", false
	}
	err := config.ApplyEnv(config.New(), lookup)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CBAM_TEST_DOTENV=from-file\nCBAM_TEST_KEEP=from-file\n"), 0o600))
	t.Setenv("CBAM_TEST_KEEP", "from-env")
	t.Setenv("CBAM_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CBAM_TEST_DOTENV"))

	require.NoError(t, config.LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CBAM_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("CBAM_TEST_KEEP"), "existing variables win")

	assert.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
