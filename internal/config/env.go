package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override config file values.
const (
	EnvBenchmarks  = "CBAM_BENCHMARKS"
	EnvDefaults    = "CBAM_DEFAULTS"
	EnvCarbonPrice = "CBAM_CARBON_PRICE"
	EnvLogLevel    = "CBAM_LOG_LEVEL"
	EnvLogFormat   = "CBAM_LOG_FORMAT"
	EnvServerAddr  = "CBAM_SERVER_ADDR"
)

// LoadDotEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set. A missing file is
// ignored.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays CBAM_* variables read through lookup onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBenchmarks); ok && v != "" {
		cfg.Tables.Benchmarks = v
	}
	if v, ok := lookup(EnvDefaults); ok && v != "" {
		cfg.Tables.Defaults = v
	}
	if v, ok := lookup(EnvCarbonPrice); ok && v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvCarbonPrice, v)
		}
		cfg.Market.CarbonPrice = price
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.Logging.Format = v
	}
	if v, ok := lookup(EnvServerAddr); ok && v != "" {
		cfg.Server.Addr = v
	}
	return nil
}
