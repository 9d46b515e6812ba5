// Package config loads cbamcalc settings: built-in defaults, overlaid by the
// YAML config file, a .env file, CBAM_* environment variables and finally
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/tables"
)

// Output format identifiers.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatXML   = "xml"
)

const (
	homeDirName    = ".cbamcalc"
	configFileName = "config.yaml"
	outputTypeFile = "file"
)

// Config is the effective configuration of one invocation.
type Config struct {
	Tables  TablesConfig  `yaml:"tables"`
	Columns ColumnsConfig `yaml:"columns"`
	Scheme  SchemeConfig  `yaml:"scheme"`
	Market  MarketConfig  `yaml:"market"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// TablesConfig locates the reference tables.
type TablesConfig struct {
	Benchmarks string `yaml:"benchmarks"`
	Defaults   string `yaml:"defaults"`
	// Sheet selects the worksheet of XLSX sources; empty means the first.
	Sheet string `yaml:"sheet,omitempty"`
}

// ColumnsConfig maps logical fields to table headers.
type ColumnsConfig struct {
	Benchmarks tables.BenchmarkLayout `yaml:"benchmarks"`
	Defaults   tables.DefaultsLayout  `yaml:"defaults"`
}

// SchemeConfig holds regulatory parameters.
type SchemeConfig struct {
	// FreeAllowance maps a reference year to the exempt fraction of the benchmark.
	FreeAllowance map[int]float64 `yaml:"free_allowance"`
}

// MarketConfig holds the certificate price used when none is given.
type MarketConfig struct {
	CarbonPrice float64 `yaml:"carbon_price"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Locale        string `yaml:"locale"`
	Precision     int    `yaml:"precision"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// Mode is the gin mode: debug, release or test. Empty means release.
	Mode string `yaml:"mode"`
}

// LoggingConfig configures zerolog.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// New returns the built-in defaults.
func New() *Config {
	layouts := tables.DefaultLayouts()
	schedule := make(map[int]float64)
	for _, s := range engine.DefaultAllowanceSchedule().Steps() {
		schedule[s.Year] = s.Fraction
	}

	return &Config{
		Tables: TablesConfig{
			Benchmarks: filepath.Join(HomeDir(), "tables", "benchmarks.csv"),
			Defaults:   filepath.Join(HomeDir(), "tables", "defaults.csv"),
		},
		Columns: ColumnsConfig{
			Benchmarks: layouts.Benchmarks,
			Defaults:   layouts.Defaults,
		},
		Scheme: SchemeConfig{FreeAllowance: schedule},
		Market: MarketConfig{CarbonPrice: 0},
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Locale:        "en",
			Precision:     2,
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// HomeDir returns $CBAM_HOME, or ~/.cbamcalc when unset.
func HomeDir() string {
	if dir := os.Getenv("CBAM_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	return filepath.Join(home, homeDirName)
}

// DefaultPath returns the config file location inside HomeDir.
func DefaultPath() string {
	return filepath.Join(HomeDir(), configFileName)
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (DefaultPath when empty; a missing file is not an error), then the
// CBAM_* environment. The result is validated.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := New()
	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := c.YAML()
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// YAML returns the configuration serialized as YAML.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}

// Validate reports every invalid setting in one error wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if c.Market.CarbonPrice < 0 {
		problems = append(problems, fmt.Sprintf("market.carbon_price %v is negative", c.Market.CarbonPrice))
	}
	if _, err := c.Schedule(); err != nil {
		problems = append(problems, "scheme.free_allowance: "+err.Error())
	}
	if len(c.Columns.Defaults.Vintages) == 0 {
		problems = append(problems, "columns.defaults.vintages is empty")
	}
	required := []struct {
		name string
		spec tables.ColumnSpec
	}{
		{"columns.benchmarks.code", c.Columns.Benchmarks.Code},
		{"columns.benchmarks.default_value", c.Columns.Benchmarks.DefaultValue},
		{"columns.defaults.country", c.Columns.Defaults.Country},
		{"columns.defaults.code", c.Columns.Defaults.Code},
	}
	for _, r := range required {
		if len(r.spec.Contains) == 0 {
			problems = append(problems, r.name+" has no header pattern")
		}
	}
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatXML:
	default:
		problems = append(problems, fmt.Sprintf("output.default_format %q is not table, json or xml", c.Output.DefaultFormat))
	}
	if c.Output.Precision < 0 {
		problems = append(problems, "output.precision is negative")
	}
	switch c.Server.Mode {
	case "", "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("server.mode %q is not debug, release or test", c.Server.Mode))
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

// ErrInvalidConfig marks a configuration that failed Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Schedule builds the free-allowance schedule.
func (c *Config) Schedule() (engine.AllowanceSchedule, error) {
	return engine.NewAllowanceSchedule(c.Scheme.FreeAllowance)
}

// Sources returns the table locations.
func (c *Config) Sources() tables.Sources {
	return tables.Sources{
		BenchmarksPath: c.Tables.Benchmarks,
		DefaultsPath:   c.Tables.Defaults,
		Sheet:          c.Tables.Sheet,
	}
}

// Layouts returns the column mappings.
func (c *Config) Layouts() tables.Layouts {
	return tables.Layouts{Benchmarks: c.Columns.Benchmarks, Defaults: c.Columns.Defaults}
}
