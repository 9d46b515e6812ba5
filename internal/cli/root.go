package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/cbamcalc/internal/config"
	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/logging"
	"github.com/rshade/cbamcalc/internal/tables"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// isWriterTerminal reports whether w is a terminal. Writers other than
// *os.File, such as buffers in tests, are never terminals.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// isReaderTerminal reports whether r is an interactive terminal.
func isReaderTerminal(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationSkipConfig marks commands that run on built-in defaults without
// reading the config file.
const annotationSkipConfig = "cbamcalc/skip-config"

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	debug      bool
	configPath string
	benchmarks string
	defaults   string
	dotenv     string
}

// session carries state prepared by the root PersistentPreRunE.
type session struct {
	flags     rootFlags
	cfg       *config.Config
	logResult *logging.LogPathResult
}

// NewRootCmd creates the root Cobra command for the cbamcalc CLI.
// It loads configuration, wires logging and tracing, and registers the
// quote, tables, serve and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	s := &session{}

	cmd := &cobra.Command{
		Use:           "cbamcalc",
		Short:         "CBAM certificate cost calculator",
		Long:          "cbamcalc: estimate the CBAM certificates due on imported goods from the official benchmark and default-value tables",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.prepare(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return s.logResult.Close()
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&s.flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&s.flags.configPath, "config", "", "config file (default $CBAM_HOME/config.yaml)")
	pf.StringVar(&s.flags.benchmarks, "benchmarks", "", "benchmark table (CSV or XLSX), overrides config")
	pf.StringVar(&s.flags.defaults, "defaults", "", "default-values table (CSV or XLSX), overrides config")
	pf.StringVar(&s.flags.dotenv, "env-file", ".env", "dotenv file loaded before configuration")

	cmd.AddCommand(
		newQuoteCmd(s),
		newTablesCmd(s),
		newServeCmd(s),
		newConfigCmd(s),
	)

	return cmd
}

const rootCmdExample = `  # Quote 150 t of sponge iron from China at 81 EUR per certificate
  cbamcalc quote --code 7203 --country China --year 2026 --volume 150 --price 81

  # Use verified installation emissions in kgCO2e per tonne
  cbamcalc quote --code 7203 --year 2026 --volume 150 --price 81 \
    --real-emissions 2100 --emissions-unit kgCO2e/t

  # List production routes that need a selection
  cbamcalc tables routes --code 72071111 --year 2026

  # Serve the HTTP API
  cbamcalc serve --addr :8080

  # Write the default configuration file
  cbamcalc config init`

// prepare loads .env and configuration, applies flag overrides and sets up
// logging on the command context.
func (s *session) prepare(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(s.flags.dotenv); err != nil {
		cmd.PrintErrf("Warning: %v\n", err)
	}

	var cfg *config.Config
	if cmd.Annotations[annotationSkipConfig] != "" {
		cfg = config.New()
	} else {
		loaded, err := config.Load(s.flags.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if s.flags.benchmarks != "" {
		cfg.Tables.Benchmarks = s.flags.benchmarks
	}
	if s.flags.defaults != "" {
		cfg.Tables.Defaults = s.flags.defaults
	}
	s.cfg = cfg

	result := setupLogging(cmd, cfg, s.flags.debug)
	s.logResult = &result
	return nil
}

// loadCalculator reads the reference tables and builds a Calculator with
// the configured free-allowance schedule.
func (s *session) loadCalculator(ctx context.Context) (*engine.Calculator, *tables.Tables, error) {
	schedule, err := s.cfg.Schedule()
	if err != nil {
		return nil, nil, err
	}
	tbl, err := tables.Load(ctx, s.cfg.Sources(), s.cfg.Layouts())
	if err != nil {
		return nil, nil, err
	}
	return engine.NewCalculator(tbl, engine.WithSchedule(schedule)), tbl, nil
}

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		newConfigInitCmd(s),
		newConfigShowCmd(s),
		newConfigValidateCmd(s),
	)
	return cmd
}
