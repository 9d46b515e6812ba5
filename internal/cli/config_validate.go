package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newConfigValidateCmd creates the config validate command. Settings are
// validated while the root command loads them; this command also reads both
// reference tables to confirm their columns resolve.
func newConfigValidateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and reference tables",
		Long: `Validates the effective configuration (file, CBAM_* environment and flags)
and loads both reference tables with the configured column headers.

Exits with status 2 when the configuration or a table layout is invalid.`,
		Example: `  # Validate the current configuration
  cbamcalc config validate

  # Validate against different tables
  cbamcalc config validate --benchmarks ./annex-benchmarks.xlsx --defaults ./annex-defaults.xlsx`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, tbl, err := s.loadCalculator(cmd.Context())
			if err != nil {
				return err
			}

			stats := tbl.Stats()
			cmd.Printf("Configuration is valid\n")
			cmd.Printf("Benchmarks: %s (%d rows, %d skipped)\n",
				stats.Benchmarks.File, stats.Benchmarks.Rows, stats.Benchmarks.Skipped)
			cmd.Printf("Defaults:   %s (%d rows, %d skipped)\n",
				stats.Defaults.File, stats.Defaults.Rows, stats.Defaults.Skipped)
			cmd.Printf("Vintages:   %s\n", formatVintages(tbl.Vintages()))
			return nil
		},
	}
}

func formatVintages(vintages []int) string {
	if len(vintages) == 0 {
		return "none"
	}
	parts := make([]string, len(vintages))
	for i, v := range vintages {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
