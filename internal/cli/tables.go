package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cbamcalc/internal/config"
	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/tables"
)

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

func newTablesCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Inspect the loaded reference tables",
		Long: `Loads the benchmark and default-value tables with the configured column
headers and reports what they contain.`,
	}
	cmd.AddCommand(
		newTablesCountriesCmd(s),
		newTablesRoutesCmd(s),
		newTablesStatsCmd(s),
	)
	return cmd
}

func newTablesCountriesCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries of origin in the default-value table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, tbl, err := s.loadCalculator(cmd.Context())
			if err != nil {
				return err
			}
			countries := tbl.Countries()
			if output == config.FormatJSON {
				return renderJSON(cmd.OutOrStdout(), countries)
			}
			if len(countries) == 0 {
				cmd.Println("No countries found in the default-value table.")
				return nil
			}
			for _, c := range countries {
				marker := ""
				if tbl.IsRestOfWorld(c) {
					marker = "  (rest of world)"
				}
				cmd.Printf("%s%s\n", c, marker)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", config.FormatTable, "output format: table or json")
	return cmd
}

func newTablesRoutesCmd(s *session) *cobra.Command {
	var (
		code    string
		year    int
		useReal bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the benchmark rows applicable to a product",
		Long: `Lists the benchmark rows of a CN code that apply in the period of the given
year. When more than one row is listed, quotes need --route.`,
		Example: `  cbamcalc tables routes --code 72071111 --year 2026
  cbamcalc tables routes --code 7208 --year 2030 --real`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calc, _, err := s.loadCalculator(cmd.Context())
			if err != nil {
				return err
			}
			routes := calc.Routes(code, year, useReal)
			if output == config.FormatJSON {
				return renderJSON(cmd.OutOrStdout(), routes)
			}
			return renderRoutes(cmd.OutOrStdout(), code, year, useReal, routes)
		},
	}

	f := cmd.Flags()
	f.StringVar(&code, "code", "", "CN product code (required)")
	f.IntVar(&year, "year", time.Now().Year(), "reference year")
	f.BoolVar(&useReal, "real", false, "read the column used with verified emissions (A)")
	f.StringVar(&output, "output", config.FormatTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("code")
	return cmd
}

func renderRoutes(w io.Writer, code string, year int, useReal bool, routes []engine.RouteOption) error {
	column := engine.ColumnDefault
	if useReal {
		column = engine.ColumnReal
	}
	period := tables.PeriodForYear(year)

	if len(routes) == 0 {
		_, err := fmt.Fprintf(w, "No benchmark for CN %s in period %s (column %s).\n", code, period, column)
		return err
	}

	fmt.Fprintf(w, "CN %s, period %s, column %s\n\n", code, period, column)
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tINDICATOR\tBENCHMARK (tCO2e/t)")
	for _, r := range routes {
		choice := r.Choice
		if choice == "" {
			choice = "-"
		}
		indicator := r.Indicator
		if indicator == "" {
			indicator = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3f\n", choice, indicator, r.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(routes) > 1 {
		_, err := fmt.Fprintln(w, "\nSeveral routes apply; pass --route to quote this product.")
		return err
	}
	return nil
}

func newTablesStatsCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the loaded tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, tbl, err := s.loadCalculator(cmd.Context())
			if err != nil {
				return err
			}
			stats := tbl.Stats()
			if output == config.FormatJSON {
				return renderJSON(cmd.OutOrStdout(), stats)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tFILE\tROWS\tSKIPPED")
			fmt.Fprintf(tw, "benchmarks\t%s\t%d\t%d\n",
				stats.Benchmarks.File, stats.Benchmarks.Rows, stats.Benchmarks.Skipped)
			fmt.Fprintf(tw, "defaults\t%s\t%d\t%d\n",
				stats.Defaults.File, stats.Defaults.Rows, stats.Defaults.Skipped)
			if err = tw.Flush(); err != nil {
				return err
			}
			cmd.Printf("\nCodes: %d  Countries: %d  Vintages: %s  Loaded in %s\n",
				len(tbl.Codes()), len(tbl.Countries()), formatVintages(tbl.Vintages()),
				stats.Duration.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", config.FormatTable, "output format: table or json")
	return cmd
}
