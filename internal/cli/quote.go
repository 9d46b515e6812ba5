package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/greenops"
)

// quoteFlags holds the flag values of the quote command.
type quoteFlags struct {
	code          string
	country       string
	year          int
	volume        float64
	price         float64
	realEmissions float64
	emissionsUnit string
	route         string
	paidAbroad    float64
	output        string
	locale        string
}

func newQuoteCmd(s *session) *cobra.Command {
	var flags quoteFlags

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute the CBAM certificate cost of a shipment",
		Long: `Resolves the embedded emissions and the benchmark for a product, applies the
free allowance of the reference year and prices the certificates due.

Emissions come from --real-emissions when given, otherwise from the country
default table, falling back to shorter CN headings and then to the
rest-of-world row. When several production routes apply, --route selects one;
on a terminal you are asked instead.`,
		Example: `  cbamcalc quote --code 7203 --country China --year 2026 --volume 150 --price 81
  cbamcalc quote --code 72071111 --country India --year 2026 --volume 20 --price 81 --route C
  cbamcalc quote --code 7203 --year 2028 --volume 10 --real-emissions 2.1 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuote(cmd, s, &flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.code, "code", "", "CN product code (required)")
	f.StringVar(&flags.country, "country", "", "country of origin; empty uses the rest-of-world default")
	f.IntVar(&flags.year, "year", time.Now().Year(), "reference year")
	f.Float64Var(&flags.volume, "volume", 0, "imported quantity in tonnes (required)")
	f.Float64Var(&flags.price, "price", 0, "certificate price in EUR per tCO2e (default market.carbon_price)")
	f.Float64Var(&flags.realEmissions, "real-emissions", 0, "verified installation emissions; zero or absent uses default values")
	f.StringVar(&flags.emissionsUnit, "emissions-unit", greenops.DefaultIntensityUnit, "unit of --real-emissions: tCO2e/t or kgCO2e/t")
	f.StringVar(&flags.route, "route", "", "production route (C, D, E, F, G, H, J) or indicator label")
	f.Float64Var(&flags.paidAbroad, "paid-abroad", 0, "carbon price already paid in the country of origin, EUR")
	f.StringVar(&flags.output, "output", "", "output format: table, json or xml (default output.default_format)")
	f.StringVar(&flags.locale, "locale", "", "number formatting locale, e.g. en or it (default output.locale)")

	_ = cmd.MarkFlagRequired("code")
	_ = cmd.MarkFlagRequired("volume")

	return cmd
}

func runQuote(cmd *cobra.Command, s *session, flags *quoteFlags) error {
	ctx := cmd.Context()
	cfg := s.cfg

	req := engine.QuoteRequest{
		Code:        flags.code,
		Country:     flags.country,
		Year:        flags.year,
		Volume:      flags.volume,
		CarbonPrice: cfg.Market.CarbonPrice,
		Route:       flags.route,
		PaidAbroad:  flags.paidAbroad,
	}
	if cmd.Flags().Changed("price") {
		req.CarbonPrice = flags.price
	} else if cfg.Market.CarbonPrice == 0 {
		return errors.New("--price is required when market.carbon_price is not configured")
	}
	if cmd.Flags().Changed("real-emissions") {
		if !greenops.IsRecognizedIntensityUnit(flags.emissionsUnit) {
			return fmt.Errorf("--real-emissions %v %s: %w", flags.realEmissions, flags.emissionsUnit, greenops.ErrInvalidUnit)
		}
		req.UseReal = true
		// Zero or less means not provided; the engine falls back to defaults.
		if flags.realEmissions > 0 {
			v, err := greenops.NormalizeIntensity(flags.realEmissions, flags.emissionsUnit)
			if err != nil {
				return fmt.Errorf("--real-emissions %v %s: %w", flags.realEmissions, flags.emissionsUnit, err)
			}
			req.RealEmissions = v
		}
	}

	format := flags.output
	if format == "" {
		format = cfg.Output.DefaultFormat
	}
	locale := flags.locale
	if locale == "" {
		locale = cfg.Output.Locale
	}
	formatter, err := greenops.NewFormatter(locale)
	if err != nil {
		return err
	}

	calc, _, err := s.loadCalculator(ctx)
	if err != nil {
		return err
	}

	q, err := calc.Quote(ctx, req)
	var routeErr *engine.RouteRequiredError
	if errors.As(err, &routeErr) && req.Route == "" && isReaderTerminal(cmd.InOrStdin()) {
		choice := SelectRoute(cmd.ErrOrStderr(), cmd.InOrStdin(), routeErr.Code, routeErr.Choices)
		if !choice.Accepted {
			return err
		}
		req.Route = choice.Choice
		q, err = calc.Quote(ctx, req)
	}
	if err != nil {
		return err
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "quote").
		Str("quote_id", q.ID).
		Str("format", format).
		Msg("rendering quote")

	return renderQuote(cmd.OutOrStdout(), q, renderOptions{
		format:    format,
		formatter: formatter,
		precision: cfg.Output.Precision,
	})
}
