package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rshade/cbamcalc/internal/logging"
	"github.com/rshade/cbamcalc/internal/tables"
)

// Calculator computes quotes over one set of reference tables.
type Calculator struct {
	*Resolver
	schedule AllowanceSchedule
	now      func() time.Time
	newID    func() string
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithSchedule replaces the default free-allowance schedule.
func WithSchedule(s AllowanceSchedule) Option {
	return func(c *Calculator) { c.schedule = s }
}

// WithClock sets the time source used for Quote.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Calculator) { c.now = now }
}

// WithIDGenerator sets the generator used for Quote.ID.
func WithIDGenerator(gen func() string) Option {
	return func(c *Calculator) { c.newID = gen }
}

// NewCalculator returns a Calculator over t.
func NewCalculator(t *tables.Tables, opts ...Option) *Calculator {
	c := &Calculator{
		Resolver: NewResolver(t),
		schedule: DefaultAllowanceSchedule(),
		now:      time.Now,
		newID:    func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule returns the free-allowance schedule in use.
func (c *Calculator) Schedule() AllowanceSchedule {
	return c.schedule
}

// Validate checks a request before any lookup.
func (c *Calculator) Validate(req QuoteRequest) error {
	switch {
	case tables.NormalizeCode(req.Code) == "":
		return invalidInput("product code is required")
	case math.IsNaN(req.Volume) || req.Volume < 0:
		return invalidInput("volume %v must be zero or positive", req.Volume)
	case math.IsNaN(req.CarbonPrice) || req.CarbonPrice < 0:
		return invalidInput("carbon price %v must be zero or positive", req.CarbonPrice)
	case math.IsNaN(req.PaidAbroad) || req.PaidAbroad < 0:
		return invalidInput("carbon price paid abroad %v must be zero or positive", req.PaidAbroad)
	case math.IsNaN(req.RealEmissions):
		return invalidInput("real emissions is not a number")
	}
	if _, err := c.schedule.FractionFor(req.Year); err != nil {
		return errors.Join(ErrInvalidInput,
			fmt.Errorf("year %d: the first reference year is %d: %w", req.Year, c.schedule.FirstYear(), err))
	}
	return nil
}

// Quote resolves emissions and benchmark for req and computes the
// certificate cost. Lookup misses do not fail the quote: DataNotFound is set,
// the missing value counts as zero and a warning explains what was not found.
// A *RouteRequiredError is returned when the product needs a route selection.
func (c *Calculator) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if err := c.Validate(req); err != nil {
		log.Debug().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "Quote").
			Err(err).
			Msg("quote rejected")
		return nil, err
	}
	req.Code = tables.NormalizeCode(req.Code)
	req.Country = strings.TrimSpace(req.Country)
	req.Route = strings.TrimSpace(req.Route)

	fraction, _ := c.schedule.FractionFor(req.Year)

	emissions := c.ResolveEmissions(ctx, req.Code, req.Country, req.Year, req.UseReal, req.RealEmissions)
	useReal := emissions.Provenance == ProvenanceReal

	benchmark, err := c.ResolveBenchmark(ctx, req.Code, req.Year, useReal, req.Route)
	if err != nil {
		log.Info().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "Quote").
			Str("code", req.Code).
			Strs("choices", benchmark.Choices).
			Msg("route selection required")
		return nil, err
	}

	q := &Quote{
		ID:                c.newID(),
		CreatedAt:         c.now().UTC(),
		Request:           req,
		Emissions:         emissions,
		Benchmark:         benchmark,
		AllowanceFraction: fraction,
		DataNotFound:      !emissions.Resolved || !benchmark.Resolved(),
	}
	q.Warnings = append(q.Warnings, emissions.Warnings...)
	q.Warnings = append(q.Warnings, benchmark.Warnings...)

	// Unresolved values enter the arithmetic as zero.
	in := CostInput{
		AllowanceFraction: fraction,
		CarbonPrice:       req.CarbonPrice,
		Volume:            req.Volume,
		PaidAbroad:        req.PaidAbroad,
	}
	if emissions.Resolved {
		in.Emissions = emissions.Value
	}
	if benchmark.Resolved() {
		in.Benchmark = benchmark.Value
	}
	if in.Emissions < 0 || in.Benchmark < 0 {
		q.Warnings = append(q.Warnings, "negative table value treated as zero")
		in.Emissions = math.Max(in.Emissions, 0)
		in.Benchmark = math.Max(in.Benchmark, 0)
	}

	cost, err := ComputeCost(in)
	if err != nil {
		return nil, err
	}
	q.Cost = cost

	log.Info().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "Quote").
		Str("quote_id", q.ID).
		Str("code", req.Code).
		Str("country", req.Country).
		Int("year", req.Year).
		Str("provenance", string(emissions.Provenance)).
		Bool("data_not_found", q.DataNotFound).
		Float64("total_cost", q.Cost.TotalCost).
		Dur("duration", time.Since(start)).
		Msg("quote computed")
	return q, nil
}
