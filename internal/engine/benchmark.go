package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/cbamcalc/internal/logging"
	"github.com/rshade/cbamcalc/internal/tables"
)

type benchmarkCandidate struct {
	row    tables.BenchmarkRow
	column tables.BenchmarkColumn
}

func (c benchmarkCandidate) choice() string {
	return c.column.Indicator.Choice()
}

// ResolveBenchmark determines the benchmark for a product in the period that
// contains year. Column A is used with real emissions, column B otherwise.
//
// When several rows apply and route is empty, the result has status
// BenchmarkRouteRequired and a *RouteRequiredError lists the choices; the
// first row is never picked silently. A route that matches none of the
// applicable rows yields the same error type wrapping ErrUnknownRoute.
func (r *Resolver) ResolveBenchmark(
	ctx context.Context,
	code string,
	year int,
	useReal bool,
	route string,
) (BenchmarkResult, error) {
	log := logging.FromContext(ctx)
	code = tables.NormalizeCode(code)
	period := tables.PeriodForYear(year)

	res := BenchmarkResult{
		Column: ColumnDefault,
		Period: period.String(),
	}
	if useReal {
		res.Column = ColumnReal
	}

	rows := r.tables.Benchmarks(code)
	candidates, missing := applicableBenchmarks(rows, period, useReal)

	switch len(candidates) {
	case 0:
		res.Status = BenchmarkUnresolved
		switch {
		case len(rows) == 0:
			res.Warnings = append(res.Warnings, fmt.Sprintf("data not found: no benchmark for %s", code))
		case missing > 0:
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("data not found: benchmark column %s for %s is empty in period %s", res.Column, code, res.Period))
		default:
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("data not found: no benchmark for %s in period %s", code, res.Period))
		}
		log.Warn().Ctx(ctx).
			Str("component", "engine").
			Str("operation", "ResolveBenchmark").
			Str("code", code).
			Int("year", year).
			Str("column", res.Column).
			Msg("benchmark not resolved")
		return res, nil
	case 1:
		if route != "" && !candidates[0].column.Indicator.Matches(route) {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("route %q ignored: %s has a single benchmark in period %s", route, code, res.Period))
		}
		return resolvedBenchmark(res, candidates[0]), nil
	}

	res.Choices = choicesOf(candidates)
	if route == "" {
		res.Status = BenchmarkRouteRequired
		return res, &RouteRequiredError{Code: code, Year: year, Choices: res.Choices}
	}

	matched := matchRoute(candidates, route)
	switch {
	case len(matched) == 0:
		res.Status = BenchmarkRouteRequired
		return res, &RouteRequiredError{Code: code, Year: year, Selection: route, Choices: res.Choices}
	case len(matched) > 1 && !sameValue(matched):
		res.Status = BenchmarkRouteRequired
		res.Choices = rawLabels(matched)
		return res, &RouteRequiredError{
			Code: code, Year: year, Selection: route, Ambiguous: true, Choices: res.Choices,
		}
	}

	res = resolvedBenchmark(res, matched[0])
	res.Choices = choicesOf(candidates)
	log.Debug().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "ResolveBenchmark").
		Str("code", code).
		Str("route", res.Route).
		Float64("value", res.Value).
		Msg("benchmark resolved by route")
	return res, nil
}

// applicableBenchmarks filters rows to the period and column in use. Rows
// whose value is missing are counted but dropped; rows repeating the same
// choice and value collapse into one.
func applicableBenchmarks(
	rows []tables.BenchmarkRow,
	period tables.Period,
	useReal bool,
) ([]benchmarkCandidate, int) {
	type key struct {
		choice string
		value  float64
	}
	seen := make(map[key]bool)

	var out []benchmarkCandidate
	missing := 0
	for _, row := range rows {
		col := row.Column(useReal)
		if !col.Indicator.AppliesTo(period) {
			continue
		}
		if !col.Value.Valid {
			missing++
			continue
		}
		c := benchmarkCandidate{row: row, column: col}
		k := key{choice: c.choice(), value: col.Value.Value}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out, missing
}

func resolvedBenchmark(res BenchmarkResult, c benchmarkCandidate) BenchmarkResult {
	res.Status = BenchmarkResolved
	res.Value = c.column.Value.Value
	res.Indicator = c.column.Indicator.Raw
	res.Description = c.row.Description
	if c.column.Indicator.Route != tables.RouteNone {
		res.Route = string(c.column.Indicator.Route)
	}
	return res
}

// matchRoute returns the candidates selected by route. An exact indicator
// label wins over a route letter, so "(C)" picks the "(C)" row even when a
// "(1)(C)" row shares its route.
func matchRoute(candidates []benchmarkCandidate, route string) []benchmarkCandidate {
	var exact, loose []benchmarkCandidate
	for _, c := range candidates {
		switch {
		case c.column.Indicator.MatchesLabel(route):
			exact = append(exact, c)
		case c.column.Indicator.Matches(route):
			loose = append(loose, c)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return loose
}

// choicesOf lists the selectable choices of candidates. When two candidates
// share a choice, their exact labels are listed instead so that each row
// stays reachable.
func choicesOf(candidates []benchmarkCandidate) []string {
	byLabel := choicesCollide(candidates)
	seen := make(map[string]bool)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ch := c.choice()
		if byLabel {
			ch = c.column.Indicator.Raw
		}
		if seen[strings.ToUpper(ch)] {
			continue
		}
		seen[strings.ToUpper(ch)] = true
		out = append(out, ch)
	}
	return out
}

func choicesCollide(candidates []benchmarkCandidate) bool {
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c.choice()] {
			return true
		}
		seen[c.choice()] = true
	}
	return false
}

func rawLabels(candidates []benchmarkCandidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.column.Indicator.Raw)
	}
	return out
}

func sameValue(candidates []benchmarkCandidate) bool {
	for _, c := range candidates[1:] {
		if c.column.Value.Value != candidates[0].column.Value.Value {
			return false
		}
	}
	return true
}

// RouteOption is one selectable benchmark row for a product and period.
type RouteOption struct {
	Choice    string  `json:"choice"`
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
}

// Routes lists the benchmark rows applicable to code in the period of year,
// in table order. A single entry means no route selection is needed.
func (r *Resolver) Routes(code string, year int, useReal bool) []RouteOption {
	candidates, _ := applicableBenchmarks(
		r.tables.Benchmarks(tables.NormalizeCode(code)), tables.PeriodForYear(year), useReal)
	byLabel := choicesCollide(candidates)
	out := make([]RouteOption, 0, len(candidates))
	for _, c := range candidates {
		choice := c.choice()
		if byLabel {
			choice = c.column.Indicator.Raw
		}
		out = append(out, RouteOption{
			Choice:    choice,
			Indicator: c.column.Indicator.Raw,
			Value:     c.column.Value.Value,
		})
	}
	return out
}
