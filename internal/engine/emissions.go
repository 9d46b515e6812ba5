package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/rshade/cbamcalc/internal/logging"
	"github.com/rshade/cbamcalc/internal/tables"
)

// prefixLengths are the code lengths tried, after the full code, when a
// default value is missing for the exact code.
//
//nolint:gochecknoglobals // Constant lookup table.
var prefixLengths = []int{6, 4}

// Resolver answers emissions and benchmark lookups against loaded tables.
type Resolver struct {
	tables *tables.Tables
}

// NewResolver returns a Resolver over t.
func NewResolver(t *tables.Tables) *Resolver {
	return &Resolver{tables: t}
}

// CodePrefixes returns the lookup keys for code in fallback order: the full
// code, then its 6 and 4 digit prefixes, without duplicates.
func CodePrefixes(code string) []string {
	if code == "" {
		return nil
	}
	keys := []string{code}
	for _, n := range prefixLengths {
		if n < len(code) {
			keys = append(keys, code[:n])
		}
	}
	return keys
}

// SelectVintage picks the tabulated year used for a reference year. Years
// after the last vintage use the last one, years before the first use the
// first one, and an untabulated year in between uses the nearest earlier one.
func SelectVintage(vintages []int, year int) int {
	if len(vintages) == 0 {
		return year
	}
	chosen := vintages[0]
	for _, v := range vintages {
		if v > year {
			break
		}
		chosen = v
	}
	return chosen
}

// ResolveEmissions determines the embedded-emissions intensity (tCO2e per
// tonne) for one product. A real value greater than zero always wins when
// useReal is set; otherwise the country default table is searched by code
// prefix, then the rest-of-world rows. When nothing is found the result is
// unresolved with provenance NONE.
func (r *Resolver) ResolveEmissions(
	ctx context.Context,
	code, country string,
	year int,
	useReal bool,
	realValue float64,
) EmissionsResult {
	log := logging.FromContext(ctx)
	code = tables.NormalizeCode(code)
	country = strings.TrimSpace(country)

	var res EmissionsResult
	if useReal {
		if realValue > 0 {
			return EmissionsResult{
				Value:      realValue,
				Provenance: ProvenanceReal,
				Resolved:   true,
				Country:    country,
			}
		}
		res.Warnings = append(res.Warnings,
			"real emissions requested but not provided; using default values")
	}

	vintage := SelectVintage(r.tables.Vintages(), year)
	res.Vintage = vintage
	res.Country = country
	if vintage != year {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no default values tabulated for %d; using %d values", year, vintage))
	}

	switch {
	case country == "":
		res.Warnings = append(res.Warnings, "no country of origin given; using rest-of-world default")
	case r.tables.IsRestOfWorld(country):
		// The caller picked the catch-all row directly.
	default:
		if v, matched, ok := searchDefaults(r.tables.Defaults, country, code, vintage); ok {
			res.Value, res.MatchedCode = v, matched
			res.Provenance, res.Resolved = ProvenanceCountryDefault, true
			res.Warnings = appendPrefixWarning(res.Warnings, code, matched)
			logResolved(ctx, code, res)
			return res
		}
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no default value for %s from %s; using rest-of-world default", code, country))
	}

	restOfWorld := func(_, c string) []tables.DefaultRow { return r.tables.RestOfWorld(c) }
	if v, matched, ok := searchDefaults(restOfWorld, country, code, vintage); ok {
		res.Value, res.MatchedCode = v, matched
		res.Provenance, res.Resolved = ProvenanceRestOfWorld, true
		res.Warnings = appendPrefixWarning(res.Warnings, code, matched)
		logResolved(ctx, code, res)
		return res
	}

	res.Provenance = ProvenanceNone
	res.Warnings = append(res.Warnings,
		fmt.Sprintf("data not found: no default emissions for %s in %d", code, vintage))
	log.Warn().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "ResolveEmissions").
		Str("code", code).
		Str("country", country).
		Int("vintage", vintage).
		Msg("emissions not resolved")
	return res
}

func searchDefaults(
	lookup func(country, code string) []tables.DefaultRow,
	country, code string,
	vintage int,
) (float64, string, bool) {
	for _, key := range CodePrefixes(code) {
		for _, row := range lookup(country, key) {
			if v := row.Value(vintage); v.Valid {
				return v.Value, key, true
			}
		}
	}
	return 0, "", false
}

func appendPrefixWarning(warnings []string, code, matched string) []string {
	if matched == code {
		return warnings
	}
	return append(warnings,
		fmt.Sprintf("no default value for %s; using %d-digit heading %s", code, len(matched), matched))
}

func logResolved(ctx context.Context, code string, res EmissionsResult) {
	logging.FromContext(ctx).Debug().Ctx(ctx).
		Str("component", "engine").
		Str("operation", "ResolveEmissions").
		Str("code", code).
		Str("matched_code", res.MatchedCode).
		Str("provenance", string(res.Provenance)).
		Float64("value", res.Value).
		Msg("emissions resolved")
}
