// Package tables loads and normalizes the CBAM reference tables: the product
// benchmark annex and the country default-emissions annex.
//
// Both tables are exported from spreadsheets and arrive with ambiguous
// delimiters, decimal commas, error literals and merged cells. Load turns them
// into a Tables value that is immutable after construction and safe for
// concurrent readers without locking.
package tables

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rshade/cbamcalc/internal/logging"
)

// Sources locates the two reference files.
type Sources struct {
	BenchmarksPath string
	DefaultsPath   string
	// Sheet is the worksheet name used for XLSX sources; empty means first sheet.
	Sheet string
}

// Layouts groups the column mappings of both tables.
type Layouts struct {
	Benchmarks BenchmarkLayout
	Defaults   DefaultsLayout
}

// DefaultLayouts returns the column mappings for the published annexes.
func DefaultLayouts() Layouts {
	return Layouts{Benchmarks: DefaultBenchmarkLayout(), Defaults: DefaultDefaultsLayout()}
}

// TableStats summarizes one loaded table.
type TableStats struct {
	File    string `json:"file"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
}

// Stats summarizes a Load.
type Stats struct {
	Benchmarks TableStats    `json:"benchmarks"`
	Defaults   TableStats    `json:"defaults"`
	Duration   time.Duration `json:"duration"`
}

// Options configure a Tables built from already-normalized rows.
type Options struct {
	// Vintages are the tabulated default-value years, ascending.
	Vintages []int
	// RestOfWorld is the substring identifying catch-all country rows.
	RestOfWorld string
}

type countryCode struct {
	country string
	code    string
}

// Tables is the normalized, read-only reference data.
type Tables struct {
	benchmarks  map[string][]BenchmarkRow
	defaults    map[countryCode][]DefaultRow
	restOfWorld map[string][]DefaultRow
	countries   []string
	vintages    []int
	stats       Stats
}

// New indexes normalized rows. Rows are copied; the caller may reuse its slices.
func New(benchmarks []BenchmarkRow, defaults []DefaultRow, opts Options) *Tables {
	vintages := slices.Clone(opts.Vintages)
	slices.Sort(vintages)

	t := &Tables{
		benchmarks:  make(map[string][]BenchmarkRow),
		defaults:    make(map[countryCode][]DefaultRow),
		restOfWorld: make(map[string][]DefaultRow),
		vintages:    vintages,
	}

	for _, b := range benchmarks {
		t.benchmarks[b.Code] = append(t.benchmarks[b.Code], b)
	}

	marker := strings.ToLower(opts.RestOfWorld)
	seen := make(map[string]bool)
	for _, d := range defaults {
		if marker != "" && strings.Contains(strings.ToLower(d.Country), marker) {
			t.restOfWorld[d.Code] = append(t.restOfWorld[d.Code], d)
		} else {
			key := countryCode{country: countryKey(d.Country), code: d.Code}
			t.defaults[key] = append(t.defaults[key], d)
		}
		if !seen[d.Country] {
			seen[d.Country] = true
			t.countries = append(t.countries, d.Country)
		}
	}
	sort.Strings(t.countries)

	t.stats.Benchmarks.Rows = len(benchmarks)
	t.stats.Defaults.Rows = len(defaults)
	return t
}

func countryKey(country string) string {
	return strings.ToLower(strings.TrimSpace(country))
}

// Load reads both reference tables concurrently and normalizes them. Any
// failure is a ConfigError and aborts the load.
func Load(ctx context.Context, src Sources, layouts Layouts) (*Tables, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	var (
		benchRaw, defRaw *RawTable
		bench            []BenchmarkRow
		defaults         []DefaultRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, err := ReadFile(gctx, src.BenchmarksPath, src.Sheet)
		if err != nil {
			return err
		}
		rows, err := NormalizeBenchmarks(gctx, raw, layouts.Benchmarks)
		if err != nil {
			return err
		}
		benchRaw, bench = raw, rows
		return nil
	})
	g.Go(func() error {
		raw, err := ReadFile(gctx, src.DefaultsPath, src.Sheet)
		if err != nil {
			return err
		}
		rows, err := NormalizeDefaults(gctx, raw, layouts.Defaults)
		if err != nil {
			return err
		}
		defRaw, defaults = raw, rows
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Ctx(ctx).
			Str("component", "tables").
			Str("operation", "Load").
			Err(err).
			Msg("reference table load failed")
		return nil, err
	}

	vintages := make([]int, 0, len(layouts.Defaults.Vintages))
	for _, v := range layouts.Defaults.Vintages {
		vintages = append(vintages, v.Year)
	}

	t := New(bench, defaults, Options{Vintages: vintages, RestOfWorld: layouts.Defaults.RestOfWorld})
	t.stats = Stats{
		Benchmarks: TableStats{File: src.BenchmarksPath, Rows: len(bench), Skipped: benchRaw.Skipped},
		Defaults:   TableStats{File: src.DefaultsPath, Rows: len(defaults), Skipped: defRaw.Skipped},
		Duration:   time.Since(start),
	}

	log.Info().Ctx(ctx).
		Str("component", "tables").
		Str("operation", "Load").
		Int("benchmark_rows", len(bench)).
		Int("default_rows", len(defaults)).
		Int("skipped", benchRaw.Skipped+defRaw.Skipped).
		Dur("duration", t.stats.Duration).
		Msg("reference tables loaded")
	return t, nil
}

// Benchmarks returns the benchmark rows whose code equals code exactly.
func (t *Tables) Benchmarks(code string) []BenchmarkRow {
	return slices.Clone(t.benchmarks[code])
}

// Defaults returns the default rows for a country and exact code. Country
// matching ignores case and surrounding whitespace.
func (t *Tables) Defaults(country, code string) []DefaultRow {
	return slices.Clone(t.defaults[countryCode{country: countryKey(country), code: code}])
}

// RestOfWorld returns the catch-all rows for an exact code.
func (t *Tables) RestOfWorld(code string) []DefaultRow {
	return slices.Clone(t.restOfWorld[code])
}

// IsRestOfWorld reports whether country names the catch-all row.
func (t *Tables) IsRestOfWorld(country string) bool {
	key := countryKey(country)
	for _, rows := range t.restOfWorld {
		for _, r := range rows {
			if countryKey(r.Country) == key {
				return true
			}
		}
	}
	return false
}

// Countries returns every distinct country name, sorted, rest-of-world included.
func (t *Tables) Countries() []string {
	return slices.Clone(t.countries)
}

// Codes returns every distinct benchmark code, sorted.
func (t *Tables) Codes() []string {
	codes := make([]string, 0, len(t.benchmarks))
	for c := range t.benchmarks {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Vintages returns the tabulated default-value years in ascending order.
func (t *Tables) Vintages() []int {
	return slices.Clone(t.vintages)
}

// Stats returns load statistics.
func (t *Tables) Stats() Stats {
	return t.stats
}
