package tables

import (
	"context"

	"github.com/rshade/cbamcalc/internal/logging"
)

// BenchmarkColumn is one of the two benchmark value/indicator pairs of a row.
type BenchmarkColumn struct {
	Value     Number
	Indicator Indicator
}

// BenchmarkRow is a normalized row of the benchmark table.
type BenchmarkRow struct {
	Line        int
	Code        string
	Description string
	// Real is column A, used with verified real emissions.
	Real BenchmarkColumn
	// Default is column B, used with default emission values.
	Default BenchmarkColumn
}

// Column returns column A when useReal is true, column B otherwise.
func (r BenchmarkRow) Column(useReal bool) BenchmarkColumn {
	if useReal {
		return r.Real
	}
	return r.Default
}

// DefaultRow is a normalized row of the default-emissions table.
type DefaultRow struct {
	Line    int
	Country string
	Code    string
	// Values holds the default intensity per vintage year.
	Values map[int]Number
}

// Value returns the intensity for a vintage year, Missing when absent.
func (r DefaultRow) Value(vintage int) Number {
	if n, ok := r.Values[vintage]; ok {
		return n
	}
	return Missing
}

// NormalizeBenchmarks maps a raw benchmark table onto BenchmarkRows. Blank
// code cells inherit the previous code (merged-cell export artifact). Rows
// before the first code are dropped.
func NormalizeBenchmarks(ctx context.Context, raw *RawTable, layout BenchmarkLayout) ([]BenchmarkRow, error) {
	cols, err := resolveColumns(raw.Name, raw.Header, layout.specs())
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	rows := make([]BenchmarkRow, 0, len(raw.Rows))
	lastCode := ""
	orphans := 0

	for _, rr := range raw.Rows {
		code := NormalizeCode(cols.cell(rr.Cells, layout.Code.Field))
		if code == "" {
			code = lastCode
		}
		if code == "" {
			orphans++
			continue
		}
		lastCode = code

		rows = append(rows, BenchmarkRow{
			Line:        rr.Line,
			Code:        code,
			Description: CleanText(cols.cell(rr.Cells, layout.Description.Field)),
			Real: BenchmarkColumn{
				Value:     CleanNumber(cols.cell(rr.Cells, layout.RealValue.Field)),
				Indicator: ParseIndicator(cols.cell(rr.Cells, layout.RealIndicator.Field)),
			},
			Default: BenchmarkColumn{
				Value:     CleanNumber(cols.cell(rr.Cells, layout.DefaultValue.Field)),
				Indicator: ParseIndicator(cols.cell(rr.Cells, layout.DefaultIndicator.Field)),
			},
		})
	}

	if orphans > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "tables").
			Str("file", raw.Name).
			Int("rows", orphans).
			Msg("dropped benchmark rows preceding the first commodity code")
	}
	return rows, nil
}

// NormalizeDefaults maps a raw default-values table onto DefaultRows. Codes
// are not forward-filled; rows without a country or code are dropped.
func NormalizeDefaults(ctx context.Context, raw *RawTable, layout DefaultsLayout) ([]DefaultRow, error) {
	cols, err := resolveColumns(raw.Name, raw.Header, layout.specs())
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	rows := make([]DefaultRow, 0, len(raw.Rows))
	dropped := 0

	for _, rr := range raw.Rows {
		country := CleanText(cols.cell(rr.Cells, layout.Country.Field))
		code := NormalizeCode(cols.cell(rr.Cells, layout.Code.Field))
		if country == "" || code == "" {
			dropped++
			continue
		}

		values := make(map[int]Number, len(layout.Vintages))
		for _, v := range layout.Vintages {
			values[v.Year] = CleanNumber(cols.cell(rr.Cells, v.Spec.Field))
		}
		rows = append(rows, DefaultRow{Line: rr.Line, Country: country, Code: code, Values: values})
	}

	if dropped > 0 {
		log.Warn().Ctx(ctx).
			Str("component", "tables").
			Str("file", raw.Name).
			Int("rows", dropped).
			Msg("dropped default rows without country or commodity code")
	}
	return rows, nil
}
