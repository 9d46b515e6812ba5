package engine

import (
	"github.com/rshade/cbamcalc/internal/tables"
)

func bench(code, indA string, valA float64, indB string, valB float64) tables.BenchmarkRow {
	return tables.BenchmarkRow{
		Code:    code,
		Real:    tables.BenchmarkColumn{Value: tables.Of(valA), Indicator: tables.ParseIndicator(indA)},
		Default: tables.BenchmarkColumn{Value: tables.Of(valB), Indicator: tables.ParseIndicator(indB)},
	}
}

func defaults(country, code string, values ...tables.Number) tables.DefaultRow {
	row := tables.DefaultRow{Country: country, Code: code, Values: map[int]tables.Number{}}
	for i, v := range values {
		row.Values[2026+i] = v
	}
	return row
}

// fixtureTables mirrors the shape of the published annexes on a few codes.
func fixtureTables() *tables.Tables {
	n := tables.Of
	m := tables.Missing

	b := []tables.BenchmarkRow{
		bench("7203", "(1)", 1.142, "Standard (1)", 1.142),
		bench("7203", "(2)", 1.100, "Standard (2)", 1.090),
		bench("72071111", "(C)", 1.370, "(C)", 1.370),
		bench("72071111", "(D)", 0.890, "(D)", 0.890),
		bench("7208", "(1)(C)", 1.5, "(1)(C)", 1.5),
		bench("7208", "(2)(C)", 1.4, "(2)(C)", 1.4),
		bench("7208", "(1)(D)", 0.9, "(1)(D)", 0.9),
		bench("2601", "", 0.153, "", 0.153),
		bench("7201", "", 1.328, "", 1.328),
		bench("7201", "", 1.328, "", 1.328),
		bench("2716", "", 0, "", 0),
		{Code: "2804", Real: tables.BenchmarkColumn{Value: m}, Default: tables.BenchmarkColumn{Value: m}},
	}

	d := []tables.DefaultRow{
		defaults("China", "7203", n(3.157), n(3.1), n(2.95)),
		defaults("China", "2601", m, m, m),
		defaults("China", "720110", n(2.4), n(2.3), n(2.2)),
		defaults("China", "72011000", m, m, m),
		defaults("China", "7208", n(2.1), n(2.0), n(1.9)),
		defaults("India", "7203", m, n(3.3), n(3.2)),
		defaults("India", "2716", n(0), n(0), n(0)),
		defaults("Other Countries", "2601", n(1.325), n(1.3), n(1.25)),
		defaults("Other Countries", "7203", n(3.5), n(3.4), n(3.3)),
	}

	return tables.New(b, d, tables.Options{Vintages: []int{2026, 2027, 2028}, RestOfWorld: "Other"})
}
