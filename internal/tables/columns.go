package tables

import (
	"strconv"
	"strings"
)

// ColumnSpec maps a logical field to the header that carries it. A header
// matches when it contains every entry of Contains, compared case-insensitively
// after CleanHeader.
type ColumnSpec struct {
	Field    string   `yaml:"field"    json:"field"`
	Contains []string `yaml:"contains" json:"contains"`
	Required bool     `yaml:"required" json:"required"`
}

func (c ColumnSpec) describe() string {
	return c.Field + " (header containing " + strconv.Quote(strings.Join(c.Contains, `" + "`)) + ")"
}

func (c ColumnSpec) matches(header string) bool {
	if len(c.Contains) == 0 {
		return false
	}
	h := strings.ToLower(header)
	for _, part := range c.Contains {
		if !strings.Contains(h, strings.ToLower(strings.TrimSpace(part))) {
			return false
		}
	}
	return true
}

// BenchmarkLayout names the benchmark table columns. Column A carries the
// benchmark used with verified real emissions, column B the one used with
// default values.
type BenchmarkLayout struct {
	Code             ColumnSpec `yaml:"code"`
	Description      ColumnSpec `yaml:"description"`
	RealIndicator    ColumnSpec `yaml:"real_indicator"`
	RealValue        ColumnSpec `yaml:"real_value"`
	DefaultIndicator ColumnSpec `yaml:"default_indicator"`
	DefaultValue     ColumnSpec `yaml:"default_value"`
}

// specs lists the fields in resolution order. Indicators resolve before
// values so that an indicator header mentioning "benchmark" is not claimed by
// a value pattern.
func (l BenchmarkLayout) specs() []ColumnSpec {
	return []ColumnSpec{l.Code, l.Description, l.RealIndicator, l.RealValue, l.DefaultIndicator, l.DefaultValue}
}

// VintageColumn is the default-value column for one vintage year.
type VintageColumn struct {
	Year int        `yaml:"year"`
	Spec ColumnSpec `yaml:"column"`
}

// DefaultsLayout names the default-emissions table columns.
type DefaultsLayout struct {
	Country  ColumnSpec      `yaml:"country"`
	Code     ColumnSpec      `yaml:"code"`
	Vintages []VintageColumn `yaml:"vintages"`
	// RestOfWorld is the substring identifying the catch-all country row.
	RestOfWorld string `yaml:"rest_of_world"`
}

func (l DefaultsLayout) specs() []ColumnSpec {
	out := []ColumnSpec{l.Country, l.Code}
	for _, v := range l.Vintages {
		out = append(out, v.Spec)
	}
	return out
}

// DefaultBenchmarkLayout matches the headers of the published benchmark annex.
func DefaultBenchmarkLayout() BenchmarkLayout {
	return BenchmarkLayout{
		Code:             ColumnSpec{Field: "code", Contains: []string{"cn code"}, Required: true},
		Description:      ColumnSpec{Field: "description", Contains: []string{"description"}},
		RealIndicator:    ColumnSpec{Field: "real_indicator", Contains: []string{"indicator", "column a"}, Required: true},
		RealValue:        ColumnSpec{Field: "real_value", Contains: []string{"benchmark", "column a"}, Required: true},
		DefaultIndicator: ColumnSpec{Field: "default_indicator", Contains: []string{"indicator", "column b"}, Required: true},
		DefaultValue:     ColumnSpec{Field: "default_value", Contains: []string{"benchmark", "column b"}, Required: true},
	}
}

// DefaultDefaultsLayout matches the headers of the published default-values
// annex with one column per vintage year.
func DefaultDefaultsLayout() DefaultsLayout {
	layout := DefaultsLayout{
		Country:     ColumnSpec{Field: "country", Contains: []string{"country"}, Required: true},
		Code:        ColumnSpec{Field: "code", Contains: []string{"cn code"}, Required: true},
		RestOfWorld: "Other",
	}
	for _, year := range []int{2026, 2027, 2028} {
		y := strconv.Itoa(year)
		layout.Vintages = append(layout.Vintages, VintageColumn{
			Year: year,
			Spec: ColumnSpec{Field: "default_" + y, Contains: []string{y}, Required: true},
		})
	}
	return layout
}

// columnIndex maps Field to header position; absent optional fields map to -1.
type columnIndex map[string]int

func (ci columnIndex) cell(cells []string, field string) string {
	idx, ok := ci[field]
	if !ok || idx < 0 || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// resolveColumns binds every spec to the first unclaimed matching header.
// A required spec without a match is a ConfigError naming the file and field.
func resolveColumns(file string, header []string, specs []ColumnSpec) (columnIndex, error) {
	claimed := make(map[int]bool, len(header))
	idx := make(columnIndex, len(specs))

	for _, spec := range specs {
		idx[spec.Field] = -1
		for i, h := range header {
			if claimed[i] || !spec.matches(h) {
				continue
			}
			idx[spec.Field] = i
			claimed[i] = true
			break
		}
		if idx[spec.Field] < 0 && spec.Required {
			return nil, &ConfigError{File: file, Column: spec.describe(), Err: ErrMissingColumn}
		}
	}
	return idx, nil
}
