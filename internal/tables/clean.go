package tables

// clean.go turns spreadsheet-exported cells into usable values.
//
// The reference tables arrive with every artifact a spreadsheet export can
// produce: decimal commas, Excel error literals, "nan" strings from dataframe
// round trips, codes that went through a float ("7203.0"), text-forced codes
// ('7203 or ="7203"), and headers with embedded line breaks.

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Number is a cleaned numeric cell. Valid is false for blank, error or
// unparseable cells.
type Number struct {
	Value float64
	Valid bool
}

// Missing is the zero Number.
//
//nolint:gochecknoglobals // Read-only zero value.
var Missing = Number{}

// Of returns a valid Number.
func Of(v float64) Number {
	return Number{Value: v, Valid: true}
}

// missingTokens are cell contents that mean "no value".
//
//nolint:gochecknoglobals // Constant lookup table.
var missingTokens = map[string]struct{}{
	"#n/a":    {},
	"#value!": {},
	"#ref!":   {},
	"#div/0!": {},
	"#name?":  {},
	"#num!":   {},
	"#null!":  {},
	"nan":     {},
	"none":    {},
	"null":    {},
	"n/a":     {},
	"na":      {},
	"-":       {},
	"--":      {},
}

var (
	groupSpace    = regexp.MustCompile(`(\d)\s+(\d)`)
	numberToken   = regexp.MustCompile(`[-+]?(\d+(\.\d*)?|\.\d+)([eE][-+]?\d+)?`)
	codeFloatTail = regexp.MustCompile(`\.0+$`)
	digitsOnly    = regexp.MustCompile(`^\d+$`)
	spaceRun      = regexp.MustCompile(`\s+`)
)

// CleanNumber parses a raw cell into a Number. Decimal commas become decimal
// points, digit-grouping spaces are dropped and a trailing unit word is cut.
// The other non-numeric characters are stripped. A cell left with zero or
// several numbers is Missing, so "1.234,5" or "12(1)" never parse to a
// plausible value.
func CleanNumber(raw string) Number {
	s := strings.TrimSpace(strings.Trim(raw, "\"'"))
	if s == "" {
		return Missing
	}
	if _, ok := missingTokens[strings.ToLower(s)]; ok {
		return Missing
	}

	s = strings.ReplaceAll(s, ",", ".")
	s = groupSpace.ReplaceAllString(s, "$1$2")
	if head, unit, ok := strings.Cut(s, " "); ok && strings.ContainsFunc(unit, unicode.IsLetter) {
		s = head
	}

	tokens := numberToken.FindAllString(s, 2)
	if len(tokens) != 1 {
		return Missing
	}
	v, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return Missing
	}
	return Of(v)
}

// NormalizeCode canonicalizes a commodity code cell: quotes, Excel text
// prefixes and whitespace are removed, and a float artifact such as "7203.0"
// becomes "7203".
func NormalizeCode(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "=")
	s = strings.Trim(s, "\"'")
	s = strings.ReplaceAll(s, " ", "")
	s = spaceRun.ReplaceAllString(s, "")

	if trimmed := codeFloatTail.ReplaceAllString(s, ""); trimmed != s && digitsOnly.MatchString(trimmed) {
		s = trimmed
	}
	return s
}

// CleanHeader strips line breaks, quote characters, a UTF-8 BOM and
// surrounding whitespace from a column name.
func CleanHeader(raw string) string {
	s := strings.TrimPrefix(raw, "\ufeff")
	s = strings.NewReplacer("\r", " ", "\n", " ", "\"", "", "'", "").Replace(s)
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// CleanText trims a free-text cell and collapses internal whitespace.
func CleanText(raw string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(strings.Trim(raw, "\""), " "))
}
