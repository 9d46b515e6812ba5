// Package greenops converts carbon quantities between units and formats
// numbers, money and emissions for display in the user's locale.
package greenops

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// EuroSymbol is the currency symbol used for certificate costs.
const EuroSymbol = "€"

//nolint:gochecknoglobals // Locale table is idiomatic for x/text/language matching.
var (
	supportedLocales = []language.Tag{language.English, language.Italian, language.German}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

// Formatter renders numbers with the separators of one locale.
type Formatter struct {
	tag         language.Tag
	printer     *message.Printer
	symbolFirst bool
}

// NewFormatter returns a Formatter for a BCP 47 locale such as "en" or
// "it-IT". An empty locale selects English.
func NewFormatter(locale string) (*Formatter, error) {
	tag := language.English
	if locale != "" {
		parsed, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
		}
		_, idx, conf := localeMatcher.Match(parsed)
		if conf == language.No {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLocale, locale)
		}
		tag = supportedLocales[idx]
	}
	return &Formatter{
		tag:         tag,
		printer:     message.NewPrinter(tag),
		symbolFirst: tag == language.English,
	}, nil
}

// DefaultFormatter formats in English.
func DefaultFormatter() *Formatter {
	f, _ := NewFormatter("")
	return f
}

// Locale returns the matched locale tag.
func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Integer formats n with thousand separators.
// Example: Integer(18248) returns "18,248" in English.
func (f *Formatter) Integer(n int64) string {
	return f.printer.Sprint(number.Decimal(n))
}

// Number formats v with exactly precision fraction digits.
// Example: Number(24829.1325, 2) returns "24.829,13" in Italian.
func (f *Formatter) Number(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return f.printer.Sprint(number.Decimal(v, number.Scale(precision)))
}

// Money formats a EUR amount with two decimals, placing the symbol as the
// locale does: "€24,829.13" or "24.829,13 €".
func (f *Formatter) Money(v float64) string {
	s := f.Number(v, 2)
	if f.symbolFirst {
		return EuroSymbol + s
	}
	return s + " " + EuroSymbol
}

// Percent formats a fraction in [0, 1] as a percentage with one decimal.
func (f *Formatter) Percent(fraction float64) string {
	return f.Number(fraction*100, 1) + "%"
}

// Large formats large counts with abbreviated notation.
//
// Values below LargeNumberThreshold use separators, values at or above it
// use "X.X million" and values at or above BillionThreshold "X.X billion".
func (f *Formatter) Large(n float64) string {
	if n >= BillionThreshold {
		return f.Number(n/BillionThreshold, 1) + " billion"
	}
	if n >= LargeNumberThreshold {
		return f.Number(n/LargeNumberThreshold, 1) + " million"
	}
	return f.Integer(int64(math.Round(n)))
}
