package tables

import (
	"fmt"
	"regexp"
	"strings"
)

// Period is the scheme period a benchmark row applies to.
type Period int

const (
	// PeriodUnspecified rows apply to every period.
	PeriodUnspecified Period = iota
	// PeriodBefore2028 is tag "(1)": reference years 2026 and 2027.
	PeriodBefore2028
	// PeriodFrom2028 is tag "(2)": reference years 2028 to 2030.
	PeriodFrom2028
)

// LastYearOfFirstPeriod is the final reference year covered by tag "(1)".
const LastYearOfFirstPeriod = 2027

// PeriodForYear returns the period tag required for a reference year.
func PeriodForYear(year int) Period {
	if year <= LastYearOfFirstPeriod {
		return PeriodBefore2028
	}
	return PeriodFrom2028
}

// String returns the tag form of the period.
func (p Period) String() string {
	switch p {
	case PeriodUnspecified:
		return "unspecified"
	case PeriodBefore2028:
		return "(1)"
	case PeriodFrom2028:
		return "(2)"
	default:
		return fmt.Sprintf("Period(%d)", int(p))
	}
}

// Route is an iron and steel production route letter. RouteNone means the
// row carries no route qualifier.
type Route string

// Production routes that appear in the benchmark annex.
const (
	RouteNone Route = ""
	RouteC    Route = "C"
	RouteD    Route = "D"
	RouteE    Route = "E"
	RouteF    Route = "F"
	RouteG    Route = "G"
	RouteH    Route = "H"
	RouteJ    Route = "J"
)

// ParseRoute maps a user supplied route ("c", "(C)", " D ") to a Route.
// ok is false when the input is not a known route letter.
func ParseRoute(s string) (Route, bool) {
	s = strings.ToUpper(strings.Trim(strings.TrimSpace(s), "()"))
	switch r := Route(s); r {
	case RouteC, RouteD, RouteE, RouteF, RouteG, RouteH, RouteJ:
		return r, true
	default:
		return RouteNone, false
	}
}

var (
	routeTag  = regexp.MustCompile(`\(([C-HJ])\)`)
	periodTag = regexp.MustCompile(`\((1|2)\)`)
)

// Indicator is the parsed form of a benchmark production-route/period cell.
type Indicator struct {
	Raw    string
	Period Period
	Route  Route
}

// ParseIndicator extracts the period and route tags from an indicator cell.
// A cell tagged with both periods is treated as valid for every period.
func ParseIndicator(raw string) Indicator {
	ind := Indicator{Raw: CleanText(raw)}

	has1 := strings.Contains(ind.Raw, "(1)")
	has2 := strings.Contains(ind.Raw, "(2)")
	switch {
	case has1 && !has2:
		ind.Period = PeriodBefore2028
	case has2 && !has1:
		ind.Period = PeriodFrom2028
	}

	if m := routeTag.FindStringSubmatch(ind.Raw); m != nil {
		ind.Route = Route(m[1])
	}
	return ind
}

// AppliesTo reports whether the row is valid in period p.
func (i Indicator) AppliesTo(p Period) bool {
	return i.Period == PeriodUnspecified || i.Period == p
}

// Choice is the label offered to the caller when a route must be selected:
// the route letter when present, otherwise the indicator text without its
// period tag.
func (i Indicator) Choice() string {
	if i.Route != RouteNone {
		return string(i.Route)
	}
	label := CleanText(periodTag.ReplaceAllString(i.Raw, ""))
	if label == "" {
		return "default"
	}
	return label
}

// Matches reports whether a caller's route selection designates this row.
func (i Indicator) Matches(selection string) bool {
	sel := strings.TrimSpace(selection)
	if sel == "" {
		return false
	}
	if i.MatchesLabel(sel) {
		return true
	}
	if r, ok := ParseRoute(sel); ok && i.Route == r {
		return true
	}
	return strings.EqualFold(sel, i.Choice())
}

// MatchesLabel reports whether selection is exactly the raw indicator label,
// ignoring case and surrounding space.
func (i Indicator) MatchesLabel(selection string) bool {
	sel := strings.TrimSpace(selection)
	return sel != "" && strings.EqualFold(sel, strings.TrimSpace(i.Raw))
}
