package tables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIndicator(t *testing.T) {
	tests := []struct {
		raw        string
		wantPeriod Period
		wantRoute  Route
		wantChoice string
	}{
		{raw: "", wantPeriod: PeriodUnspecified, wantRoute: RouteNone, wantChoice: "default"},
		{raw: "(1)", wantPeriod: PeriodBefore2028, wantRoute: RouteNone, wantChoice: "default"},
		{raw: "(2)", wantPeriod: PeriodFrom2028, wantRoute: RouteNone, wantChoice: "default"},
		{raw: "(C)", wantPeriod: PeriodUnspecified, wantRoute: RouteC, wantChoice: "C"},
		{raw: "(1)(D)", wantPeriod: PeriodBefore2028, wantRoute: RouteD, wantChoice: "D"},
		{raw: "(2) (J)", wantPeriod: PeriodFrom2028, wantRoute: RouteJ, wantChoice: "J"},
		{raw: "Standard (1)", wantPeriod: PeriodBefore2028, wantRoute: RouteNone, wantChoice: "Standard"},
		{raw: "(1)(2)", wantPeriod: PeriodUnspecified, wantRoute: RouteNone, wantChoice: "default"},
		{raw: "(I)", wantPeriod: PeriodUnspecified, wantRoute: RouteNone, wantChoice: "(I)"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := ParseIndicator(tt.raw)
			assert.Equal(t, tt.wantPeriod, got.Period)
			assert.Equal(t, tt.wantRoute, got.Route)
			assert.Equal(t, tt.wantChoice, got.Choice())
		})
	}
}

func TestIndicator_AppliesTo(t *testing.T) {
	assert.True(t, ParseIndicator("").AppliesTo(PeriodBefore2028))
	assert.True(t, ParseIndicator("(C)").AppliesTo(PeriodFrom2028))
	assert.True(t, ParseIndicator("(1)").AppliesTo(PeriodBefore2028))
	assert.False(t, ParseIndicator("(1)").AppliesTo(PeriodFrom2028))
	assert.False(t, ParseIndicator("(2)(C)").AppliesTo(PeriodBefore2028))
}

func TestIndicator_Matches(t *testing.T) {
	assert.True(t, ParseIndicator("(1)(C)").Matches("c"))
	assert.True(t, ParseIndicator("(1)(C)").Matches("(C)"))
	assert.False(t, ParseIndicator("(1)(C)").Matches("D"))
	assert.True(t, ParseIndicator("Standard (1)").Matches("standard"))
	assert.False(t, ParseIndicator("Standard (1)").Matches(""))
}

func TestIndicator_MatchesLabel(t *testing.T) {
	assert.True(t, ParseIndicator("(C)").MatchesLabel(" (c) "))
	assert.False(t, ParseIndicator("(1)(C)").MatchesLabel("(C)"))
	assert.True(t, ParseIndicator("(1)(C)").MatchesLabel("(1)(C)"))
	assert.False(t, ParseIndicator("(C)").MatchesLabel(""))
}

func TestPeriodForYear(t *testing.T) {
	assert.Equal(t, PeriodBefore2028, PeriodForYear(2026))
	assert.Equal(t, PeriodBefore2028, PeriodForYear(2027))
	assert.Equal(t, PeriodFrom2028, PeriodForYear(2028))
	assert.Equal(t, PeriodFrom2028, PeriodForYear(2034))
}

func TestParseRoute(t *testing.T) {
	r, ok := ParseRoute(" (h) ")
	assert.True(t, ok)
	assert.Equal(t, RouteH, r)

	_, ok = ParseRoute("I")
	assert.False(t, ok)
	_, ok = ParseRoute("Standard")
	assert.False(t, ok)
}
