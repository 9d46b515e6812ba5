package cli_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cbamcalc/internal/engine"
)

func TestTablesCountriesCmd(t *testing.T) {
	out, _, err := executeCmd(t, "tables", "countries")
	require.NoError(t, err)

	assert.Contains(t, out, "China\n")
	assert.Contains(t, out, "India\n")
	assert.Contains(t, out, "Other Countries  (rest of world)")
}

func TestTablesCountriesCmd_JSON(t *testing.T) {
	out, _, err := executeCmd(t, "tables", "countries", "--output", "json")
	require.NoError(t, err)

	var countries []string
	require.NoError(t, json.Unmarshal([]byte(out), &countries))
	assert.Contains(t, countries, "Other Countries")
}

func TestTablesRoutesCmd(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name:     "route selection needed",
			args:     []string{"--code", "72071111", "--year", "2026"},
			contains: []string{"period (1), column B", "ROUTE", "C", "D", "Several routes apply"},
		},
		{
			name:     "single row in period",
			args:     []string{"--code", "7203", "--year", "2030", "--real"},
			contains: []string{"period (2), column A", "(2)", "1.100"},
		},
		{
			name:     "no benchmark",
			args:     []string{"--code", "9999", "--year", "2026"},
			contains: []string{"No benchmark for CN 9999"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := executeCmd(t, append([]string{"tables", "routes"}, tt.args...)...)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestTablesRoutesCmd_JSON(t *testing.T) {
	out, _, err := executeCmd(t, "tables", "routes", "--code", "7208", "--year", "2026", "--output", "json")
	require.NoError(t, err)

	var routes []engine.RouteOption
	require.NoError(t, json.Unmarshal([]byte(out), &routes))
	require.Len(t, routes, 2)
	assert.Equal(t, "C", routes[0].Choice)
	assert.Equal(t, "D", routes[1].Choice)
}

func TestTablesStatsCmd(t *testing.T) {
	out, _, err := executeCmd(t, "tables", "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "TABLE")
	assert.Contains(t, out, "benchmarks")
	assert.Contains(t, out, "defaults")
	assert.Contains(t, out, "Vintages: 2026, 2027, 2028")
}
