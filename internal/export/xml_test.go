package export

import (
	"bytes"
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cbamcalc/internal/engine"
)

func sampleQuote() *engine.Quote {
	return &engine.Quote{
		ID:        "01JTESTQUOTE",
		CreatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
		Request: engine.QuoteRequest{
			Code: "7203", Country: "China", Year: 2026, Volume: 150, CarbonPrice: 81,
		},
		Emissions: engine.EmissionsResult{
			Value: 3.157, Provenance: engine.ProvenanceCountryDefault, Resolved: true,
			Vintage: 2026, MatchedCode: "7203",
		},
		Benchmark: engine.BenchmarkResult{
			Value: 1.142, Status: engine.BenchmarkResolved, Column: engine.ColumnDefault,
			Period: "(1)", Indicator: "Standard (1)",
		},
		AllowanceFraction: 0.975,
		Cost: engine.CostBreakdown{
			ExemptShare: 1.11345, TaxableRaw: 2.04355, TaxableIntensity: 2.04355,
			UnitCost: 165.52755, GrossCost: 24829.1325, TotalCost: 24829.1325,
		},
		Warnings: []string{"sample warning"},
	}
}

func TestWriteXML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleQuote()))

	out := buf.String()
	assert.Contains(t, out, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, out, `<CBAMQuote id="01JTESTQUOTE" created="2026-02-01T09:30:00Z" dataNotFound="false">`)
	assert.Contains(t, out, `<CNCode>7203</CNCode>`)
	assert.Contains(t, out, `provenance="COUNTRY_DEFAULT"`)
	assert.Contains(t, out, `>3.157</EmbeddedEmissions>`)
	assert.Contains(t, out, `<TotalCost>24829.13</TotalCost>`)
	assert.Contains(t, out, `<CostPerTonne>165.53</CostPerTonne>`)
	assert.Contains(t, out, `<Warning>sample warning</Warning>`)
}

func TestWriteXML_Decodes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, sampleQuote()))

	var got Declaration
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "China", got.Goods.Country)
	assert.Equal(t, "0.975", got.Allowance)
	assert.Equal(t, "Standard (1)", got.Benchmark.Indicator)
}

func TestFromQuote_NoWarnings(t *testing.T) {
	q := sampleQuote()
	q.Warnings = nil
	q.DataNotFound = true

	var buf bytes.Buffer
	require.NoError(t, WriteXML(&buf, q))
	assert.NotContains(t, buf.String(), "<Warnings>")
	assert.Contains(t, buf.String(), `dataNotFound="true"`)
}
