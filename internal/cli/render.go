package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/cbamcalc/internal/config"
	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/export"
	"github.com/rshade/cbamcalc/internal/greenops"
)

// Quote rendering constants.
const (
	quoteBoxWidth     = 64
	labelWidth        = 22
	intensityDecimals = 3
	intensityUnit     = "tCO2e/t"
)

type renderOptions struct {
	format    string
	formatter *greenops.Formatter
	precision int
}

type quoteLine struct {
	label string
	value string
	note  string
}

// renderQuote writes q in the requested format. Table output is styled when
// w is a terminal and plain otherwise.
func renderQuote(w io.Writer, q *engine.Quote, opts renderOptions) error {
	if opts.formatter == nil {
		opts.formatter = greenops.DefaultFormatter()
	}

	switch opts.format {
	case config.FormatJSON:
		return renderJSON(w, q)
	case config.FormatXML:
		return export.WriteXML(w, q)
	case config.FormatTable, "":
		lines := quoteLines(q, opts)
		if isWriterTerminal(w) {
			return renderStyledQuote(w, q, lines, opts)
		}
		return renderPlainQuote(w, q, lines, opts)
	default:
		return fmt.Errorf("unsupported output format %q (use table, json or xml)", opts.format)
	}
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// quoteLines builds the label/value rows shared by the plain and styled views.
func quoteLines(q *engine.Quote, opts renderOptions) []quoteLine {
	f := opts.formatter
	intensity := func(v float64) string {
		return f.Number(v, intensityDecimals) + " " + intensityUnit
	}

	product := q.Request.Code
	if q.Benchmark.Description != "" {
		product += "  " + q.Benchmark.Description
	}
	country := q.Request.Country
	if country == "" {
		country = "(not given)"
	}

	emissions := intensity(q.Emissions.Value)
	emissionsNote := q.Emissions.Provenance.Label()
	switch {
	case !q.Emissions.Resolved:
		emissions = "n/a"
	case q.Emissions.Vintage != 0:
		emissionsNote += fmt.Sprintf(", %d values", q.Emissions.Vintage)
	}
	if q.Emissions.MatchedCode != "" && q.Emissions.MatchedCode != q.Request.Code {
		emissionsNote += ", heading " + q.Emissions.MatchedCode
	}

	benchmark := intensity(q.Benchmark.Value)
	benchmarkNote := "column " + q.Benchmark.Column
	if q.Benchmark.Indicator != "" {
		benchmarkNote += ", " + q.Benchmark.Indicator
	}
	if !q.Benchmark.Resolved() {
		benchmark, benchmarkNote = "n/a", "data not found"
	}

	lines := []quoteLine{
		{label: "Product (CN)", value: product},
		{label: "Country of origin", value: country},
		{label: "Reference year", value: fmt.Sprintf("%d", q.Request.Year),
			note: "period " + q.Benchmark.Period + ", free allowance " + f.Percent(q.AllowanceFraction)},
		{label: "Volume", value: f.Number(q.Request.Volume, opts.precision) + " t"},
		{label: "Carbon price", value: f.Money(q.Request.CarbonPrice) + " per tCO2e"},
		{},
		{label: "Embedded emissions", value: emissions, note: emissionsNote},
		{label: "Benchmark", value: benchmark, note: benchmarkNote},
		{label: "Exempt share", value: intensity(q.Cost.ExemptShare)},
		{label: "Taxable emissions", value: intensity(q.Cost.TaxableRaw), note: taxableNote(q.Cost)},
		{label: "Cost per tonne", value: f.Money(q.Cost.UnitCost)},
		{label: "Gross cost", value: f.Money(q.Cost.GrossCost)},
	}
	if q.Cost.PaidAbroad > 0 {
		lines = append(lines, quoteLine{label: "Paid abroad", value: "-" + f.Money(q.Cost.PaidAbroad)})
	}
	return append(lines, quoteLine{label: "Total cost", value: f.Money(q.Cost.TotalCost)})
}

func taxableNote(c engine.CostBreakdown) string {
	if c.TaxableRaw < 0 {
		return "below the exempt share, no certificates due"
	}
	return ""
}

// shipmentEquivalency describes the shipment's embedded emissions in everyday terms.
func shipmentEquivalency(q *engine.Quote, f *greenops.Formatter) string {
	if !q.Emissions.Resolved {
		return ""
	}
	out, err := greenops.Calculate(greenops.CarbonInput{
		Value: q.Emissions.Value * q.Request.Volume,
		Unit:  "tCO2e",
	}, f)
	if err != nil || out.IsEmpty {
		return ""
	}
	return "Shipment embeds " + f.Number(q.Emissions.Value*q.Request.Volume, 1) + " tCO2e. " + out.DisplayText + "."
}

// renderPlainQuote writes an aligned, uncolored view for pipes and files.
func renderPlainQuote(w io.Writer, q *engine.Quote, lines []quoteLine, opts renderOptions) error {
	var b strings.Builder

	fmt.Fprintf(&b, "CBAM certificate quote %s\n", q.ID)
	b.WriteString(strings.Repeat("=", quoteBoxWidth))
	b.WriteString("\n")
	for _, l := range lines {
		if l.label == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "%-*s %s", labelWidth, l.label, l.value)
		if l.note != "" {
			fmt.Fprintf(&b, "  (%s)", l.note)
		}
		b.WriteString("\n")
	}

	if eq := shipmentEquivalency(q, opts.formatter); eq != "" {
		b.WriteString("\n")
		b.WriteString(eq)
		b.WriteString("\n")
	}
	if q.DataNotFound {
		b.WriteString("\nDATA NOT FOUND: at least one reference value is missing; the cost uses zero in its place.\n")
	}
	if len(q.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, warn := range q.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warn)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// renderStyledQuote writes a bordered box using Lip Gloss for terminals.
func renderStyledQuote(w io.Writer, q *engine.Quote, lines []quoteLine, opts renderOptions) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	labelStyle := lipgloss.NewStyle().Bold(true).Width(labelWidth)
	noteStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	totalStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warningStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	alertStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	borderStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(quoteBoxWidth)

	var content strings.Builder
	content.WriteString(titleStyle.Render("CBAM CERTIFICATE QUOTE"))
	content.WriteString(noteStyle.Render("  " + q.ID))
	content.WriteString("\n\n")

	for i, l := range lines {
		if l.label == "" {
			content.WriteString("\n")
			continue
		}
		value := l.value
		if i == len(lines)-1 {
			value = totalStyle.Render(value)
		}
		content.WriteString(labelStyle.Render(l.label))
		content.WriteString(value)
		if l.note != "" {
			content.WriteString(noteStyle.Render("  " + l.note))
		}
		content.WriteString("\n")
	}

	if eq := shipmentEquivalency(q, opts.formatter); eq != "" {
		content.WriteString("\n")
		content.WriteString(noteStyle.Render(eq))
		content.WriteString("\n")
	}
	if q.DataNotFound {
		content.WriteString("\n")
		content.WriteString(alertStyle.Render("DATA NOT FOUND: the cost uses zero for a missing reference value"))
		content.WriteString("\n")
	}
	for _, warn := range q.Warnings {
		content.WriteString(warningStyle.Render("! " + warn))
		content.WriteString("\n")
	}

	_, err := fmt.Fprintln(w, borderStyle.Render(strings.TrimRight(content.String(), "\n")))
	return err
}
