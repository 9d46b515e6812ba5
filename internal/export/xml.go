// Package export serializes quotes for customs and accounting systems.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rshade/cbamcalc/internal/engine"
)

// Declaration is the XML document written for one quote.
type Declaration struct {
	XMLName      xml.Name       `xml:"CBAMQuote"`
	ID           string         `xml:"id,attr"`
	Created      string         `xml:"created,attr"`
	DataNotFound bool           `xml:"dataNotFound,attr"`
	Goods        Goods          `xml:"Goods"`
	Emissions    Emissions      `xml:"EmbeddedEmissions"`
	Benchmark    Benchmark      `xml:"Benchmark"`
	Allowance    string         `xml:"FreeAllowanceFraction"`
	Cost         CertificateSum `xml:"CertificateCost"`
	Warnings     *Warnings      `xml:"Warnings,omitempty"`
}

// Warnings lists the notes attached to the quote.
type Warnings struct {
	Items []string `xml:"Warning"`
}

// Goods identifies the imported product.
type Goods struct {
	CNCode        string `xml:"CNCode"`
	Country       string `xml:"CountryOfOrigin,omitempty"`
	ReferenceYear int    `xml:"ReferenceYear"`
	NetMassTonnes string `xml:"NetMassTonnes"`
}

// Emissions is the embedded-emissions intensity and its source.
type Emissions struct {
	Unit        string `xml:"unit,attr"`
	Provenance  string `xml:"provenance,attr"`
	Vintage     int    `xml:"vintage,attr,omitempty"`
	MatchedCode string `xml:"matchedCode,attr,omitempty"`
	Value       string `xml:",chardata"`
}

// Benchmark is the benchmark value used.
type Benchmark struct {
	Unit      string `xml:"unit,attr"`
	Status    string `xml:"status,attr"`
	Column    string `xml:"column,attr"`
	Period    string `xml:"period,attr"`
	Route     string `xml:"route,attr,omitempty"`
	Indicator string `xml:"indicator,attr,omitempty"`
	Value     string `xml:",chardata"`
}

// CertificateSum carries the monetary figures in EUR.
type CertificateSum struct {
	Currency         string `xml:"currency,attr"`
	CarbonPrice      string `xml:"CarbonPrice"`
	ExemptShare      string `xml:"ExemptShare"`
	TaxableIntensity string `xml:"TaxableIntensity"`
	UnitCost         string `xml:"CostPerTonne"`
	GrossCost        string `xml:"GrossCost"`
	PaidAbroad       string `xml:"PaidAbroadDeduction"`
	TotalCost        string `xml:"TotalCost"`
}

const intensityUnit = "tCO2e/t"

// FromQuote builds the XML document for q. Money is fixed to two decimals,
// intensities keep their shortest exact form.
func FromQuote(q *engine.Quote) Declaration {
	return Declaration{
		ID:           q.ID,
		Created:      q.CreatedAt.UTC().Format(time.RFC3339),
		DataNotFound: q.DataNotFound,
		Goods: Goods{
			CNCode:        q.Request.Code,
			Country:       q.Request.Country,
			ReferenceYear: q.Request.Year,
			NetMassTonnes: exact(q.Request.Volume),
		},
		Emissions: Emissions{
			Unit:        intensityUnit,
			Provenance:  string(q.Emissions.Provenance),
			Vintage:     q.Emissions.Vintage,
			MatchedCode: q.Emissions.MatchedCode,
			Value:       exact(q.Emissions.Value),
		},
		Benchmark: Benchmark{
			Unit:      intensityUnit,
			Status:    string(q.Benchmark.Status),
			Column:    q.Benchmark.Column,
			Period:    q.Benchmark.Period,
			Route:     q.Benchmark.Route,
			Indicator: q.Benchmark.Indicator,
			Value:     exact(q.Benchmark.Value),
		},
		Allowance: exact(q.AllowanceFraction),
		Cost: CertificateSum{
			Currency:         "EUR",
			CarbonPrice:      money(q.Request.CarbonPrice),
			ExemptShare:      exact(q.Cost.ExemptShare),
			TaxableIntensity: exact(q.Cost.TaxableIntensity),
			UnitCost:         money(q.Cost.UnitCost),
			GrossCost:        money(q.Cost.GrossCost),
			PaidAbroad:       money(q.Cost.PaidAbroad),
			TotalCost:        money(q.Cost.TotalCost),
		},
		Warnings: warnings(q.Warnings),
	}
}

func warnings(w []string) *Warnings {
	if len(w) == 0 {
		return nil
	}
	return &Warnings{Items: w}
}

// WriteXML writes q as an indented XML document with header.
func WriteXML(w io.Writer, q *engine.Quote) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(FromQuote(q)); err != nil {
		return fmt.Errorf("encoding quote %s: %w", q.ID, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func exact(v float64) string {
	return decimal.NewFromFloat(v).String()
}
