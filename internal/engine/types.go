// Package engine resolves CBAM reference values and computes certificate costs.
//
// A Calculator combines the Emissions Resolver, the Benchmark Resolver and the
// cost formula over an immutable tables.Tables. Every call is independent:
// nothing is cached or mutated between quotes, so a single Calculator serves
// concurrent callers.
package engine

import "time"

// Provenance records where an emissions intensity came from.
type Provenance string

// Emissions provenance values.
const (
	ProvenanceReal           Provenance = "REAL"
	ProvenanceCountryDefault Provenance = "COUNTRY_DEFAULT"
	ProvenanceRestOfWorld    Provenance = "REST_OF_WORLD_DEFAULT"
	ProvenanceNone           Provenance = "NONE"
)

// Label is the human-readable form used in rendered output.
func (p Provenance) Label() string {
	switch p {
	case ProvenanceReal:
		return "verified real emissions"
	case ProvenanceCountryDefault:
		return "country default value"
	case ProvenanceRestOfWorld:
		return "rest-of-world default value"
	default:
		return "data not found"
	}
}

// EmissionsResult is the outcome of ResolveEmissions.
type EmissionsResult struct {
	Value      float64    `json:"value"`
	Provenance Provenance `json:"provenance"`
	Resolved   bool       `json:"resolved"`
	// Vintage is the table column used; zero for real emissions.
	Vintage int `json:"vintage,omitempty"`
	// MatchedCode is the code or prefix whose row supplied the value.
	MatchedCode string   `json:"matched_code,omitempty"`
	Country     string   `json:"country,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// BenchmarkStatus describes how a benchmark lookup ended.
type BenchmarkStatus string

// Benchmark lookup outcomes.
const (
	BenchmarkResolved      BenchmarkStatus = "RESOLVED"
	BenchmarkRouteRequired BenchmarkStatus = "ROUTE_REQUIRED"
	BenchmarkUnresolved    BenchmarkStatus = "UNRESOLVED"
)

// Benchmark table column identifiers.
const (
	ColumnReal    = "A"
	ColumnDefault = "B"
)

// BenchmarkResult is the outcome of ResolveBenchmark.
type BenchmarkResult struct {
	Value       float64         `json:"value"`
	Status      BenchmarkStatus `json:"status"`
	Column      string          `json:"column"`
	Period      string          `json:"period"`
	Route       string          `json:"route,omitempty"`
	Indicator   string          `json:"indicator,omitempty"`
	Description string          `json:"description,omitempty"`
	// Choices lists the selectable routes when more than one row applies.
	Choices  []string `json:"choices,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// Resolved reports whether Value is a genuine table value.
func (b BenchmarkResult) Resolved() bool {
	return b.Status == BenchmarkResolved
}

// QuoteRequest carries the user selections for one shipment.
type QuoteRequest struct {
	Code    string `json:"code"`
	Country string `json:"country,omitempty"`
	Year    int    `json:"year"`
	// Volume is the imported quantity in tonnes.
	Volume float64 `json:"volume"`
	// UseReal requests verified real emissions; RealEmissions <= 0 means not provided.
	UseReal       bool    `json:"use_real"`
	RealEmissions float64 `json:"real_emissions,omitempty"`
	Route         string  `json:"route,omitempty"`
	// CarbonPrice is the EUR price of one certificate (one tCO2e).
	CarbonPrice float64 `json:"carbon_price"`
	// PaidAbroad is carbon cost already paid in the country of origin, in EUR.
	PaidAbroad float64 `json:"paid_abroad,omitempty"`
}

// Quote is the result of one calculation. It is never persisted.
type Quote struct {
	ID                string          `json:"id"`
	CreatedAt         time.Time       `json:"created_at"`
	Request           QuoteRequest    `json:"request"`
	Emissions         EmissionsResult `json:"emissions"`
	Benchmark         BenchmarkResult `json:"benchmark"`
	AllowanceFraction float64         `json:"free_allowance_fraction"`
	Cost              CostBreakdown   `json:"cost"`
	// DataNotFound is set whenever emissions or benchmark could not be
	// resolved; the cost figures then rest on a zero placeholder.
	DataNotFound bool     `json:"data_not_found"`
	Warnings     []string `json:"warnings,omitempty"`
}

// CostBreakdown holds every intermediate value of the cost formula.
type CostBreakdown struct {
	ExemptShare float64 `json:"exempt_share"`
	// TaxableRaw is emissions minus the exempt share before the zero floor.
	TaxableRaw       float64 `json:"taxable_raw"`
	TaxableIntensity float64 `json:"taxable_intensity"`
	UnitCost         float64 `json:"unit_cost"`
	GrossCost        float64 `json:"gross_cost"`
	PaidAbroad       float64 `json:"paid_abroad_deduction"`
	TotalCost        float64 `json:"total_cost"`
}
