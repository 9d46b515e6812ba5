package greenops

import "fmt"

// EquivalencyType represents a category of carbon emission equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven converts CO2e to miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota

	// EquivalencySmartphonesCharged converts CO2e to smartphone full charges.
	EquivalencySmartphonesCharged
)

// String returns a human-readable representation of the EquivalencyType.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "MilesDriven"
	case EquivalencySmartphonesCharged:
		return "SmartphonesCharged"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// CarbonInput is a carbon quantity with its unit (g, kg, t, lb, optionally with CO2e).
type CarbonInput struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// EquivalencyResult represents a single calculated equivalency.
type EquivalencyResult struct {
	Type           EquivalencyType `json:"type"`
	Value          float64         `json:"value"`
	FormattedValue string          `json:"formatted_value"`
	Label          string          `json:"label"`
}

// EquivalencyOutput contains all equivalency results for display.
type EquivalencyOutput struct {
	// InputKg is the normalized input value in kilograms CO2e.
	InputKg float64             `json:"input_kg"`
	Results []EquivalencyResult `json:"results"`

	// DisplayText is the prose form, for example
	// "Equivalent to driving ~781 miles or charging ~18,248 smartphones".
	DisplayText string `json:"display_text"`

	IsEmpty bool `json:"is_empty"`
}
