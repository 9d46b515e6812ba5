package greenops

import (
	"math"
	"strings"
)

// getUnitFactor returns the factor converting unit to kilograms. Matching is
// case-insensitive; a CO2e suffix is optional.
func getUnitFactor(unit string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "g", "gco2e":
		return GramsToKg, true
	case "kg", "kgco2e":
		return KgToKg, true
	case "t", "tco2e":
		return TonsToKg, true
	case "lb", "lbco2e":
		return PoundsToKg, true
	default:
		return 0, false
	}
}

// NormalizeToKg converts a carbon quantity to kilograms.
//
// Returns ErrNegativeValue for negative input, ErrInvalidUnit for an unknown
// unit and ErrCalculationOverflow for Inf, NaN or an overflowing result.
func NormalizeToKg(value float64, unit string) (float64, error) {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, ErrCalculationOverflow
	}
	if value < 0 {
		return 0, ErrNegativeValue
	}

	factor, ok := getUnitFactor(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}

	result := value * factor
	if math.IsInf(result, 0) {
		return 0, ErrCalculationOverflow
	}
	return result, nil
}

// NormalizeToTonnes converts a carbon quantity to tonnes CO2e.
func NormalizeToTonnes(value float64, unit string) (float64, error) {
	kg, err := NormalizeToKg(value, unit)
	if err != nil {
		return 0, err
	}
	return kg / TonsToKg, nil
}

// NormalizeIntensity converts an emissions intensity per tonne of product to
// tCO2e/t. Accepted units are a carbon mass unit optionally followed by "/t",
// for example "kgCO2e/t" or "tCO2e/t". An empty unit means DefaultIntensityUnit.
func NormalizeIntensity(value float64, unit string) (float64, error) {
	mass, ok := intensityMassUnit(unit)
	if !ok {
		return 0, ErrInvalidUnit
	}
	return NormalizeToTonnes(value, mass)
}

// IsRecognizedUnit reports whether unit is a supported carbon mass unit.
func IsRecognizedUnit(unit string) bool {
	_, ok := getUnitFactor(unit)
	return ok
}

// IsRecognizedIntensityUnit reports whether unit is a supported intensity unit.
func IsRecognizedIntensityUnit(unit string) bool {
	_, ok := intensityMassUnit(unit)
	return ok
}

func intensityMassUnit(unit string) (string, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = strings.ToLower(DefaultIntensityUnit)
	}
	for _, per := range []string{"/tonne", "/t"} {
		u = strings.TrimSuffix(u, per)
	}
	if !IsRecognizedUnit(u) {
		return "", false
	}
	return u, true
}
