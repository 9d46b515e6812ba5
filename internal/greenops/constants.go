package greenops

// EPA equivalency factors (2024 edition), kg CO2e per unit of activity.
//
//	equivalency = kg_CO2e / factor
const (
	// EPAMilesDrivenFactor is kg CO2e per mile for an average passenger vehicle.
	EPAMilesDrivenFactor = 0.192

	// EPASmartphoneChargeFactor is kg CO2e per smartphone charge.
	EPASmartphoneChargeFactor = 0.00822
)

// Unit conversion factors to kilograms.
const (
	GramsToKg  = 0.001
	KgToKg     = 1.0
	TonsToKg   = 1000.0
	PoundsToKg = 0.453592
)

// DefaultIntensityUnit is assumed when an emissions intensity has no unit.
const DefaultIntensityUnit = "tCO2e/t"

// Display thresholds.
const (
	// MinEquivalencyThresholdKg is the smallest shipment total worth an equivalency.
	MinEquivalencyThresholdKg = 1.0

	// LargeNumberThreshold switches to "~X.X million" notation.
	LargeNumberThreshold = 1_000_000

	// BillionThreshold switches to "~X.X billion" notation.
	BillionThreshold = 1_000_000_000
)
