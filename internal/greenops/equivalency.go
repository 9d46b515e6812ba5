package greenops

import (
	"fmt"
	"math"
)

// Calculate expresses the embedded emissions of a shipment as everyday
// equivalents: miles driven and smartphones charged.
//
// Inputs below MinEquivalencyThresholdKg return an empty output without error.
// Unit and sign errors from NormalizeToKg are returned with an empty output.
func Calculate(input CarbonInput, f *Formatter) (EquivalencyOutput, error) {
	if f == nil {
		f = DefaultFormatter()
	}

	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return EquivalencyOutput{IsEmpty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return EquivalencyOutput{InputKg: kg, IsEmpty: true}, nil
	}

	miles := kg / EPAMilesDrivenFactor
	phones := kg / EPASmartphoneChargeFactor
	if math.IsInf(miles, 0) || math.IsInf(phones, 0) {
		return EquivalencyOutput{IsEmpty: true}, ErrCalculationOverflow
	}

	milesFormatted := f.Large(miles)
	phonesFormatted := f.Large(phones)

	return EquivalencyOutput{
		InputKg: kg,
		Results: []EquivalencyResult{
			{Type: EquivalencyMilesDriven, Value: miles, FormattedValue: milesFormatted, Label: "miles driven"},
			{Type: EquivalencySmartphonesCharged, Value: phones, FormattedValue: phonesFormatted, Label: "smartphones charged"},
		},
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			milesFormatted, phonesFormatted),
	}, nil
}
