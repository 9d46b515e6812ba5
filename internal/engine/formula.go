package engine

import (
	"github.com/shopspring/decimal"
)

// CostInput are the operands of the certificate cost formula. Intensities
// are in tCO2e per tonne, Volume in tonnes, money in EUR.
type CostInput struct {
	Emissions         float64
	Benchmark         float64
	AllowanceFraction float64
	CarbonPrice       float64
	Volume            float64
	PaidAbroad        float64
}

// ComputeCost applies the CBAM formula:
//
//	exempt  = benchmark × fraction
//	taxable = max(0, emissions − exempt)
//	unit    = taxable × price
//	gross   = unit × volume
//	total   = max(0, gross − paid abroad)
//
// Arithmetic is decimal so that a zero taxable intensity yields exactly zero.
func ComputeCost(in CostInput) (CostBreakdown, error) {
	switch {
	case in.Emissions < 0:
		return CostBreakdown{}, invalidInput("emissions %v is negative", in.Emissions)
	case in.Benchmark < 0:
		return CostBreakdown{}, invalidInput("benchmark %v is negative", in.Benchmark)
	case in.AllowanceFraction < 0 || in.AllowanceFraction > 1:
		return CostBreakdown{}, invalidInput("free-allowance fraction %v outside [0, 1]", in.AllowanceFraction)
	case in.CarbonPrice < 0:
		return CostBreakdown{}, invalidInput("carbon price %v is negative", in.CarbonPrice)
	case in.Volume < 0:
		return CostBreakdown{}, invalidInput("volume %v is negative", in.Volume)
	case in.PaidAbroad < 0:
		return CostBreakdown{}, invalidInput("carbon price paid abroad %v is negative", in.PaidAbroad)
	}

	emissions := decimal.NewFromFloat(in.Emissions)
	exempt := decimal.NewFromFloat(in.Benchmark).Mul(decimal.NewFromFloat(in.AllowanceFraction))
	raw := emissions.Sub(exempt)
	taxable := decimal.Max(raw, decimal.Zero)
	unit := taxable.Mul(decimal.NewFromFloat(in.CarbonPrice))
	gross := unit.Mul(decimal.NewFromFloat(in.Volume))
	deduction := decimal.Min(decimal.NewFromFloat(in.PaidAbroad), gross)
	total := gross.Sub(deduction)

	return CostBreakdown{
		ExemptShare:      exempt.InexactFloat64(),
		TaxableRaw:       raw.InexactFloat64(),
		TaxableIntensity: taxable.InexactFloat64(),
		UnitCost:         unit.InexactFloat64(),
		GrossCost:        gross.InexactFloat64(),
		PaidAbroad:       deduction.InexactFloat64(),
		TotalCost:        total.InexactFloat64(),
	}, nil
}
