package engine

import (
	"fmt"
	"sort"
)

// AllowanceStep is the free-allowance fraction in force from Year onward.
type AllowanceStep struct {
	Year     int     `yaml:"year" json:"year"`
	Fraction float64 `yaml:"fraction" json:"fraction"`
}

// AllowanceSchedule maps reference years to the share of the benchmark that
// is exempt from certificate purchase.
type AllowanceSchedule struct {
	steps []AllowanceStep
}

// DefaultAllowanceSchedule is the phase-out published for the definitive period.
func DefaultAllowanceSchedule() AllowanceSchedule {
	s, _ := NewAllowanceSchedule(map[int]float64{
		2026: 0.975,
		2027: 0.95,
		2028: 0.90,
		2029: 0.825,
		2030: 0.75,
		2031: 0.61,
		2032: 0.485,
		2033: 0.36,
		2034: 0,
	})
	return s
}

// NewAllowanceSchedule builds a schedule from year to fraction. Every
// fraction must lie in [0, 1].
func NewAllowanceSchedule(fractions map[int]float64) (AllowanceSchedule, error) {
	if len(fractions) == 0 {
		return AllowanceSchedule{}, fmt.Errorf("%w: empty free-allowance schedule", ErrInvalidInput)
	}
	steps := make([]AllowanceStep, 0, len(fractions))
	for year, f := range fractions {
		if f < 0 || f > 1 {
			return AllowanceSchedule{}, fmt.Errorf("%w: free-allowance fraction %v for %d outside [0, 1]",
				ErrInvalidInput, f, year)
		}
		steps = append(steps, AllowanceStep{Year: year, Fraction: f})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Year < steps[j].Year })
	return AllowanceSchedule{steps: steps}, nil
}

// FractionFor returns the fraction in force in year: the entry for that year,
// or the nearest earlier one. Years before the first entry are rejected.
func (s AllowanceSchedule) FractionFor(year int) (float64, error) {
	if len(s.steps) == 0 || year < s.steps[0].Year {
		first := 0
		if len(s.steps) > 0 {
			first = s.steps[0].Year
		}
		return 0, fmt.Errorf("%w: %d is before %d", ErrYearOutOfRange, year, first)
	}
	f := s.steps[0].Fraction
	for _, st := range s.steps {
		if st.Year > year {
			break
		}
		f = st.Fraction
	}
	return f, nil
}

// Steps returns the schedule entries in ascending year order.
func (s AllowanceSchedule) Steps() []AllowanceStep {
	out := make([]AllowanceStep, len(s.steps))
	copy(out, s.steps)
	return out
}

// FirstYear is the earliest reference year the schedule accepts.
func (s AllowanceSchedule) FirstYear() int {
	if len(s.steps) == 0 {
		return 0
	}
	return s.steps[0].Year
}
