package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for unit conversion and formatting, comparable with errors.Is.
var (
	// ErrInvalidUnit indicates an unrecognized carbon or intensity unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative carbon value.
	// Embedded emissions cannot be negative.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a value too large to convert safely.
	ErrCalculationOverflow = constError("calculation overflow")

	// ErrUnsupportedLocale indicates a display locale with no formatting rules.
	ErrUnsupportedLocale = constError("unsupported locale")
)
