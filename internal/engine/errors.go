package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for quote computation.
var (
	// ErrInvalidInput marks a request that cannot be computed as given.
	ErrInvalidInput = errors.New("invalid quote input")

	// ErrYearOutOfRange marks a reference year before the first scheduled year.
	ErrYearOutOfRange = errors.New("reference year outside the CBAM schedule")

	// ErrRouteRequired means several production routes apply and none was chosen.
	ErrRouteRequired = errors.New("production route selection required")

	// ErrUnknownRoute means the chosen route matches none of the applicable rows.
	ErrUnknownRoute = errors.New("unknown production route")
)

// RouteRequiredError lists the production routes a caller may choose from.
// It wraps ErrRouteRequired, or ErrUnknownRoute when Selection was given but
// matched nothing. Ambiguous marks a Selection that matched several rows with
// different values; Choices then holds their exact labels.
type RouteRequiredError struct {
	Code      string
	Year      int
	Selection string
	Ambiguous bool
	Choices   []string
}

func (e *RouteRequiredError) Error() string {
	if e.Ambiguous {
		return fmt.Sprintf("route %q matches several benchmarks for CN %s in %d; choose one of: %s",
			e.Selection, e.Code, e.Year, strings.Join(e.Choices, ", "))
	}
	if e.Selection != "" {
		return fmt.Sprintf("route %q not available for CN %s in %d (choose one of: %s)",
			e.Selection, e.Code, e.Year, strings.Join(e.Choices, ", "))
	}
	return fmt.Sprintf("CN %s has several production routes in %d; choose one of: %s",
		e.Code, e.Year, strings.Join(e.Choices, ", "))
}

func (e *RouteRequiredError) Unwrap() error {
	if e.Selection != "" && !e.Ambiguous {
		return ErrUnknownRoute
	}
	return ErrRouteRequired
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
