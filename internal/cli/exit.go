package cli

import (
	"errors"

	"github.com/rshade/cbamcalc/internal/config"
	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/tables"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitConfigError   = 2
	ExitRouteRequired = 3
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *tables.ConfigError
	var routeErr *engine.RouteRequiredError
	switch {
	case errors.As(err, &cfgErr), errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.As(err, &routeErr):
		return ExitRouteRequired
	default:
		return ExitFailure
	}
}
