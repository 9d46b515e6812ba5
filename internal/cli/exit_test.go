package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/cbamcalc/internal/config"
	"github.com/rshade/cbamcalc/internal/engine"
	"github.com/rshade/cbamcalc/internal/tables"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "generic", err: errors.New("boom"), want: ExitFailure},
		{name: "invalid input", err: fmt.Errorf("%w: volume", engine.ErrInvalidInput), want: ExitFailure},
		{name: "table config", err: &tables.ConfigError{File: "b.csv", Err: tables.ErrMissingColumn}, want: ExitConfigError},
		{name: "wrapped table config", err: fmt.Errorf("loading: %w", &tables.ConfigError{File: "b.csv", Err: tables.ErrUnreadable}), want: ExitConfigError},
		{name: "invalid config", err: fmt.Errorf("%w: carbon price", config.ErrInvalidConfig), want: ExitConfigError},
		{name: "route required", err: &engine.RouteRequiredError{Code: "7208", Choices: []string{"C", "D"}}, want: ExitRouteRequired},
		{name: "unknown route", err: &engine.RouteRequiredError{Code: "7208", Selection: "Z", Choices: []string{"C", "D"}}, want: ExitRouteRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
