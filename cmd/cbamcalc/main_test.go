package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/cbamcalc/internal/cli"
)

func TestRun(t *testing.T) {
	t.Setenv("CBAM_HOME", t.TempDir())
	noEnv := filepath.Join(t.TempDir(), "missing.env")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{
			name:     "version",
			args:     []string{"--version"},
			wantCode: cli.ExitOK,
		},
		{
			name:       "unknown command",
			args:       []string{"frobnicate"},
			wantCode:   cli.ExitFailure,
			wantStderr: "unknown command",
		},
		{
			name: "explicit config file missing",
			args: []string{
				"--env-file", noEnv,
				"--config", filepath.Join(t.TempDir(), "absent.yaml"),
				"config", "show",
			},
			wantCode:   cli.ExitFailure,
			wantStderr: "reading config file",
		},
		{
			name:       "tables missing",
			args:       []string{"--env-file", noEnv, "tables", "stats"},
			wantCode:   cli.ExitConfigError,
			wantStderr: "Error:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stderr)
			assert.Equal(t, tt.wantCode, code, stderr.String())
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}
