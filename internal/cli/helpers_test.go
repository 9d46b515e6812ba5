package cli_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rshade/cbamcalc/internal/cli"
)

// executeCmd runs the root command against the testdata tables with an
// isolated CBAM_HOME and no dotenv file.
func executeCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("CBAM_HOME", t.TempDir())
	t.Setenv("CBAM_LOG_LEVEL", "error")

	base := []string{
		"--env-file", filepath.Join(t.TempDir(), "absent.env"),
		"--benchmarks", filepath.Join("testdata", "benchmarks.csv"),
		"--defaults", filepath.Join("testdata", "defaults.csv"),
	}

	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append(base, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
