// Command cbamcalc estimates CBAM certificate costs from the published
// benchmark and default-value tables.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rshade/cbamcalc/internal/cli"
	"github.com/rshade/cbamcalc/pkg/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr))
}

// run executes the root command with args and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return cli.ExitCode(err)
	}
	return cli.ExitOK
}
