package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Choice is the selected option; empty unless Accepted.
	Choice string
	// Accepted is true if the user picked one of the offered options.
	Accepted bool
	// Cancelled is true if input failed or the user gave up (e.g. Ctrl+D).
	Cancelled bool
}

// SelectRoute asks the user to pick one of the production routes that apply
// to code. The caller decides whether the session is interactive.
//
// The user may answer with the option number or the route label, case
// insensitive. Empty or unknown input declines; there is no default, so a
// route is never chosen on the user's behalf.
func SelectRoute(writer io.Writer, reader io.Reader, code string, choices []string) PromptResult {
	if len(choices) == 0 {
		return PromptResult{}
	}

	fmt.Fprintf(writer, "\nCN %s has several production routes for this period:\n", code)
	for i, c := range choices {
		fmt.Fprintf(writer, "  %d) %s\n", i+1, c)
	}
	fmt.Fprintf(writer, "? Select a route [1-%d]: ", len(choices))

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		return PromptResult{Cancelled: true}
	}

	input := strings.TrimSpace(scanner.Text())
	if input == "" {
		return PromptResult{}
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(choices) {
			return PromptResult{Choice: choices[n-1], Accepted: true}
		}
		return PromptResult{}
	}

	for _, c := range choices {
		if strings.EqualFold(input, c) {
			return PromptResult{Choice: c, Accepted: true}
		}
	}
	sel := strings.Trim(input, "()")
	for _, c := range choices {
		if strings.EqualFold(sel, c) {
			return PromptResult{Choice: c, Accepted: true}
		}
	}
	return PromptResult{}
}
