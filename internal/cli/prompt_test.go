package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
)

func TestSelectRoute(t *testing.T) {
	choices := []string{"C", "D", "Standard"}

	tests := []struct {
		name  string
		input string
		want  PromptResult
	}{
		{name: "number", input: "2\n", want: PromptResult{Choice: "D", Accepted: true}},
		{name: "label", input: "c\n", want: PromptResult{Choice: "C", Accepted: true}},
		{name: "parenthesized label", input: "(D)\n", want: PromptResult{Choice: "D", Accepted: true}},
		{name: "word label", input: "standard\n", want: PromptResult{Choice: "Standard", Accepted: true}},
		{name: "surrounding spaces", input: "  3  \n", want: PromptResult{Choice: "Standard", Accepted: true}},
		{name: "empty declines", input: "\n", want: PromptResult{}},
		{name: "out of range", input: "4\n", want: PromptResult{}},
		{name: "zero", input: "0\n", want: PromptResult{}},
		{name: "unknown label", input: "Z\n", want: PromptResult{}},
		{name: "eof cancels", input: "", want: PromptResult{Cancelled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := SelectRoute(&out, strings.NewReader(tt.input), "72071111", choices)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "CN 72071111")
			assert.Contains(t, out.String(), "2) D")
		})
	}
}

func TestSelectRoute_ExactLabels(t *testing.T) {
	choices := []string{"(1)(C)", "(C)"}

	tests := []struct {
		input string
		want  string
	}{
		{input: "(C)\n", want: "(C)"},
		{input: "(1)(c)\n", want: "(1)(C)"},
		{input: "2\n", want: "(C)"},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := SelectRoute(&out, strings.NewReader(tt.input), "7209", choices)
			assert.True(t, got.Accepted)
			assert.Equal(t, tt.want, got.Choice)
		})
	}
}

func TestSelectRoute_ReadError(t *testing.T) {
	var out bytes.Buffer
	got := SelectRoute(&out, iotest.ErrReader(errors.New("broken pipe")), "7208", []string{"C", "D"})
	assert.True(t, got.Cancelled)
	assert.False(t, got.Accepted)
}

func TestSelectRoute_NoChoices(t *testing.T) {
	var out bytes.Buffer
	got := SelectRoute(&out, strings.NewReader("1\n"), "7208", nil)
	assert.Equal(t, PromptResult{}, got)
	assert.Empty(t, out.String())
}
