package tables

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rshade/cbamcalc/internal/logging"
)

// candidateDelimiters are tried in order of frequency on the header line.
//
//nolint:gochecknoglobals // Constant lookup table.
var candidateDelimiters = []rune{',', ';'}

// RawRow is one data record with its 1-based source line.
type RawRow struct {
	Line  int
	Cells []string
}

// RawTable is a header plus data rows exactly as read, before normalization.
type RawTable struct {
	Name    string
	Header  []string
	Rows    []RawRow
	Skipped int
}

// ReadFile reads a reference table from disk, dispatching on extension.
// sheet selects the XLSX worksheet; empty means the first sheet.
func ReadFile(ctx context.Context, path, sheet string) (*RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, &ConfigError{File: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
		}
		defer f.Close()
		return ReadCSV(ctx, path, f)
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, &ConfigError{File: path, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
		}
		defer f.Close()
		return readWorkbook(ctx, path, f, sheet)
	default:
		return nil, &ConfigError{File: path, Err: ErrUnsupportedFormat}
	}
}

// ReadCSV parses a delimited table whose delimiter is not known in advance.
// The delimiter occurring most often on the header line is tried first; if it
// produces a single column the other candidate is tried.
func ReadCSV(ctx context.Context, name string, r io.Reader) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ConfigError{File: name, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &ConfigError{File: name, Err: fmt.Errorf("%w: empty file", ErrUnreadable)}
	}

	log := logging.FromContext(ctx)
	for _, delim := range orderDelimiters(firstLine(data)) {
		table, parseErr := parseDelimited(ctx, name, data, delim)
		if parseErr != nil || len(table.Header) <= 1 {
			log.Debug().Ctx(ctx).
				Str("component", "tables").
				Str("file", name).
				Str("delimiter", string(delim)).
				Msg("delimiter rejected")
			continue
		}
		log.Debug().Ctx(ctx).
			Str("component", "tables").
			Str("file", name).
			Str("delimiter", string(delim)).
			Int("columns", len(table.Header)).
			Int("rows", len(table.Rows)).
			Int("skipped", table.Skipped).
			Msg("table parsed")
		return table, nil
	}
	return nil, &ConfigError{File: name, Err: ErrNoDelimiter}
}

func firstLine(data []byte) []byte {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return data[:i]
	}
	return data
}

// orderDelimiters returns the candidates sorted by how often they occur in
// the header line, most frequent first. Ties keep the declared order.
func orderDelimiters(header []byte) []rune {
	out := make([]rune, len(candidateDelimiters))
	copy(out, candidateDelimiters)
	if bytes.Count(header, []byte(string(out[1]))) > bytes.Count(header, []byte(string(out[0]))) {
		out[0], out[1] = out[1], out[0]
	}
	return out
}

func parseDelimited(ctx context.Context, name string, data []byte, delim rune) (*RawTable, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	table := &RawTable{Name: name, Header: cleanHeaders(header)}
	log := logging.FromContext(ctx)

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			line := 0
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				line = parseErr.StartLine
			}
			table.Skipped++
			log.Warn().Ctx(ctx).
				Str("component", "tables").
				Str("file", name).
				Int("line", line).
				Err(readErr).
				Msg("skipping unparseable row")
			continue
		}
		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if len(record) != len(table.Header) {
			table.Skipped++
			log.Warn().Ctx(ctx).
				Str("component", "tables").
				Str("file", name).
				Int("line", line).
				Int("fields", len(record)).
				Int("expected", len(table.Header)).
				Msg("skipping row with wrong field count")
			continue
		}
		table.Rows = append(table.Rows, RawRow{Line: line, Cells: record})
	}
	return table, nil
}

// readWorkbook reads one sheet. excelize trims trailing empty cells, so short
// rows are padded; rows wider than the header are skipped.
func readWorkbook(ctx context.Context, name string, f *excelize.File, sheet string) (*RawTable, error) {
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &ConfigError{File: name, Err: fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)}
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ConfigError{File: name, Err: fmt.Errorf("%w: sheet %q: %w", ErrUnreadable, sheet, err)}
	}

	// Skip leading blank rows above the header.
	start := 0
	for start < len(rows) && isBlank(rows[start]) {
		start++
	}
	if start >= len(rows) {
		return nil, &ConfigError{File: name, Err: fmt.Errorf("%w: sheet %q is empty", ErrUnreadable, sheet)}
	}

	table := &RawTable{Name: name, Header: cleanHeaders(rows[start])}
	log := logging.FromContext(ctx)

	for i := start + 1; i < len(rows); i++ {
		record := rows[i]
		if isBlank(record) {
			continue
		}
		if len(record) > len(table.Header) {
			table.Skipped++
			log.Warn().Ctx(ctx).
				Str("component", "tables").
				Str("file", name).
				Int("line", i+1).
				Msg("skipping row wider than header")
			continue
		}
		cells := make([]string, len(table.Header))
		copy(cells, record)
		table.Rows = append(table.Rows, RawRow{Line: i + 1, Cells: cells})
	}
	return table, nil
}

func cleanHeaders(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = CleanHeader(h)
	}
	return out
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
