package tables

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ConfigError.
var (
	// ErrUnreadable means the reference file is absent or cannot be parsed at all.
	ErrUnreadable = errors.New("reference table unreadable")

	// ErrNoDelimiter means neither candidate delimiter yields more than one column.
	ErrNoDelimiter = errors.New("cannot detect column delimiter")

	// ErrMissingColumn means no header matched a required column pattern.
	ErrMissingColumn = errors.New("required column not found")

	// ErrUnsupportedFormat means the file extension is neither .csv nor .xlsx.
	ErrUnsupportedFormat = errors.New("unsupported table format")
)

// ConfigError reports a reference table that cannot be used. It is fatal to
// startup and always names the file and, when relevant, the column.
type ConfigError struct {
	File   string
	Column string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("configuration error in %s: %v: %s", e.File, e.Err, e.Column)
	}
	return fmt.Sprintf("configuration error in %s: %v", e.File, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
