package config

import (
	"github.com/rshade/cbamcalc/internal/logging"
)

// ToLoggingConfig converts the logging section to a logging.Config.
//
//   - Level and Format are copied directly
//   - If File is set, Output becomes "file"
//   - Otherwise Output is "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = outputTypeFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
