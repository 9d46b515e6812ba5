package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyTables  = "tables"
	keyColumns = "columns"
	keyScheme  = "scheme"
	keyMarket  = "market"
	keyOutput  = "output"
	keyServer  = "server"
	keyLogging = "logging"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config sections.
// Other keys are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyTables:  true,
	keyColumns: true,
	keyScheme:  true,
	keyMarket:  true,
	keyOutput:  true,
	keyServer:  true,
	keyLogging: true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the file replaces the whole section in target;
// absent sections keep their values.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]interface{}
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file.
	if len(overlay) == 0 {
		return nil
	}

	for key, value := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}

		sectionBytes, marshalErr := yaml.Marshal(value)
		if marshalErr != nil {
			return fmt.Errorf("re-marshalling overlay section %q: %w", key, marshalErr)
		}

		if err = unmarshalSection(target, key, sectionBytes); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// unmarshalSection decodes data into a fresh value of the section's type and
// assigns it, so maps are replaced rather than merged.
func unmarshalSection(target *Config, key string, data []byte) error {
	switch key {
	case keyTables:
		return decodeInto(data, &target.Tables)
	case keyColumns:
		return decodeInto(data, &target.Columns)
	case keyScheme:
		return decodeInto(data, &target.Scheme)
	case keyMarket:
		return decodeInto(data, &target.Market)
	case keyOutput:
		return decodeInto(data, &target.Output)
	case keyServer:
		return decodeInto(data, &target.Server)
	case keyLogging:
		return decodeInto(data, &target.Logging)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

func decodeInto[T any](data []byte, field *T) error {
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	*field = v
	return nil
}
