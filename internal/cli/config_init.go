package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/cbamcalc/internal/config"
)

// newConfigInitCmd creates the config init command, which writes the
// built-in defaults to the config file.
func newConfigInitCmd(s *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:         "init",
		Annotations: map[string]string{annotationSkipConfig: "true"},
		Short:       "Initialize configuration file with default values",
		Long: `Creates a configuration file holding the built-in defaults: table locations,
column headers of the reference tables, the free-allowance schedule, output
and server settings. The file is written to --config when given, otherwise to
$CBAM_HOME/config.yaml.`,
		Example: `  # Create the default configuration
  cbamcalc config init

  # Overwrite an existing file
  cbamcalc config init --force

  # Write to a custom location
  cbamcalc config init --config ./cbam.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := s.flags.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			return initConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func initConfig(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.New().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Info().Ctx(cmd.Context()).
		Str("operation", "config_init").
		Str("path", path).
		Msg("configuration written")

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)
	return nil
}
