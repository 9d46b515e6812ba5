package cli

import (
	"github.com/spf13/cobra"
)

// newConfigShowCmd prints the effective configuration as YAML.
func newConfigShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration in effect after applying the config file, the
CBAM_* environment (including the dotenv file) and command-line flags.`,
		Example: `  cbamcalc config show
  CBAM_CARBON_PRICE=81 cbamcalc config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := s.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
