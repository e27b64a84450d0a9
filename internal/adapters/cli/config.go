package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-engine/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
		Long: `Inspect the effective configuration.

Configuration is loaded from multiple sources with priority:
1. Environment variables (COLONY_* prefix, plus DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  colonyctl config show
  COLONY_ECONOMY_REFUND_RATIO=0.25 colonyctl config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration (secrets omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				warnColor.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
				fmt.Fprintln(cmd.ErrOrStderr(), "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}
			return printYAML(cmd.OutOrStdout(), cfg)
		},
	}
}
