package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath   string
	playerKey    string
	outputFormat string
	noColor      bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "colonyctl",
		Short: "Colony economy CLI - inspect and drive player colonies",
		Long: `colonyctl operates on the colony economy database directly.

Every command runs the same operations the daemon serves: due builds are
completed and production is accrued before anything is read or changed.

Examples:
  colonyctl player init --player 0xabc
  colonyctl player resources --player 0xabc
  colonyctl track list facilities --player 0xabc
  colonyctl track build facilities metal_mine --player 0xabc
  colonyctl track build defense rocket_launcher --amount 20 --player 0xabc
  colonyctl track cancel research energy_tech --player 0xabc
  colonyctl ledger transactions --player 0xabc --limit 20
  colonyctl catalog defense`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			switch outputFormat {
			case "table", "yaml":
				return nil
			default:
				return fmt.Errorf("unsupported output format %q: use table or yaml", outputFormat)
			}
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs/config.yaml, /etc/colony/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&playerKey, "player", "p", os.Getenv("COLONY_PLAYER"),
		"Player key (defaults to $COLONY_PLAYER)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format: table or yaml")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")

	// Add command groups
	rootCmd.AddCommand(NewPlayerCommand())
	rootCmd.AddCommand(NewTrackCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewCatalogCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

// requirePlayer returns the --player flag or an error naming it
func requirePlayer() (string, error) {
	if playerKey == "" {
		return "", fmt.Errorf("--player flag is required (or set COLONY_PLAYER)")
	}
	return playerKey, nil
}
