package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	appColony "github.com/andrescamacho/colony-engine/internal/application/colony"
	"github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	"github.com/andrescamacho/colony-engine/internal/application/colony/queries"
)

// NewPlayerCommand creates the player command with subcommands
func NewPlayerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player colony management",
		Long: `Create colonies and inspect or adjust their resource ledgers.

A colony is also created with default resources the first time any other
command references the player, so init is only needed to fail loudly on
an existing player.

Examples:
  colonyctl player init --player 0xabc
  colonyctl player resources --player 0xabc -o yaml
  colonyctl player grant --player 0xabc --metal 5000 --reason "event reward"`,
	}

	cmd.AddCommand(newPlayerInitCommand())
	cmd.AddCommand(newPlayerResourcesCommand())
	cmd.AddCommand(newPlayerGrantCommand())

	return cmd
}

func newPlayerInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a player's colony with default resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &commands.InitPlayerCommand{PlayerKey: player})
				if err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ Colony created for %s\n", player)
				return printResources(cmd.OutOrStdout(), resp.(*commands.InitPlayerResponse).Resources)
			})
		},
	}
}

func newPlayerResourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "Show a player's stock, rates and energy balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &queries.GetResourcesQuery{PlayerKey: player})
				if err != nil {
					return err
				}
				return printResources(cmd.OutOrStdout(), resp.(*queries.GetResourcesResponse).Resources)
			})
		},
	}
}

func newPlayerGrantCommand() *cobra.Command {
	var (
		metal     int64
		crystal   int64
		deuterium int64
		reason    string
	)

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Credit resources to a player (clamped to storage)",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &commands.GrantResourcesCommand{
					PlayerKey: player,
					Metal:     metal,
					Crystal:   crystal,
					Deuterium: deuterium,
					Reason:    reason,
				})
				if err != nil {
					return err
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ Granted metal=%d crystal=%d deuterium=%d\n", metal, crystal, deuterium)
				return printResources(cmd.OutOrStdout(), resp.(*commands.GrantResourcesResponse).Resources)
			})
		},
	}

	cmd.Flags().Int64Var(&metal, "metal", 0, "Metal to credit")
	cmd.Flags().Int64Var(&crystal, "crystal", 0, "Crystal to credit")
	cmd.Flags().Int64Var(&deuterium, "deuterium", 0, "Deuterium to credit")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the ledger")

	return cmd
}

func printResources(w io.Writer, r *appColony.ResourcesDTO) error {
	if wantsYAML() {
		return printYAML(w, r)
	}

	printTitle(w, fmt.Sprintf("Resources of %s (as of %s)", r.PlayerKey, formatTime(&r.LastUpdate)))
	err := printTable(w, []string{"Resource", "Stock", "Storage", "Rate/h"}, [][]string{
		{"Metal", fmt.Sprintf("%.0f", r.Metal), fmt.Sprintf("%.0f", r.StorageMetal), fmt.Sprintf("%.0f", r.MetalRate)},
		{"Crystal", fmt.Sprintf("%.0f", r.Crystal), fmt.Sprintf("%.0f", r.StorageCrystal), fmt.Sprintf("%.0f", r.CrystalRate)},
		{"Deuterium", fmt.Sprintf("%.0f", r.Deuterium), fmt.Sprintf("%.0f", r.StorageDeuterium), fmt.Sprintf("%.0f", r.DeuteriumRate)},
	})
	if err != nil {
		return err
	}

	energy := fmt.Sprintf("Energy: %d / %d (%+d, %s)\n",
		r.EnergyProduction, r.EnergyConsumption, r.EnergyBalance, r.EnergyState)
	if r.EnergyBalance < 0 {
		warnColor.Fprint(w, energy)
	} else {
		fmt.Fprint(w, energy)
	}
	return nil
}
