package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-engine/internal/application/colony/commands"
	"github.com/andrescamacho/colony-engine/internal/application/colony/queries"
)

// NewTrackCommand creates the track command with subcommands
func NewTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Facilities, research and defense build queues",
		Long: `List, start and cancel builds on the three tracks.

Tracks:
  facilities  - production and infrastructure buildings, one level at a time
  research    - technologies, one research at a time per colony
  defense     - defensive units, built in batches

Examples:
  colonyctl track list research --player 0xabc
  colonyctl track build facilities solar_plant --player 0xabc
  colonyctl track build defense rocket_launcher --amount 50 --player 0xabc
  colonyctl track cancel facilities solar_plant --player 0xabc`,
	}

	cmd.AddCommand(newTrackListCommand())
	cmd.AddCommand(newTrackBuildCommand())
	cmd.AddCommand(newTrackCancelCommand())

	return cmd
}

func newTrackListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <track>",
		Short: "List every kind of a track with levels and next-build quotes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &queries.GetTrackQuery{PlayerKey: player, Track: args[0]})
				if err != nil {
					return err
				}
				return printTrack(cmd.OutOrStdout(), resp.(*queries.GetTrackResponse))
			})
		},
	}
}

func newTrackBuildCommand() *cobra.Command {
	var amount int

	cmd := &cobra.Command{
		Use:   "build <track> <kind>",
		Short: "Start a build, charging its cost up front",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &commands.StartBuildCommand{
					PlayerKey: player,
					Track:     args[0],
					Kind:      args[1],
					Amount:    amount,
				})
				if err != nil {
					return err
				}
				started := resp.(*commands.StartBuildResponse)
				if wantsYAML() {
					return printYAML(cmd.OutOrStdout(), started)
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ Started %s %s x%d\n",
					started.Record.Track, started.Record.Kind, started.Record.InProgressAmount)
				fmt.Fprintf(cmd.OutOrStdout(), "  Cost:      %s\n", formatCost(started.Cost))
				fmt.Fprintf(cmd.OutOrStdout(), "  Duration:  %s\n", formatDuration(started.Duration))
				fmt.Fprintf(cmd.OutOrStdout(), "  Completes: %s\n", formatTime(started.Record.CompletesAt))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&amount, "amount", "n", 1, "Units to build (defense only)")

	return cmd
}

func newTrackCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <track> <kind>",
		Short: "Cancel an in-progress build and refund part of its cost",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := requirePlayer()
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app) error {
				resp, err := a.send(ctx, &commands.CancelBuildCommand{
					PlayerKey: player,
					Track:     args[0],
					Kind:      args[1],
				})
				if err != nil {
					return err
				}
				cancelled := resp.(*commands.CancelBuildResponse)
				if wantsYAML() {
					return printYAML(cmd.OutOrStdout(), cancelled)
				}
				successColor.Fprintf(cmd.OutOrStdout(), "✓ Cancelled %s %s x%d\n",
					cancelled.Record.Track, cancelled.Record.Kind, cancelled.Amount)
				fmt.Fprintf(cmd.OutOrStdout(), "  Refund: %s\n", formatCost(cancelled.Refund))
				return nil
			})
		},
	}
}

func printTrack(w io.Writer, resp *queries.GetTrackResponse) error {
	if wantsYAML() {
		return printYAML(w, resp)
	}

	countHeader := "Level"
	if resp.Track == "defense" {
		countHeader = "Units"
	}
	printTitle(w, fmt.Sprintf("Track: %s", resp.Track))

	rows := make([][]string, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		status := "idle"
		if e.InProgressAmount > 0 {
			status = fmt.Sprintf("building x%d until %s", e.InProgressAmount, formatTime(e.CompletesAt))
		} else if !e.RequirementsMet {
			status = mutedColor.Sprintf("needs %s", e.UnmetRequirement)
		}
		rows = append(rows, []string{
			e.Kind,
			fmt.Sprintf("%d", e.Count),
			formatCost(e.Cost),
			formatDuration(e.Duration),
			status,
		})
	}
	if err := printTable(w, []string{"Kind", countHeader, "Next Cost", "Duration", "Status"}, rows); err != nil {
		return err
	}

	if resp.ActiveResearch != nil {
		fmt.Fprintf(w, "Active research: %s (completes %s)\n",
			resp.ActiveResearch.Kind, formatTime(resp.ActiveResearch.CompletesAt))
	}
	if resp.Track == "defense" {
		fmt.Fprintf(w, "Defense power: %d\n", resp.DefensePower)
	}
	return nil
}
