package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

// NewCatalogCommand creates the catalog command. It needs no database.
func NewCatalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [track]",
		Short: "Show base costs, times and requirements of every buildable kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tracks []rules.Track
			if len(args) == 1 {
				t, err := rules.ParseTrack(args[0])
				if err != nil {
					return err
				}
				tracks = append(tracks, t)
			}
			return printCatalog(cmd.OutOrStdout(), rules.Catalog(tracks...))
		},
	}
}

// catalogRow is the YAML shape of a catalog entry
type catalogRow struct {
	Track        string              `yaml:"track"`
	Kind         string              `yaml:"kind"`
	BaseCost     rules.Cost          `yaml:"base_cost"`
	BaseSeconds  int64               `yaml:"base_seconds"`
	Requirements []string            `yaml:"requirements,omitempty"`
	Production   *rules.Production   `yaml:"production_level_1,omitempty"`
	Stats        *rules.DefenseStats `yaml:"stats,omitempty"`
	Unique       bool                `yaml:"unique,omitempty"`
}

func toCatalogRow(e rules.CatalogEntry) catalogRow {
	reqs := make([]string, 0, len(e.Requirements))
	for _, r := range e.Requirements {
		reqs = append(reqs, r.String())
	}
	return catalogRow{
		Track:        e.Track.String(),
		Kind:         e.Kind.String(),
		BaseCost:     e.BaseCost,
		BaseSeconds:  int64(e.BaseTime.Seconds()),
		Requirements: reqs,
		Production:   e.Production,
		Stats:        e.Stats,
		Unique:       e.Unique,
	}
}

func printCatalog(w io.Writer, entries []rules.CatalogEntry) error {
	rows := make([]catalogRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toCatalogRow(e))
	}

	if wantsYAML() {
		return printYAML(w, rows)
	}

	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{
			r.Track,
			r.Kind,
			formatCost(r.BaseCost),
			fmt.Sprintf("%ds", r.BaseSeconds),
			strings.Join(r.Requirements, ", "),
		})
	}
	return printTable(w, []string{"Track", "Kind", "Base Cost", "Base Time", "Requires"}, table)
}
