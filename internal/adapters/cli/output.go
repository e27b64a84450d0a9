package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/colony-engine/internal/domain/rules"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow)
	mutedColor   = color.New(color.Faint)
)

// wantsYAML reports whether --output yaml was requested
func wantsYAML() bool {
	return outputFormat == "yaml"
}

// printYAML writes v as a YAML document
func printYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// printTable renders rows under header
func printTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader(header),
	)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append table row: %w", err)
		}
	}
	return table.Render()
}

func printTitle(w io.Writer, title string) {
	titleColor.Fprintln(w, title)
}

func formatCost(c rules.Cost) string {
	if c.IsZero() {
		return "-"
	}
	parts := make([]string, 0, 3)
	if c.Metal != 0 {
		parts = append(parts, fmt.Sprintf("M:%d", c.Metal))
	}
	if c.Crystal != 0 {
		parts = append(parts, fmt.Sprintf("C:%d", c.Crystal))
	}
	if c.Deuterium != 0 {
		parts = append(parts, fmt.Sprintf("D:%d", c.Deuterium))
	}
	return strings.Join(parts, " ")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

// formatDuration prints whole seconds: 1h2m3s, never fractions
func formatDuration(d time.Duration) string {
	return d.Round(time.Second).String()
}

// parseDate accepts YYYY-MM-DD or RFC3339. endOfDay extends a bare date to 23:59:59.
func parseDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC3339", value)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}
