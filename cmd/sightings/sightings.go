// Package sightings provides the read-only commands over the working set.
package sightings

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tphakala/tickwatch/internal/filter"
	"github.com/tphakala/tickwatch/internal/runtime"
	"github.com/tphakala/tickwatch/internal/sighting"
)

func addFilterFlags(cmd *cobra.Command, c *filter.Criteria, severity *string) {
	cmd.Flags().StringVar(&c.DatePrefix, "date", "", "Date prefix, e.g. 2024 or 2024-06")
	cmd.Flags().StringVar(&c.Species, "species", "", "Exact species name")
	cmd.Flags().StringVar(severity, "severity", "", "Severity: Low, Medium, High, Older or Recent")
}

// ListCommand creates the list command.
func ListCommand(getEnv runtime.EnvFunc) *cobra.Command {
	var (
		criteria filter.Criteria
		severity string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sightings matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria.Severity = sighting.Severity(severity)
			view, err := getEnv().App.ViewFor(criteria)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, view.List)
			}
			if len(view.List) == 0 {
				_, err := fmt.Fprintln(out, "No sightings match the current filters.")
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDATE\tLOCATION\tSPECIES\tSEVERITY")
			for _, e := range view.List {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Location, e.Species, e.Severity)
			}
			return tw.Flush()
		},
	}
	addFilterFlags(cmd, &criteria, &severity)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// MarkersCommand creates the markers command.
func MarkersCommand(getEnv runtime.EnvFunc) *cobra.Command {
	var (
		criteria filter.Criteria
		severity string
	)
	cmd := &cobra.Command{
		Use:   "markers",
		Short: "Print map markers for the filtered sightings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria.Severity = sighting.Severity(severity)
			view, err := getEnv().App.ViewFor(criteria)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"center":  view.Center,
				"zoom":    view.Zoom,
				"markers": view.Markers,
				"skipped": view.Skipped,
			})
		},
	}
	addFilterFlags(cmd, &criteria, &severity)
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
