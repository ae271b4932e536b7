package sightings

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tphakala/tickwatch/internal/render"
	"github.com/tphakala/tickwatch/internal/runtime"
)

// ShowCommand creates the show command.
func ShowCommand(getEnv runtime.EnvFunc) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show sighting details and recent activity at the same location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getEnv().App
			d, err := a.Select(args[0])
			if err != nil {
				return err
			}
			directions, err := a.Directions(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{"details": d, "directions": directions})
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Species:\t%s\n", d.Species)
			fmt.Fprintf(tw, "Latin name:\t%s\n", d.LatinName)
			fmt.Fprintf(tw, "Location:\t%s\n", d.Location)
			fmt.Fprintf(tw, "Date:\t%s\n", d.Date)
			fmt.Fprintf(tw, "Time:\t%s\n", d.Time)
			fmt.Fprintf(tw, "Severity:\t%s\n", d.Severity)
			if d.Notes != "" {
				fmt.Fprintf(tw, "Notes:\t%s\n", d.Notes)
			}
			fmt.Fprintf(tw, "Directions:\t%s\n", directions)
			if err := tw.Flush(); err != nil {
				return err
			}
			return printTimeline(cmd, d.Location, d.Timeline)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

// TimelineCommand creates the timeline command.
func TimelineCommand(getEnv runtime.EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [location]",
		Short: "Show the most recent sightings at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := getEnv().App.Timeline(args[0])
			if len(entries) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Not enough sightings in %s for a timeline.\n", args[0])
				return err
			}
			return printTimeline(cmd, args[0], entries)
		},
	}
}

func printTimeline(cmd *cobra.Command, location string, entries []render.TimelineEntry) error {
	if len(entries) == 0 {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nRecent activity in %s:\n", location)
	for _, e := range entries {
		if _, err := fmt.Fprintf(out, "  %s  %s\n", e.Date, e.Text); err != nil {
			return err
		}
	}
	return nil
}

// SeasonalCommand creates the seasonal command.
func SeasonalCommand(getEnv runtime.EnvFunc) *cobra.Command {
	var (
		city   string
		year   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "seasonal",
		Short: "Show sightings per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yearStr := ""
			if year > 0 {
				yearStr = strconv.Itoa(year)
			}
			chart := getEnv().App.Seasonal(city, yearStr)
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, chart)
			}
			fmt.Fprintln(out, chart.Title)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, label := range chart.Labels {
				fmt.Fprintf(tw, "%s\t%d\n", label, chart.Counts[i])
			}
			fmt.Fprintf(tw, "Total\t%d\n", chart.Total)
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&city, "city", "", "Restrict to one location")
	cmd.Flags().IntVar(&year, "year", 0, "Restrict to one year")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
