// Package cache provides commands for inspecting the local submission cache.
package cache

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/tickwatch/internal/runtime"
)

// Command creates and returns the cache command
func Command(getEnv runtime.EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear sightings saved locally",
	}
	cmd.AddCommand(listCommand(getEnv), clearCommand(getEnv))
	return cmd
}

func listCommand(getEnv runtime.EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print locally saved sightings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := getEnv().Cache.LoadAll(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		},
	}
}

func clearCommand(getEnv runtime.EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all locally saved sightings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getEnv().Cache.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Local cache cleared")
			return err
		},
	}
}
