// Package share provides the share command.
package share

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tphakala/tickwatch/internal/runtime"
)

// Command creates and returns the share command
func Command(getEnv runtime.EnvFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "share [id]",
		Short: "Share a sighting using the configured share method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := getEnv().App.Share(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.Via == "clipboard" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Link copied to clipboard")
				return err
			}
			if res.Via == "stdout" {
				return nil
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Shared via %s\n", res.Via)
			return err
		},
	}
}
