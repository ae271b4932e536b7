// Package report provides the command for submitting a new sighting.
package report

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/tickwatch/internal/errors"
	ireport "github.com/tphakala/tickwatch/internal/report"
	"github.com/tphakala/tickwatch/internal/runtime"
)

// Command creates and returns the report command
func Command(getEnv runtime.EnvFunc) *cobra.Command {
	var (
		form      ireport.Form
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Report a new tick sighting",
		Long: `Report sends a sighting to the remote service. When the service is
unavailable the sighting is kept in the local cache and shown with the
other sightings until it can be delivered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if imagePath != "" {
				info, err := os.Stat(imagePath)
				if err != nil {
					return errors.New(err).
						Component("report").
						Category(errors.CategoryFileIO).
						Context("path", imagePath).
						Build()
				}
				form.ImageSize = info.Size()
			}

			res, err := getEnv().App.Submit(cmd.Context(), &form)
			if fields := ireport.Fields(err); len(fields) > 0 {
				for _, fe := range fields {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", fe.Field, fe.Message)
				}
				return fmt.Errorf("sighting not submitted")
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (id %s)\n", res.Message, res.Sighting.ID)
			return err
		},
	}

	now := time.Now()
	cmd.Flags().StringVar(&form.Date, "date", now.Format(time.DateOnly), "Date of the sighting (YYYY-MM-DD)")
	cmd.Flags().StringVar(&form.Time, "time", now.Format("15:04"), "Time of the sighting (HH:MM)")
	cmd.Flags().StringVar(&form.Location, "location", "", "Town or city")
	cmd.Flags().StringVar(&form.Species, "species", "", "Tick species")
	cmd.Flags().StringVar(&form.Severity, "severity", "", "Severity: Low, Medium or High")
	cmd.Flags().StringVar(&form.Notes, "notes", "", "Optional notes")
	cmd.Flags().StringVar(&imagePath, "image", "", "Optional photo; only its size is checked")

	return cmd
}
