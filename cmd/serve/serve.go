// Package serve provides the command that runs the HTTP API.
package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/tickwatch/internal/api"
	"github.com/tphakala/tickwatch/internal/runtime"
)

// Command creates and returns the serve command
func Command(getEnv runtime.EnvFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sightings API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := getEnv()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.New(env.App, env.Settings,
				api.WithMetrics(env.Metrics),
				api.WithVersion(env.Context.Version),
			)
			return server.Run(ctx)
		},
	}

	cmd.Flags().String("listen", "", "Listen address, overrides webserver.listen")
	_ = viper.BindPFlag("webserver.listen", cmd.Flags().Lookup("listen"))

	return cmd
}
