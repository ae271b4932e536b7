package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/tickwatch/cmd/cache"
	"github.com/tphakala/tickwatch/cmd/report"
	"github.com/tphakala/tickwatch/cmd/serve"
	"github.com/tphakala/tickwatch/cmd/share"
	"github.com/tphakala/tickwatch/cmd/sightings"
	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/runtime"
)

// skipLoad marks commands that do not need the working set.
const skipLoad = "skip-load"

// RootCommand creates and returns the root command
func RootCommand(rc *runtime.Context) *cobra.Command {
	var (
		configFile string
		env        *runtime.Env
	)
	getEnv := runtime.EnvFunc(func() *runtime.Env { return env })

	rootCmd := &cobra.Command{
		Use:          "tickwatch",
		Short:        "UK tick sightings map, list and reporting client",
		Version:      fmt.Sprintf("%s (built %s)", rc.Version, rc.BuildDate),
		SilenceUsage: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, &configFile); err != nil {
		panic(err)
	}

	cacheCmd := cache.Command(getEnv)
	serveCmd := serve.Command(getEnv)
	markSkipLoad(cacheCmd)

	rootCmd.AddCommand(
		sightings.ListCommand(getEnv),
		sightings.MarkersCommand(getEnv),
		sightings.ShowCommand(getEnv),
		sightings.TimelineCommand(getEnv),
		sightings.SeasonalCommand(getEnv),
		report.Command(getEnv),
		share.Command(getEnv),
		cacheCmd,
		serveCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		settings, err := conf.Load(configFile)
		if err != nil {
			return err
		}
		env, err = runtime.Open(rc, settings, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if cmd.Annotations[skipLoad] == "true" {
			return nil
		}
		_, err = env.Load(cmd.Context())
		return err
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if env == nil {
			return nil
		}
		return env.Close()
	}

	return rootCmd
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context, rc *runtime.Context) error {
	return RootCommand(rc).ExecuteContext(ctx)
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, configFile *string) error {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(configFile, "config", "c", "", "Path to config.yaml (default: search standard locations)")
	flags.BoolP("debug", "d", false, "Enable debug output")
	flags.String("api-url", conf.DefaultBaseURL, "Base URL of the sightings API")

	for key, flag := range map[string]string{
		"debug":           "debug",
		"remote.base_url": "api-url",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("error binding flag %s: %w", flag, err)
		}
	}
	return nil
}

func markSkipLoad(cmd *cobra.Command) {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[skipLoad] = "true"
	for _, sub := range cmd.Commands() {
		markSkipLoad(sub)
	}
}
