package runtime

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tphakala/tickwatch/internal/app"
	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/localcache"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/mqtt"
	"github.com/tphakala/tickwatch/internal/observability"
	"github.com/tphakala/tickwatch/internal/remote"
	"github.com/tphakala/tickwatch/internal/report"
	"github.com/tphakala/tickwatch/internal/share"
)

const sentryFlushTimeout = 2 * time.Second

// Env holds the assembled components for one command invocation.
type Env struct {
	Context  *Context
	Settings *conf.Settings
	Metrics  *observability.Metrics
	Cache    *localcache.Cache
	Remote   *remote.Client
	Share    *share.Chain
	App      *app.App

	mqtt   mqtt.Client
	logger *logger.CentralLogger
	log    logger.Logger
}

// Open builds every component from settings. Share output that falls
// through to the writer publisher goes to out.
func Open(rc *Context, settings *conf.Settings, out io.Writer) (*Env, error) {
	env := &Env{Context: rc, Settings: settings}

	if err := env.initLogging(); err != nil {
		return nil, err
	}
	env.log = logger.Global().Module("runtime")

	if settings.Sentry.Enabled {
		if err := errors.InitSentry(settings.Sentry.DSN, "tickwatch@"+rc.Version); err != nil {
			env.log.Warn("error telemetry disabled", logger.Error(err))
		}
	}

	m, err := observability.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}
	env.Metrics = m

	env.Cache, err = localcache.Open(&settings.Cache, localcache.WithMetrics(m.LocalCache))
	if err != nil {
		return nil, err
	}

	env.Remote = remote.New(&settings.Remote, remote.WithMetrics(m.Sightings))
	env.Share, env.mqtt = share.NewChainFromSettings(&settings.Share, out, m.MQTT)

	env.App = app.New(env.Remote, env.Cache,
		app.WithPolicy(report.NewPolicy(&settings.Submission)),
		app.WithMetrics(m.Sightings),
		app.WithSharer(env.Share),
	)

	env.log.Debug("environment ready",
		logger.String("version", rc.Version),
		logger.String("api", settings.Remote.BaseURL),
		logger.String("cache_backend", settings.Cache.Backend),
		logger.String("share_method", settings.Share.Method))
	return env, nil
}

func (e *Env) initLogging() error {
	cfg := e.Settings.Logging
	if e.Settings.Debug {
		cfg.DefaultLevel = string(logger.LogLevelDebug)
	}
	cl, err := logger.NewCentralLogger(&cfg)
	if err != nil {
		return errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	logger.SetGlobal(cl)
	e.logger = cl
	return nil
}

// Load refreshes the working set, logging a fetch failure that caused the
// built-in dataset to be used.
func (e *Env) Load(ctx context.Context) (app.Outcome, error) {
	out, err := e.App.Refresh(ctx)
	if out.FetchErr != nil {
		e.log.Warn("remote sightings unavailable, using built-in dataset", logger.Error(out.FetchErr))
	}
	return out, err
}

// Close releases every component in reverse order of creation.
func (e *Env) Close() error {
	var errs []error
	if e.mqtt != nil {
		e.mqtt.Disconnect()
	}
	if e.Remote != nil {
		e.Remote.Close()
	}
	if e.Cache != nil {
		if err := e.Cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	errors.FlushSentry(sentryFlushTimeout)
	if e.logger != nil {
		if err := e.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EnvFunc returns the environment once the root command has prepared it.
type EnvFunc func() *Env
