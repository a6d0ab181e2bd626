package providers

import (
	"log/slog"

	"github.com/km-arc/go-state/framework/config"
	"github.com/km-arc/go-state/framework/container"
	"github.com/km-arc/go-state/framework/logging"
	"github.com/km-arc/go-state/framework/routing"
	"github.com/km-arc/go-state/framework/state"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the configuration from .env and the environment.
//
// Bound abstracts:
//   - "config" → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) any {
		return config.MustLoad(envFiles...)
	})
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider builds the structured logger from "config".
//
// Bound abstracts:
//   - "logger" → *slog.Logger
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(app *container.Container) {
	app.Singleton("logger", func(c *container.Container) any {
		cfg := container.Resolve[*config.Config](c, "config")
		return logging.New(logging.Config{
			Level:  logging.ParseLevel(cfg.Log.Level),
			Format: logging.ParseFormat(cfg.Log.Format),
		})
	})
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Every request runs in its
// own container scope, behind a serializer that is off until enabled.
//
// Bound abstracts:
//   - "router"            → *routing.Router
//   - "router.serializer" → *routing.Serializer
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Instance("router.serializer", &routing.Serializer{})
	app.Singleton("router", func(c *container.Container) any {
		r := routing.New()
		r.Middleware(
			container.Resolve[*routing.Serializer](c, "router.serializer").Middleware,
			routing.ScopeMiddleware(c, container.Resolve[*slog.Logger](c, "logger")),
		)
		return r
	})
}

// ── StateServiceProvider ──────────────────────────────────────────────────────

// StateServiceProvider registers the state containers of Unit. The host mode
// and folder come from "config"; Options are applied after them.
//
// Bound abstracts: one per state container, keyed by container.TypeKey and
// tagged state.Tag.
type StateServiceProvider struct {
	container.BaseProvider
	Unit    *state.Unit
	Options []state.Option
}

// Register is a no-op: registration depends on the loaded configuration and
// happens in Boot.
func (p *StateServiceProvider) Register(_ *container.Container) {}

func (p *StateServiceProvider) Boot(app *container.Container) {
	cfg := container.Resolve[*config.Config](app, "config")
	logger := container.Resolve[*slog.Logger](app, "logger")

	mode, err := state.ParseHostMode(cfg.State.HostMode)
	if err != nil {
		logger.Warn("falling back to automatic host mode", slog.Any("error", err))
	}

	opts := append([]state.Option{
		state.WithHostMode(mode),
		state.WithFolder(cfg.State.Folder),
		state.WithLogger(logger),
	}, p.Options...)

	settings := state.ResolveOptions(opts...)
	regs := state.RegisterStateContainersReport(app, p.Unit, opts...)
	logger.Info("state containers registered",
		slog.Int("count", len(regs)),
		slog.Bool("browser", settings.HostMode.IsBrowser()),
	)

	// Browser-mode containers are process-wide and assume one UI thread.
	if settings.HostMode.IsBrowser() && !state.RunningInBrowser() && app.Bound("router.serializer") {
		container.Resolve[*routing.Serializer](app, "router.serializer").Enable()
		logger.Warn("browser host mode on a native server: requests are serialized")
	}

	app.AfterResolving(func(abstract string, instance any) {
		sc, ok := instance.(state.StateContainer)
		if !ok {
			return
		}
		sc.Subscribe(func() {
			logger.Debug("state changed", slog.String("container", abstract))
		})
	})
}
