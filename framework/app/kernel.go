package app

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/km-arc/go-state/framework/config"
	"github.com/km-arc/go-state/framework/container"
	"github.com/km-arc/go-state/framework/providers"
	"github.com/km-arc/go-state/framework/routing"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application with the framework providers registered.
func New(envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.LoggingServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Logger resolves *slog.Logger from the container.
func (a *Application) Logger() *slog.Logger {
	return container.Resolve[*slog.Logger](a.Container, "logger")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Handler boots the application if needed and returns its HTTP handler.
func (a *Application) Handler() http.Handler {
	if !a.Providers.Booted() {
		a.Boot()
	}
	return a.Router()
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	handler := a.Handler()
	cfg := a.Config()
	addr := ":" + cfg.App.Port

	a.Logger().Info("server starting",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("addr", addr),
	)
	if err := http.ListenAndServe(addr, handler); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
