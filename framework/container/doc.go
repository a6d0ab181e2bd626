// Package container provides the IoC container and service provider system
// used to construct state containers and the rest of the application.
//
// # Lifetimes
//
//	// Transient: new instance every Make()
//	c.Bind("clock", func(c *container.Container) any { return time.Now })
//
//	// Singleton: created once, reused
//	c.Singleton("logger", func(c *container.Container) any {
//	    return logging.New(logging.DefaultConfig())
//	})
//
//	// Scoped: created once per Scope
//	c.Scoped("cart", func(c *container.Container) any { return &Cart{} })
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
// # Scopes
//
// Scoped bindings must be resolved through a Scope. The routing package opens
// one per HTTP request and stores it in the request context:
//
//	scope := c.NewScope()
//	defer scope.Close()
//	cart := container.ResolveScoped[*Cart](scope, "cart")
//
// Closing a scope closes every scoped instance that implements io.Closer.
//
// # Resolving
//
//	raw := c.Make("logger")
//	logger := container.Resolve[*slog.Logger](c, "logger")
//
// Make panics when nothing is bound, and when a scoped abstract is resolved
// from the root container.
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(c *container.Container) any { ... })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
package container
