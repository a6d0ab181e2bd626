package container

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider groups related bindings.
//
// Register is called as soon as the provider is added. Boot is called after
// every provider has registered, so it may resolve other bindings.
//
//	type StateServiceProvider struct{ container.BaseProvider }
//
//	func (p *StateServiceProvider) Register(app *container.Container) {
//	    app.Scoped("cart", func(c *container.Container) any { return &Cart{} })
//	}
type ServiceProvider interface {
	// Register binds services into the container. Do not resolve here.
	Register(app *Container)

	// Boot runs after all providers are registered.
	Boot(app *Container)

	// Provides lists the abstracts a deferred provider binds.
	Provides() []string

	// IsDeferred makes the provider register lazily, on the first Make of
	// one of its Provides() abstracts.
	IsDeferred() bool
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op implementation of Boot, Provides and
// IsDeferred.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container)  {}
func (p *BaseProvider) Provides() []string { return nil }
func (p *BaseProvider) IsDeferred() bool   { return false }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders, loading deferred
// providers on demand.
type ProviderRegistry struct {
	app        *Container
	eager      []ServiceProvider
	booted     bool
	registered map[ServiceProvider]bool
	loaded     map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
		loaded:     make(map[ServiceProvider]bool),
	}
}

// Register adds a provider. Eager providers register immediately and, when
// the registry has already booted, boot immediately too. Adding the same
// provider twice is a no-op.
func (r *ProviderRegistry) Register(provider ServiceProvider) {
	if r.registered[provider] {
		return
	}
	r.registered[provider] = true

	if provider.IsDeferred() {
		r.interceptDeferred(provider)
		return
	}

	provider.Register(r.app)
	r.eager = append(r.eager, provider)

	if r.booted {
		provider.Boot(r.app)
	}
}

// interceptDeferred defers every abstract the provider provides. The first
// resolution of any of them, from the container or a Scope, loads the
// provider before the binding is looked up.
func (r *ProviderRegistry) interceptDeferred(provider ServiceProvider) {
	for _, abstract := range provider.Provides() {
		r.app.Defer(abstract, func() { r.load(provider) })
	}
}

func (r *ProviderRegistry) load(provider ServiceProvider) {
	if r.loaded[provider] {
		return
	}
	r.loaded[provider] = true
	provider.Register(r.app)
	if r.booted {
		provider.Boot(r.app)
	}
}

// Boot calls Boot on all eager providers. Later calls are no-ops.
func (r *ProviderRegistry) Boot() {
	if r.booted {
		return
	}
	r.booted = true
	for _, provider := range r.eager {
		provider.Boot(r.app)
	}
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns all registered eager providers.
func (r *ProviderRegistry) Providers() []ServiceProvider { return r.eager }
