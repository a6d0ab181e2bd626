package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) any

// Lifetime controls how long a resolved instance is reused.
type Lifetime int

const (
	// Transient builds a new instance on every Make.
	Transient Lifetime = iota
	// Singleton builds once per container and reuses the instance.
	Singleton
	// Scoped builds once per Scope. It cannot be resolved from the root.
	Scoped
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	default:
		return "transient"
	}
}

// ErrScopedFromRoot is the panic value (wrapped) when a scoped abstract is
// resolved outside of a Scope.
var ErrScopedFromRoot = errors.New("container: scoped binding resolved from root container")

// binding holds a registered factory and its lifetime.
type binding struct {
	factory  Factory
	lifetime Lifetime
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container.
//
// It supports:
//   - Bind / Singleton / Scoped / Instance / Alias
//   - Make / Resolve (generic), NewScope for per-request resolution
//   - Tags (group multiple abstractions under one tag)
//   - Rebound and resolved callbacks
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// tag → []abstract
	tags map[string][]string

	// abstract → loader of the deferred provider that binds it
	deferred map[string]func()

	reboundCallbacks map[string][]func(any)
	afterResolving   []func(string, any)
}

// New creates an empty container.
func New() *Container {
	c := &Container{
		bindings:         make(map[string]*binding),
		instances:        make(map[string]any),
		aliases:          make(map[string]string),
		tags:             make(map[string][]string),
		deferred:         make(map[string]func()),
		reboundCallbacks: make(map[string][]func(any)),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory.
//
//	c.Bind("clock", func(c *container.Container) any { return time.Now })
func (c *Container) Bind(abstract string, factory Factory) {
	c.Register(abstract, factory, Transient)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("logger", func(c *container.Container) any {
//	    return logging.New(logging.DefaultConfig())
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.Register(abstract, factory, Singleton)
}

// Scoped registers a factory resolved once per Scope.
//
//	c.Scoped("cart", func(c *container.Container) any { return &Cart{} })
//	scope := c.NewScope()
//	defer scope.Close()
//	cart := container.ResolveScoped[*Cart](scope, "cart")
func (c *Container) Scoped(abstract string, factory Factory) {
	c.Register(abstract, factory, Scoped)
}

// Register binds factory with an explicit lifetime.
func (c *Container) Register(abstract string, factory Factory, lifetime Lifetime) {
	c.mu.Lock()
	key := c.canonical(abstract)

	// Drop an existing singleton so it's rebuilt with the new factory.
	_, wasResolved := c.instances[key]
	delete(c.instances, key)

	c.bindings[key] = &binding{factory: factory, lifetime: lifetime}
	c.mu.Unlock()

	if wasResolved && lifetime != Scoped {
		c.fireRebound(abstract, c.make(abstract))
	}
}

// Instance registers a pre-built value as a singleton.
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
	c.mu.Unlock()

	c.fireRebound(abstract, instance)
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// Defer registers loader to run before abstract is first resolved, from the
// container or from any Scope. The loader is expected to bind abstract.
func (c *Container) Defer(abstract string, loader func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deferred[c.canonical(abstract)] = loader
}

// loadDeferred runs and forgets the loader pending for abstract, if any.
func (c *Container) loadDeferred(abstract string) {
	c.mu.Lock()
	key := c.canonical(abstract)
	loader, ok := c.deferred[key]
	delete(c.deferred, key)
	c.mu.Unlock()

	if ok {
		loader()
	}
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// TaggedKeys returns the abstracts registered under tag.
func (c *Container) TaggedKeys(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.tags[tag]...)
}

// Tagged resolves all abstracts registered under a tag. Scoped abstracts
// panic here; resolve them through Scope.Tagged instead.
func (c *Container) Tagged(tag string) []any {
	abstracts := c.TaggedKeys(tag)
	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		result = append(result, c.make(abs))
	}
	return result
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container. It panics when nothing is
// bound or when the binding is scoped.
func (c *Container) Make(abstract string) any {
	return c.make(abstract)
}

func (c *Container) make(abstract string) any {
	c.loadDeferred(abstract)

	c.mu.RLock()
	key := c.canonical(abstract)
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst
	}
	b, ok := c.bindings[key]
	c.mu.RUnlock()

	if !ok {
		panic(fmt.Sprintf("container: no binding registered for [%s]", abstract))
	}
	if b.lifetime == Scoped {
		panic(fmt.Errorf("%w: [%s]", ErrScopedFromRoot, abstract))
	}

	return c.build(key, b)
}

// build executes a factory, caching singleton results.
func (c *Container) build(key string, b *binding) any {
	instance := b.factory(c)

	if b.lifetime == Singleton {
		c.mu.Lock()
		// Another goroutine may have won the race; keep the first instance.
		if existing, ok := c.instances[key]; ok {
			c.mu.Unlock()
			return existing
		}
		c.instances[key] = instance
		c.mu.Unlock()
	}

	c.fireAfterResolving(key, instance)
	return instance
}

// lookup returns the canonical key and binding for abstract.
func (c *Container) lookup(abstract string) (string, *binding, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	b, ok := c.bindings[key]
	return key, b, ok
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	_, isDeferred := c.deferred[key]
	return hasBinding || hasInstance || isDeferred
}

// Resolved returns true if a shared instance of the abstract exists.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.instances[c.canonical(abstract)]
	return ok
}

// LifetimeOf reports the lifetime of abstract. Instances count as singletons.
func (c *Container) LifetimeOf(abstract string) (Lifetime, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	if b, ok := c.bindings[key]; ok {
		return b.lifetime, true
	}
	if _, ok := c.instances[key]; ok {
		return Singleton, true
	}
	return Transient, false
}

// Forget removes all registrations for an abstract (binding + instance).
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
	delete(c.deferred, key)
}

// Flush resets the entire container.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.tags = make(map[string][]string)
	c.deferred = make(map[string]func())
}

// Bindings returns all registered abstract keys (for debugging).
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	return out
}

// canonical resolves an alias to its canonical key (caller holds mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Callbacks ─────────────────────────────────────────────────────────────────

// Rebinding registers a callback to be called whenever an abstract is re-bound.
func (c *Container) Rebinding(abstract string, cb func(any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reboundCallbacks[abstract] = append(c.reboundCallbacks[abstract], cb)
}

// AfterResolving registers a callback fired after any factory runs,
// including factories run by a Scope.
func (c *Container) AfterResolving(cb func(abstract string, instance any)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

func (c *Container) fireRebound(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.reboundCallbacks[abstract]
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(instance)
	}
}

func (c *Container) fireAfterResolving(abstract string, instance any) {
	c.mu.RLock()
	cbs := c.afterResolving
	c.mu.RUnlock()
	for _, cb := range cbs {
		cb(abstract, instance)
	}
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// abstract key.
//
//	key := container.TypeKey((*Counter)(nil))  // "example.com/shop/statecontainers.Counter"
func TypeKey(v any) string {
	return TypeKeyOf(reflect.TypeOf(v))
}

// TypeKeyOf is TypeKey for a reflect.Type. Pointer types are dereferenced.
func TypeKeyOf(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	cfg := container.Resolve[*config.Config](c, "config")
func Resolve[T any](c *Container, abstract string) T {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("container: Resolve[%T]: [%s] resolved to %T", *new(T), abstract, instance))
	}
	return typed
}

// MustResolve is like Resolve but returns (T, bool) instead of panicking on a
// type mismatch.
func MustResolve[T any](c *Container, abstract string) (T, bool) {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	return typed, ok
}
