package state

import (
	"log/slog"
	"reflect"

	"github.com/samber/lo"

	"github.com/km-arc/go-state/framework/container"
)

const (
	// DefaultFolder is the package, relative to the unit root, that holds
	// state containers.
	DefaultFolder = "statecontainers"

	// Tag groups every registered state container in the IoC container.
	Tag = "state"
)

// Registration describes one state container bound by RegisterStateContainers.
type Registration struct {
	Key      string
	Type     reflect.Type
	Lifetime container.Lifetime
}

type options struct {
	folder string
	mode   HostMode
	logger *slog.Logger
}

// Option configures RegisterStateContainers.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{folder: DefaultFolder, mode: HostAuto, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Settings is the outcome of applying a list of Options.
type Settings struct {
	Folder   string
	HostMode HostMode
}

// ResolveOptions applies opts the way RegisterStateContainers does, so
// callers can act on the effective host mode.
func ResolveOptions(opts ...Option) Settings {
	o := newOptions(opts)
	return Settings{Folder: o.folder, HostMode: o.mode}
}

// WithFolder overrides DefaultFolder. An empty folder keeps the default.
func WithFolder(folder string) Option {
	return func(o *options) {
		if folder != "" {
			o.folder = folder
		}
	}
}

// WithHostMode forces the host mode instead of detecting it.
func WithHostMode(mode HostMode) Option {
	return func(o *options) { o.mode = mode }
}

// WithLogger logs each registration at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// RegisterStateContainers binds every state container of unit that lives in
// the package <unit name>/<folder>. Containers are singletons in a browser
// host and scoped otherwise. It returns c for chaining.
func RegisterStateContainers(c *container.Container, unit *Unit, opts ...Option) *container.Container {
	RegisterStateContainersReport(c, unit, opts...)
	return c
}

// RegisterStateContainersReport is RegisterStateContainers returning what was
// bound. A unit without matching containers registers nothing.
func RegisterStateContainersReport(c *container.Container, unit *Unit, opts ...Option) []Registration {
	o := newOptions(opts)
	if unit == nil {
		return nil
	}

	pkgPath := unit.Name() + "/" + o.folder
	lifetime := container.Scoped
	if o.mode.IsBrowser() {
		lifetime = container.Singleton
	}

	type candidate struct {
		factory Factory
		typ     reflect.Type
	}
	matches := lo.FilterMap(unit.Factories(), func(f Factory, _ int) (candidate, bool) {
		t, ok := concreteType(f)
		if !ok || t.PkgPath() != pkgPath {
			return candidate{}, false
		}
		return candidate{factory: f, typ: t}, true
	})
	// a type listed twice is bound and tagged once
	matches = lo.UniqBy(matches, func(m candidate) reflect.Type { return m.typ })

	registrations := make([]Registration, 0, len(matches))
	for _, m := range matches {
		key := container.TypeKeyOf(m.typ)
		factory := m.factory
		c.Register(key, func(*container.Container) any { return factory() }, lifetime)
		c.Tag([]string{key}, Tag)

		o.logger.Debug("state container registered",
			slog.String("key", key),
			slog.String("lifetime", lifetime.String()),
			slog.String("host_mode", o.mode.String()),
		)
		registrations = append(registrations, Registration{Key: key, Type: m.typ, Lifetime: lifetime})
	}
	return registrations
}

// concreteType probes f once and returns the named struct type it builds.
// Nil results and non-struct containers are treated as abstract.
func concreteType(f Factory) (reflect.Type, bool) {
	instance := f()
	if isNil(instance) {
		return nil, false
	}
	t := reflect.TypeOf(instance)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Name() == "" || t == reflect.TypeFor[Base]() {
		return nil, false
	}
	return t, true
}
