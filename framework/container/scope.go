package container

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
)

// ErrScopeClosed is the panic value (wrapped) when a closed scope is asked to
// build a scoped instance.
var ErrScopeClosed = errors.New("container: scope is closed")

// Scope caches scoped instances for one unit of work, typically one HTTP
// request. Singletons and transients are delegated to the root container.
type Scope struct {
	root *Container

	mu        sync.Mutex
	instances map[string]any
	order     []string
	closed    bool
}

// NewScope starts a scope on c. Close it when the unit of work ends.
func (c *Container) NewScope() *Scope {
	return &Scope{
		root:      c,
		instances: make(map[string]any),
	}
}

// Root returns the container the scope was created from.
func (s *Scope) Root() *Container { return s.root }

// Make resolves abstract, building scoped bindings at most once per scope.
func (s *Scope) Make(abstract string) any {
	s.root.loadDeferred(abstract)

	key, b, ok := s.root.lookup(abstract)
	if !ok || b.lifetime != Scoped {
		return s.root.Make(abstract)
	}

	s.mu.Lock()
	if inst, ok := s.instances[key]; ok {
		s.mu.Unlock()
		return inst
	}
	if s.closed {
		s.mu.Unlock()
		panic(fmt.Errorf("%w: cannot resolve [%s]", ErrScopeClosed, abstract))
	}
	s.mu.Unlock()

	instance := s.root.build(key, b)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.instances[key]; ok {
		return existing
	}
	s.instances[key] = instance
	s.order = append(s.order, key)
	return instance
}

// Tagged resolves every abstract under tag through the scope.
func (s *Scope) Tagged(tag string) []any {
	abstracts := s.root.TaggedKeys(tag)
	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		result = append(result, s.Make(abs))
	}
	return result
}

// Close ends the scope. Scoped instances implementing io.Closer are closed in
// reverse creation order; their errors are joined. Close is idempotent.
func (s *Scope) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	order := slices.Clone(s.order)
	instances := s.instances
	s.instances = make(map[string]any)
	s.order = nil
	s.mu.Unlock()

	var errs []error
	for _, key := range slices.Backward(order) {
		if closer, ok := instances[key].(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close [%s]: %w", key, err))
			}
		}
	}
	return errors.Join(errs...)
}

// ResolveScoped is Resolve for a Scope.
func ResolveScoped[T any](s *Scope, abstract string) T {
	instance := s.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("container: ResolveScoped[%T]: [%s] resolved to %T", *new(T), abstract, instance))
	}
	return typed
}

// ── Context ───────────────────────────────────────────────────────────────────

type scopeKey struct{}

// WithScope returns a copy of ctx carrying s.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the scope stored in ctx, if any.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}
