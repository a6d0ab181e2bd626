package state

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// StateContainer is implemented by every struct that embeds Base.
type StateContainer interface {
	// Subscribe registers callback for every future change notification.
	Subscribe(callback func()) *Subscription

	// NotifyStateChanged invokes every registered callback.
	NotifyStateChanged()

	stateBase() *Base
}

type subscriber struct {
	id       uuid.UUID
	callback func()
}

// Base is the embeddable core of a state container. The zero value is ready
// to use. Base is safe for concurrent use; callbacks run without the lock
// held, so they may read and write properties.
type Base struct {
	mu          sync.Mutex
	values      map[string]any
	subscribers []subscriber
}

var _ StateContainer = (*Base)(nil)

func (b *Base) stateBase() *Base { return b }

// Subscribe registers callback and returns the handle that removes it again.
// A nil callback is accepted and never invoked.
func (b *Base) Subscribe(callback func()) *Subscription {
	if callback == nil {
		return &Subscription{}
	}

	id := uuid.New()
	b.mu.Lock()
	b.subscribers = append(b.subscribers, subscriber{id: id, callback: callback})
	b.mu.Unlock()

	return &Subscription{
		id:          id,
		unsubscribe: func() { b.unsubscribe(id) },
	}
}

func (b *Base) unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = lo.Reject(b.subscribers, func(s subscriber, _ int) bool {
		return s.id == id
	})
}

// NotifyStateChanged invokes the current subscribers in subscription order.
// Subscribers added or removed by a callback take effect on the next
// notification. A panic in a callback is not recovered.
func (b *Base) NotifyStateChanged() {
	b.mu.Lock()
	subscribers := slices.Clone(b.subscribers)
	b.mu.Unlock()

	for _, s := range subscribers {
		s.callback()
	}
}

// Subscribers returns the number of active subscriptions.
func (b *Base) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close drops all subscribers and stored properties. The DI scope calls it
// when the scope that owns the container ends.
func (b *Base) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = nil
	clear(b.values)
	return nil
}

func (b *Base) load(name string) (any, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[name]
	return v, ok
}

// swap stores value under name unless equal reports it equal to the current
// value, and returns whether the property changed. Compare and store happen
// under one lock.
func (b *Base) swap(name string, value any, equal func(current any) bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if equal(b.values[name]) {
		return false
	}
	b.store(name, value)
	return true
}

// store replaces name with value; a nil value removes it. Callers hold mu.
func (b *Base) store(name string, value any) {
	delete(b.values, name)
	if isNil(value) {
		return
	}
	if b.values == nil {
		b.values = make(map[string]any)
	}
	b.values[name] = value
}
