package state

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is the handle returned by Subscribe. Disposing it removes
// exactly the callback it was created for.
type Subscription struct {
	id          uuid.UUID
	once        sync.Once
	unsubscribe func()
}

// ID identifies the subscription. It is uuid.Nil for a nil callback.
func (s *Subscription) ID() uuid.UUID { return s.id }

// Dispose unsubscribes the callback. Calling it more than once is safe.
func (s *Subscription) Dispose() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

// Close implements io.Closer.
func (s *Subscription) Close() error {
	s.Dispose()
	return nil
}
