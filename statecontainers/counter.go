// Package statecontainers holds the demo application's state containers.
package statecontainers

import "github.com/km-arc/go-state/framework/state"

var countKey = state.NewKey[int]("Count")

// Counter is a click counter shared by the components of one page.
type Counter struct {
	state.Base
}

func NewCounter() *Counter { return &Counter{} }

func (c *Counter) Count() int { return state.Get(c, countKey) }

func (c *Counter) SetCount(n int) { state.Set(c, countKey, n) }

func (c *Counter) Increment() int {
	n := c.Count() + 1
	c.SetCount(n)
	return n
}
