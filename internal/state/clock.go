package state

import (
	"sync"

	"github.com/google/uuid"
)

// Clock is a Lamport counter stamped on every scene mutation so peers can
// tell stale snapshots from fresh ones.
type Clock struct {
	counter uint64
	mu      sync.Mutex
}

// Tick increments the clock and returns the new value.
func (c *Clock) Tick() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// Observe moves the clock forward to a revision seen from a peer.
func (c *Clock) Observe(rev uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rev > c.counter {
		c.counter = rev
	}
}

func (c *Clock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter
}

// NewSiteID identifies one running board on the network.
func NewSiteID() string {
	return uuid.NewString()[:8]
}
