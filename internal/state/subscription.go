package state

import "sync"

// Subscription delivers snapshots from a Container. C holds at most one
// snapshot: a newer one replaces any the reader has not taken yet.
type Subscription struct {
	C <-chan Snapshot

	ch        chan Snapshot
	container *Container
	once      sync.Once
}

// Subscribe registers a subscription. The current snapshot is available on
// C immediately.
func (c *Container) Subscribe() *Subscription {
	ch := make(chan Snapshot, 1)
	sub := &Subscription{C: ch, ch: ch, container: c}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs[sub] = struct{}{}
	sub.offer(c.snapshotLocked())
	return sub
}

// offer replaces the pending snapshot. Callers hold the container mutex, so
// this is the only sender and the send never blocks.
func (s *Subscription) offer(snap Snapshot) {
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

// Close unsubscribes and closes C.
func (s *Subscription) Close() {
	s.once.Do(func() {
		c := s.container
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subs[s]; ok {
			delete(c.subs, s)
			close(s.ch)
		}
	})
}
