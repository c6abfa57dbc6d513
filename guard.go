package radiostation

import "sync"

// ReadGuard is a scoped shared borrow of the station state. Release it when
// done; holding it blocks writers. A guard must be released by the
// goroutine that acquired it, and no reference obtained through State may
// outlive the guard.
type ReadGuard[S any, T comparable] struct {
	station *Station[S, T]
	gid     uint64
	once    sync.Once
}

// State returns the guarded state. The reference is a read-only borrow:
// it must not be written through or retained past Release.
func (g *ReadGuard[S, T]) State() *S {
	return &g.station.state
}

// Release drops the guard. Nested guards on one goroutine share a single
// lock hold; the hold itself is given up when the last of them is released.
// Safe to call more than once; later calls are no-ops, so it composes with
// defer.
func (g *ReadGuard[S, T]) Release() {
	g.once.Do(func() {
		st := g.station

		st.holdMu.Lock()
		st.readHolds[g.gid]--
		last := st.readHolds[g.gid] <= 0
		if last {
			delete(st.readHolds, g.gid)
		}
		st.holdMu.Unlock()

		if last {
			st.mu.RUnlock()
		}
		st.log.Debug().Uint64("goroutine", g.gid).Msg("read guard released")
	})
}

// WriteGuard is a scoped exclusive borrow of the station state, carrying
// the set of topics to notify when it ends. The guard's release boundary is
// the commit point: the mutation becomes visible first, then the notify
// set's subscribers are woken.
type WriteGuard[S any, T comparable] struct {
	station *Station[S, T]
	gid     uint64
	topics  []T
	once    sync.Once
}

// State returns the guarded state for mutation. The reference must not be
// retained past Release.
func (g *WriteGuard[S, T]) State() *S {
	return &g.station.state
}

// Notify adds topics to the set dispatched on release, for mutations whose
// audience is only known mid-write. Duplicates collapse. Calling Notify
// after Release has no effect.
func (g *WriteGuard[S, T]) Notify(topics ...T) {
	g.topics = dedupTopics(append(g.topics, topics...))
}

// Release unlocks first and dispatches second: a consumer woken by this
// guard that immediately re-reads always observes the new state, never the
// pre-mutation one. Notification happens exactly once per guard; later
// Release calls are no-ops.
func (g *WriteGuard[S, T]) Release() {
	g.once.Do(func() {
		st := g.station
		topics := g.topics

		st.holdMu.Lock()
		st.writer = 0
		st.holdMu.Unlock()

		st.mu.Unlock()
		st.log.Debug().Uint64("goroutine", g.gid).Msg("write guard released")

		st.dispatch(topics)
	})
}
