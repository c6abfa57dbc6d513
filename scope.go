package radiostation

import "sync"

// Scope models one host context: it hosts at most one live Station. Hosts
// with a single process-wide context keep one package-level Scope; tests
// run as many scopes side by side as they like. The zero value is ready to
// use.
type Scope[S any, T comparable] struct {
	mu      sync.Mutex
	station *Station[S, T]
}

// Init builds the scope's station, constructing the state from factory. It
// fails with ErrAlreadyInitialized while a previous station is live:
// silently overwriting would orphan that station's subscribers against a
// fresh state instance.
func (sc *Scope[S, T]) Init(factory func() S, sched Scheduler, opts ...Option) (*Station[S, T], error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.station != nil {
		return nil, ErrAlreadyInitialized
	}
	sc.station = New[S, T](factory, sched, opts...)
	return sc.station, nil
}

// Station returns the live station, if any.
func (sc *Scope[S, T]) Station() (*Station[S, T], bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.station, sc.station != nil
}

// Teardown tears down the live station and empties the scope so Init may
// run again. A no-op on an empty scope.
func (sc *Scope[S, T]) Teardown() {
	sc.mu.Lock()
	st := sc.station
	sc.station = nil
	sc.mu.Unlock()

	if st != nil {
		st.Teardown()
	}
}
