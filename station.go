package radiostation

import (
	"sync"

	"github.com/rs/zerolog"
)

// Option configures a Station at construction time.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger attaches a logger for debug-level tracing of subscriptions,
// guard activity and wake dispatch. The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// Station owns the shared state and the subscriber registry; it is the only
// path to either. State access goes through the guards issued by Read and
// Write, registry changes through Subscribe, Rebind and Unsubscribe.
//
// A Station is safe for concurrent use by multiple goroutines. There is no
// background work: every operation, including wake dispatch, runs
// synchronously on the goroutine that invokes it.
type Station[S any, T comparable] struct {
	mu    sync.RWMutex // guards state
	state S

	subs  *subscriberRegistry[T]
	sched Scheduler
	log   zerolog.Logger

	// holdMu guards the guard-holder bookkeeping below. Reentrant guard
	// requests are rejected instead of being allowed to deadlock on mu.
	holdMu    sync.Mutex
	readHolds map[uint64]int
	writer    uint64 // goroutine id of the current write-guard holder, 0 if none
	tornDown  bool
}

// New creates a Station whose state is produced by factory. The state lives
// for the lifetime of the station. A nil scheduler drops all wakes.
func New[S any, T comparable](factory func() S, sched Scheduler, opts ...Option) *Station[S, T] {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if sched == nil {
		sched = nopScheduler{}
	}
	st := &Station[S, T]{
		state:     factory(),
		subs:      newSubscriberRegistry[T](),
		sched:     sched,
		log:       o.log,
		readHolds: make(map[uint64]int),
	}
	st.log.Debug().Msg("station created")
	return st
}

// Read acquires shared access to the state. It blocks while another
// goroutine holds a WriteGuard, and fails with ErrReentrantAccess if the
// calling goroutine itself holds one: waiting on our own write lock could
// never make progress. Multiple concurrent ReadGuards are permitted,
// including several held by one goroutine: nested reads join the
// goroutine's existing read hold rather than re-acquiring the lock, so a
// writer queued between them cannot wedge the reader against itself.
func (st *Station[S, T]) Read() (*ReadGuard[S, T], error) {
	gid := goid()

	st.holdMu.Lock()
	if st.tornDown {
		st.holdMu.Unlock()
		return nil, ErrTornDown
	}
	if st.writer == gid {
		st.holdMu.Unlock()
		return nil, ErrReentrantAccess
	}
	if st.readHolds[gid] > 0 {
		// Only this goroutine can release its own holds, so the count
		// cannot reach zero behind our back.
		st.readHolds[gid]++
		st.holdMu.Unlock()
		st.log.Debug().Uint64("goroutine", gid).Msg("read guard acquired (nested)")
		return &ReadGuard[S, T]{station: st, gid: gid}, nil
	}
	st.holdMu.Unlock()

	st.mu.RLock()

	st.holdMu.Lock()
	st.readHolds[gid]++
	st.holdMu.Unlock()

	st.log.Debug().Uint64("goroutine", gid).Msg("read guard acquired")
	return &ReadGuard[S, T]{station: st, gid: gid}, nil
}

// Write acquires exclusive access to the state, blocking until no other
// guard is held. topics is the notify set dispatched when the returned
// guard is released; an empty set makes a silent write that wakes no one.
// By convention a consumer notifies its own bound topic (see Handle.Write),
// but any audience may be announced.
//
// Write fails with ErrReentrantAccess if the calling goroutine already
// holds a guard on this station, read or write, rather than deadlocking.
func (st *Station[S, T]) Write(topics ...T) (*WriteGuard[S, T], error) {
	gid := goid()

	st.holdMu.Lock()
	if st.tornDown {
		st.holdMu.Unlock()
		return nil, ErrTornDown
	}
	if st.writer == gid || st.readHolds[gid] > 0 {
		st.holdMu.Unlock()
		return nil, ErrReentrantAccess
	}
	st.holdMu.Unlock()

	st.mu.Lock()

	st.holdMu.Lock()
	st.writer = gid
	st.holdMu.Unlock()

	notify := dedupTopics(topics)
	st.log.Debug().Uint64("goroutine", gid).Int("topics", len(notify)).Msg("write guard acquired")
	return &WriteGuard[S, T]{station: st, gid: gid, topics: notify}, nil
}

// Subscribe inserts a fresh registry entry bound to topic and returns the
// identity used for later rebinds and unsubscription.
func (st *Station[S, T]) Subscribe(topic T) (SubscriberID, error) {
	if err := st.check(); err != nil {
		return "", err
	}
	id := st.subs.subscribe(topic)
	st.log.Debug().Str("subscriber", string(id)).Interface("topic", topic).Msg("subscribed")
	return id, nil
}

// Rebind atomically moves id's registry entry to topic. Rebinding triggers
// no notification; it only changes future targeting.
func (st *Station[S, T]) Rebind(id SubscriberID, topic T) error {
	if err := st.check(); err != nil {
		return err
	}
	if err := st.subs.rebind(id, topic); err != nil {
		return err
	}
	st.log.Debug().Str("subscriber", string(id)).Interface("topic", topic).Msg("rebound")
	return nil
}

// Unsubscribe removes id's registry entry. Safe to call while a dispatch
// for id's topic is in flight; dispatch works from a snapshot taken before
// any wake is delivered. A second Unsubscribe for the same id reports
// ErrUnknownSubscriber.
func (st *Station[S, T]) Unsubscribe(id SubscriberID) error {
	if err := st.check(); err != nil {
		return err
	}
	if err := st.subs.unsubscribe(id); err != nil {
		return err
	}
	st.log.Debug().Str("subscriber", string(id)).Msg("unsubscribed")
	return nil
}

// Bind subscribes a new consumer to topic and returns its Handle.
func (st *Station[S, T]) Bind(topic T) (*Handle[S, T], error) {
	id, err := st.Subscribe(topic)
	if err != nil {
		return nil, err
	}
	return &Handle[S, T]{station: st, id: id}, nil
}

// Teardown marks the station torn down; subsequent guard and registry
// requests fail with ErrTornDown. Idempotent. Guards already held stay
// valid until released.
func (st *Station[S, T]) Teardown() {
	st.holdMu.Lock()
	already := st.tornDown
	st.tornDown = true
	st.holdMu.Unlock()
	if !already {
		st.log.Debug().Msg("station torn down")
	}
}

func (st *Station[S, T]) check() error {
	st.holdMu.Lock()
	defer st.holdMu.Unlock()
	if st.tornDown {
		return ErrTornDown
	}
	return nil
}

// dispatch runs after a write guard has given up the lock. All topic
// audiences are snapshotted before the first wake is delivered, so registry
// churn performed by woken consumers cannot corrupt this dispatch. Within
// one dispatch the same subscriber is woken once per notified topic it
// appears under; ordering between topics carries no guarantee the host may
// rely on.
func (st *Station[S, T]) dispatch(topics []T) {
	if len(topics) == 0 {
		return
	}
	topics = expandTopics(topics)

	audiences := make([][]SubscriberID, len(topics))
	for i, tp := range topics {
		audiences[i] = st.subs.snapshot(tp)
	}

	for i, tp := range topics {
		for _, id := range audiences[i] {
			st.log.Debug().Interface("topic", tp).Str("subscriber", string(id)).Msg("wake")
			st.sched.Wake(id)
		}
	}
}
