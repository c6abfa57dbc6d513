package radiostation

import "sync/atomic"

// Handle is the per-consumer face of a Station. A handle is bound to
// exactly one topic at a time; that topic is both its registry entry and
// the default notify set for Write. Hosts create one handle per consumer
// when it enters the tree, rebind it as the consumer's interest changes,
// and dispose it when the consumer leaves.
//
// A Handle belongs to a single consumer and is not safe for concurrent use;
// the Station it fronts is. The registry, not the handle, is authoritative
// for the bound topic: a rebind that came in through the station's own
// boundary is honored by Topic, Write and Rebind alike.
type Handle[S any, T comparable] struct {
	station  *Station[S, T]
	id       SubscriberID
	disposed atomic.Bool
}

// ID returns the handle's registry identity.
func (h *Handle[S, T]) ID() SubscriberID {
	return h.id
}

// Topic returns the topic the handle is currently bound to, per the
// registry. A disposed handle reports the zero topic.
func (h *Handle[S, T]) Topic() T {
	topic, _ := h.station.subs.topicOf(h.id)
	return topic
}

// Rebind moves the handle to topic. Rebinding to the current topic is a
// no-op with no registry churn. No notification is triggered either way.
func (h *Handle[S, T]) Rebind(topic T) error {
	if h.disposed.Load() {
		return ErrUnknownSubscriber
	}
	return h.station.Rebind(h.id, topic)
}

// Read acquires shared access to the station state.
func (h *Handle[S, T]) Read() (*ReadGuard[S, T], error) {
	if h.disposed.Load() {
		return nil, ErrUnknownSubscriber
	}
	return h.station.Read()
}

// Write acquires exclusive access and notifies the handle's bound topic on
// release, as the registry currently records it.
func (h *Handle[S, T]) Write() (*WriteGuard[S, T], error) {
	if h.disposed.Load() {
		return nil, ErrUnknownSubscriber
	}
	topic, ok := h.station.subs.topicOf(h.id)
	if !ok {
		return nil, ErrUnknownSubscriber
	}
	return h.station.Write(topic)
}

// WriteTo acquires exclusive access with an explicit notify set, for
// mutations that announce to a different audience than the handle's own
// subscription. An empty set is a silent write.
func (h *Handle[S, T]) WriteTo(topics ...T) (*WriteGuard[S, T], error) {
	if h.disposed.Load() {
		return nil, ErrUnknownSubscriber
	}
	return h.station.Write(topics...)
}

// Dispose removes the handle's registry entry. Call it exactly once, when
// the consumer's lifecycle ends; the second and later calls report
// ErrUnknownSubscriber.
func (h *Handle[S, T]) Dispose() error {
	if !h.disposed.CompareAndSwap(false, true) {
		return ErrUnknownSubscriber
	}
	return h.station.Unsubscribe(h.id)
}
