package radiostation

import (
	"sync"

	"github.com/google/uuid"
)

// SubscriberID identifies one registry entry. IDs are unique across all
// stations for the lifetime of the process.
type SubscriberID string

func newSubscriberID() SubscriberID {
	return SubscriberID(uuid.NewString())
}

// subscriberRegistry is the bidirectional subscriber<->topic mapping. The
// forward map is authoritative; the reverse multimap is maintained alongside
// it so dispatch can collect a topic's audience in one lookup. Every
// subscriber is bound to exactly one topic at any instant.
//
// All mutation happens under mu, independent of the station's state lock:
// registry changes are metadata only and never need to wait on readers or
// writers of the shared state.
type subscriberRegistry[T comparable] struct {
	mu      sync.Mutex
	forward map[SubscriberID]T
	reverse map[T]map[SubscriberID]struct{}
}

func newSubscriberRegistry[T comparable]() *subscriberRegistry[T] {
	return &subscriberRegistry[T]{
		forward: make(map[SubscriberID]T),
		reverse: make(map[T]map[SubscriberID]struct{}),
	}
}

// subscribe inserts a fresh entry bound to topic and returns its id.
func (r *subscriberRegistry[T]) subscribe(topic T) SubscriberID {
	id := newSubscriberID()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.forward[id] = topic
	r.addReverse(topic, id)
	return id
}

// rebind moves id from its current topic bucket to topic. Both maps change
// under one critical section, so no observer can find the id in both
// buckets, or in neither. Rebinding to the current topic is a no-op.
func (r *subscriberRegistry[T]) rebind(id SubscriberID, topic T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.forward[id]
	if !ok {
		return ErrUnknownSubscriber
	}
	if old == topic {
		return nil
	}
	r.removeReverse(old, id)
	r.forward[id] = topic
	r.addReverse(topic, id)
	return nil
}

// unsubscribe removes the entry for id from both maps.
func (r *subscriberRegistry[T]) unsubscribe(id SubscriberID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic, ok := r.forward[id]
	if !ok {
		return ErrUnknownSubscriber
	}
	delete(r.forward, id)
	r.removeReverse(topic, id)
	return nil
}

// snapshot returns a point-in-time copy of topic's audience. Dispatch works
// from the copy, so rebinds and unsubscribes that land while wakes are being
// delivered cannot touch an in-flight notification.
func (r *subscriberRegistry[T]) snapshot(topic T) []SubscriberID {
	r.mu.Lock()
	defer r.mu.Unlock()

	bucket := r.reverse[topic]
	if len(bucket) == 0 {
		return nil
	}
	ids := make([]SubscriberID, 0, len(bucket))
	for id := range bucket {
		ids = append(ids, id)
	}
	return ids
}

// topicOf reports the topic id is currently bound to.
func (r *subscriberRegistry[T]) topicOf(id SubscriberID) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	topic, ok := r.forward[id]
	return topic, ok
}

func (r *subscriberRegistry[T]) addReverse(topic T, id SubscriberID) {
	bucket, ok := r.reverse[topic]
	if !ok {
		bucket = make(map[SubscriberID]struct{})
		r.reverse[topic] = bucket
	}
	bucket[id] = struct{}{}
}

func (r *subscriberRegistry[T]) removeReverse(topic T, id SubscriberID) {
	bucket := r.reverse[topic]
	delete(bucket, id)
	if len(bucket) == 0 {
		delete(r.reverse, topic)
	}
}
