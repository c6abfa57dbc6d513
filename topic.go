package radiostation

import "fmt"

// Topics are application-defined values compared by equality; any comparable
// type works. A topic value may additionally implement DerivedTopic to
// announce on extra topics beyond itself: when a write notifies such a
// topic, its derived topics join the dispatch set. The usual shape is an
// item-level topic that also announces a catch-all, e.g.
//
//	func (t ListItem) DeriveTopics() []DataTopic {
//		return []DataTopic{AnyListItem{}}
//	}
//
// Derivation is one level deep; derived topics are not expanded again.
type DerivedTopic[T any] interface {
	DeriveTopics() []T
}

// Reducer is implemented by state types whose mutations are expressed as
// actions. Reduce applies one action to the state and returns the topics to
// notify for it, so the notify set can depend on what the action did.
type Reducer[A any, T comparable] interface {
	Reduce(action A) []T
}

// Apply runs one action against the handle's station under a write guard
// and notifies exactly the topics the reduction selected. The state type's
// pointer must implement Reducer for the action type.
func Apply[S any, T comparable, A any](h *Handle[S, T], action A) error {
	g, err := h.WriteTo()
	if err != nil {
		return err
	}
	defer g.Release()

	r, ok := any(g.State()).(Reducer[A, T])
	if !ok {
		return fmt.Errorf("radiostation: %T does not implement Reducer for action %T", g.State(), action)
	}
	g.Notify(r.Reduce(action)...)
	return nil
}

// dedupTopics collapses duplicate topic values, preserving first-seen
// order. The notify set is a set; announcing the same topic twice in one
// write is one announcement.
func dedupTopics[T comparable](topics []T) []T {
	if len(topics) == 0 {
		return nil
	}
	seen := make(map[T]struct{}, len(topics))
	out := make([]T, 0, len(topics))
	for _, tp := range topics {
		if _, dup := seen[tp]; dup {
			continue
		}
		seen[tp] = struct{}{}
		out = append(out, tp)
	}
	return out
}

// expandTopics appends each topic's derived topics and collapses
// duplicates. Expansion happens once, at dispatch time, so a derived
// catch-all reflects the topics actually being announced.
func expandTopics[T comparable](topics []T) []T {
	expanded := make([]T, 0, len(topics))
	for _, tp := range topics {
		expanded = append(expanded, tp)
		if d, ok := any(tp).(DerivedTopic[T]); ok {
			expanded = append(expanded, d.DeriveTopics()...)
		}
	}
	return dedupTopics(expanded)
}
