/*
Package radiostation implements a topic-keyed change-notification core for a
single shared, mutable value read and written by many independent consumers.

Each consumer declares interest in one topic at a time; a mutation announces
the topic(s) it touched, and only the consumers bound to a matching topic
are woken - never all of them, never none of the relevant ones. The package
does not re-execute consumers itself: wakes are handed to a host-supplied
Scheduler, one call per matching subscriber, after the mutation is fully
visible.

# Key Features

  - Topic-Keyed Wakes: consumers subscribe to application-defined topic
    values (any comparable type). A write wakes exactly the subscribers
    bound to the topics it announces.

  - Guarded State: the shared value lives behind a read/write lock. ReadGuard
    gives shared access, WriteGuard exclusive access; releasing a WriteGuard
    first publishes the mutation, then dispatches the wakes.

  - Dynamic Rebinding: a Handle can move to a different topic at any time.
    The move is atomic - a subscriber is never in two topic buckets at once,
    nor in none.

  - Reentrancy Detection: requesting a conflicting guard from a goroutine
    that already holds one fails fast with ErrReentrantAccess instead of
    deadlocking.

  - Snapshot Dispatch: notification targets are copied before the first wake
    is delivered, so subscribers may rebind or unsubscribe from inside their
    re-execution without corrupting the in-flight dispatch.

  - Derived Topics and Reducers: a topic value may announce companion topics
    (DerivedTopic), and a state type may map actions to notify sets
    (Reducer/Apply).

# Initializing a Station

A Scope holds at most one live Station, mirroring the host context. The
factory runs once; the scheduler receives every wake.

	type AppState struct {
		Lists [][]string
	}

	type AppTopic struct {
		Name string
		List int
	}

	var scope radiostation.Scope[AppState, AppTopic]

	station, err := scope.Init(
		func() AppState { return AppState{} },
		radiostation.SchedulerFunc(func(id radiostation.SubscriberID) {
			// Ask the host to re-execute this consumer.
		}),
	)
	if err != nil {
		// Handle error; a second Init without Teardown reports
		// radiostation.ErrAlreadyInitialized.
	}

# Reading and Writing Through a Handle

Each consumer binds a Handle to its topic. Write notifies the handle's own
topic by default; WriteTo overrides the audience, and an empty override is a
silent write.

	handle, _ := station.Bind(AppTopic{Name: "list", List: 0})
	defer handle.Dispose()

	g, err := handle.Write()
	if err != nil {
		// ErrReentrantAccess if this goroutine already holds a guard.
	}
	g.State().Lists[0] = append(g.State().Lists[0], "hello")
	g.Release() // mutation becomes visible, then list-0 subscribers wake

	r, _ := handle.Read()
	fmt.Println(r.State().Lists)
	r.Release()

# Actions and Derived Topics

State types may implement Reducer so mutations carry their own notify set,
and topic values may implement DerivedTopic to announce a catch-all
alongside themselves.

	type AddItem struct {
		List int
		Text string
	}

	func (s *AppState) Reduce(a AddItem) []AppTopic {
		s.Lists[a.List] = append(s.Lists[a.List], a.Text)
		return []AppTopic{{Name: "list", List: a.List}}
	}

	err := radiostation.Apply(handle, AddItem{List: 0, Text: "hello"})
*/
package radiostation
