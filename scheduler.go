package radiostation

// Scheduler is the host-side collaborator that turns wake signals into
// actual consumer re-execution. The station calls Wake once per snapshotted
// subscriber on each notifying write release; it carries no payload beyond
// "this subscriber's data may have changed". The station does not
// deduplicate wakes across topics within one dispatch; debouncing, if
// wanted, belongs to the Scheduler.
type Scheduler interface {
	Wake(id SubscriberID)
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(id SubscriberID)

// Wake calls f(id).
func (f SchedulerFunc) Wake(id SubscriberID) {
	f(id)
}

// nopScheduler drops every wake. Used when a station is built with a nil
// scheduler.
type nopScheduler struct{}

func (nopScheduler) Wake(SubscriberID) {}
