package domain

// EventRecorder buffers the events an aggregate raises until a store drains them.
type EventRecorder struct {
	pending []DomainEvent
}

// Raise appends event to the pending events.
func (r *EventRecorder) Raise(event DomainEvent) {
	r.pending = append(r.pending, event)
}

// PendingEvents returns the events raised since the last PullEvents.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	return r.pending
}

// PullEvents returns the pending events and forgets them.
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.pending
	r.pending = nil
	return events
}

// Aggregate is the embeddable root of an aggregate.
type Aggregate struct {
	Identity
	EventRecorder
}

// NewAggregate creates a root with a fresh identity; see NewIdentity.
func NewAggregate(id string) Aggregate {
	return Aggregate{Identity: NewIdentity(id)}
}

// RestoreAggregate creates a root around a stored identity, with no pending events.
func RestoreAggregate(identity Identity) Aggregate {
	return Aggregate{Identity: identity}
}
