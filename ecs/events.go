package ecs

// EventKind identifies world lifecycle events.
type EventKind uint8

const (
	EventSpawned EventKind = iota + 1
	EventRemoved
)

func (k EventKind) String() string {
	switch k {
	case EventSpawned:
		return "spawned"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event records an entity entering or leaving the world.
type Event struct {
	Kind   EventKind
	Entity ID
	Of     Kind
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
