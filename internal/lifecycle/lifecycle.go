// Package lifecycle governs complaint status transitions and maps each
// applied transition to its outbound notification event.
package lifecycle

// Complaint statuses. Open is the initial state, closed is terminal.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Event names the notification fired for a state.
type Event string

const (
	EventCreated  Event = "created"
	EventInReview Event = "in-review"
	EventResolved Event = "resolved"
	// EventNone marks silent transitions (closed).
	EventNone Event = ""
)

var validStatuses = map[string]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusResolved:   true,
	StatusClosed:     true,
}

// IsValidStatus reports whether s is one of the enumerated statuses.
func IsValidStatus(s string) bool {
	return validStatuses[s]
}

// Transition is the outcome of a status-change request.
type Transition struct {
	// Applied is false for unknown status values: the request is a
	// no-op, not an error, and the stored status stays unchanged.
	Applied bool
	From    string
	To      string
	Event   Event
}

// Apply evaluates a requested status change against the current one.
// Unknown values never mutate state. Re-asserting the current status
// is applied silently (no duplicate notification).
func Apply(current, requested string) Transition {
	if !IsValidStatus(requested) {
		return Transition{Applied: false, From: current, To: current}
	}
	t := Transition{Applied: true, From: current, To: requested}
	if requested != current {
		t.Event = eventFor(requested)
	}
	return t
}

func eventFor(status string) Event {
	switch status {
	case StatusOpen:
		return EventCreated
	case StatusInProgress:
		return EventInReview
	case StatusResolved:
		return EventResolved
	default:
		return EventNone
	}
}
