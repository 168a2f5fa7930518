package model

import "fmt"

// Status is the progress state of an item.
type Status int

// Status values, in cycle order.
const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusCompleted
)

// AllStatuses lists every status in cycle order.
var AllStatuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s >= StatusNotStarted && s <= StatusCompleted
}

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus converts the String form back into a Status.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if st.String() == s {
			return st, nil
		}
	}
	return StatusNotStarted, fmt.Errorf("unknown status %q", s)
}
