package task

import "strings"

// Status represents the task lifecycle state.
type Status int

const (
	StatusBacklog Status = iota
	StatusInProgress
	StatusReview
	StatusDone
)

// Statuses lists every status in board order.
var Statuses = []Status{StatusBacklog, StatusInProgress, StatusReview, StatusDone}

func (s Status) String() string {
	switch s {
	case StatusBacklog:
		return "backlog"
	case StatusInProgress:
		return "in-progress"
	case StatusReview:
		return "review"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// IsValid reports whether s is one of the four lifecycle states.
func (s Status) IsValid() bool {
	return s >= StatusBacklog && s <= StatusDone
}

// ParseStatus converts a status name. Board column names without separators are accepted.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "backlog":
		return StatusBacklog, nil
	case "in-progress", "inprogress", "in_progress":
		return StatusInProgress, nil
	case "review":
		return StatusReview, nil
	case "done":
		return StatusDone, nil
	default:
		return StatusBacklog, ErrInvalidStatus
	}
}

// MarshalText encodes the status name.
func (s Status) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, ErrInvalidStatus
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
