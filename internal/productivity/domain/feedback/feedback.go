// Package feedback records per-task user signals used to adapt scoring weights.
package feedback

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

var (
	ErrInvalidKind = errors.New("feedback label must be helpful or done")
	ErrEmptyTaskID = errors.New("feedback requires a task id")
)

// Kind is the type of signal a user gave on a task.
type Kind string

const (
	KindHelpful Kind = "helpful"
	KindDone    Kind = "done"
)

// ParseKind validates a feedback label.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindHelpful, KindDone:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Record holds the accumulated counters for one task.
type Record struct {
	TaskID       string `json:"-"`
	HelpfulCount int    `json:"helpful"`
	DoneCount    int    `json:"done"`
}

const (
	AggregateType      = "Feedback"
	RoutingKeyRecorded = "priora.feedback.recorded"
)

// Recorded is emitted for every feedback event.
type Recorded struct {
	domain.BaseEvent
	Kind    string `json:"kind"`
	Helpful int    `json:"helpful"`
	Done    int    `json:"done"`
}

// Ledger owns the feedback records. Records are never removed, even after their task is deleted.
type Ledger struct {
	domain.EventRecorder
	records map[string]*Record
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{records: make(map[string]*Record)}
}

// Record increments the counter for kind on taskID, creating the record on first use.
// Every call is a discrete event; repeated calls accumulate.
func (l *Ledger) Record(taskID string, kind Kind) (Record, error) {
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return Record{}, ErrEmptyTaskID
	}
	if kind != KindHelpful && kind != KindDone {
		return Record{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	rec, ok := l.records[taskID]
	if !ok {
		rec = &Record{TaskID: taskID}
		l.records[taskID] = rec
	}
	switch kind {
	case KindHelpful:
		rec.HelpfulCount++
	case KindDone:
		rec.DoneCount++
	}

	l.Raise(&Recorded{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyRecorded),
		Kind:      string(kind),
		Helpful:   rec.HelpfulCount,
		Done:      rec.DoneCount,
	})

	return *rec, nil
}

// Get returns the record for taskID.
func (l *Ledger) Get(taskID string) (Record, bool) {
	rec, ok := l.records[taskID]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Records returns a copy of every record sorted by task id.
func (l *Ledger) Records() []Record {
	out := make([]Record, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// Len returns the number of tasks with feedback.
func (l *Ledger) Len() int { return len(l.records) }

// Snapshot returns the ledger as a task-id keyed document.
func (l *Ledger) Snapshot() map[string]Record {
	out := make(map[string]Record, len(l.records))
	for id, rec := range l.records {
		out[id] = *rec
	}
	return out
}

// Restore replaces the ledger contents. Negative counters are reset to zero.
func (l *Ledger) Restore(doc map[string]Record) {
	l.records = make(map[string]*Record, len(doc))
	l.EventRecorder = domain.EventRecorder{}
	for id, rec := range doc {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		l.records[id] = &Record{
			TaskID:       id,
			HelpfulCount: max(rec.HelpfulCount, 0),
			DoneCount:    max(rec.DoneCount, 0),
		}
	}
}
