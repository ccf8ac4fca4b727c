package services

import (
	"sync"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

// WeightHolder is the process-wide weight vector. It is only ever replaced whole.
// Until custom weights are set, scoring requests carry no weights and the engine
// uses the preset of the requested strategy.
type WeightHolder struct {
	mu     sync.RWMutex
	vector weights.Vector
	custom bool
	events []domain.DomainEvent
}

// NewWeightHolder creates a holder whose fallback vector is the normalised base.
func NewWeightHolder(base weights.Vector) *WeightHolder {
	return &WeightHolder{vector: base.Normalize()}
}

// Current returns the current vector.
func (h *WeightHolder) Current() weights.Vector {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.vector
}

// Custom returns the custom vector, or nil when none is set.
func (h *WeightHolder) Custom() *weights.Vector {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.custom {
		return nil
	}
	v := h.vector
	return &v
}

// Replace normalises v, stores it as the custom vector and returns the stored value.
func (h *WeightHolder) Replace(v weights.Vector, source string) weights.Vector {
	v = v.Normalize()
	h.mu.Lock()
	h.vector = v
	h.custom = true
	h.events = append(h.events, weights.NewReplaced(v, source))
	h.mu.Unlock()
	return v
}

// Clear drops the custom vector and falls back to base.
func (h *WeightHolder) Clear(base weights.Vector) {
	base = base.Normalize()
	h.mu.Lock()
	h.vector = base
	h.custom = false
	h.events = append(h.events, weights.NewReplaced(base, weights.SourcePreset))
	h.mu.Unlock()
}

// Restore sets the persisted custom vector without recording an event. Nil keeps the base vector.
func (h *WeightHolder) Restore(v *weights.Vector) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = nil
	if v == nil {
		h.custom = false
		return
	}
	h.vector = v.Normalize()
	h.custom = true
}

// DrainEvents returns and clears pending events.
func (h *WeightHolder) DrainEvents() []domain.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	events := h.events
	h.events = nil
	return events
}

// FeedbackBook guards a feedback ledger for concurrent use.
type FeedbackBook struct {
	mu     sync.Mutex
	ledger *feedback.Ledger
}

// NewFeedbackBook creates an empty book.
func NewFeedbackBook() *FeedbackBook {
	return &FeedbackBook{ledger: feedback.NewLedger()}
}

// Record increments the counter for kind on taskID.
func (b *FeedbackBook) Record(taskID string, kind feedback.Kind) (feedback.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Record(taskID, kind)
}

// Get returns the record for taskID.
func (b *FeedbackBook) Get(taskID string) (feedback.Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Get(taskID)
}

// Records returns every record sorted by task id.
func (b *FeedbackBook) Records() []feedback.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Records()
}

// Snapshot returns the ledger document.
func (b *FeedbackBook) Snapshot() map[string]feedback.Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Snapshot()
}

// Restore replaces the ledger contents.
func (b *FeedbackBook) Restore(doc map[string]feedback.Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ledger.Restore(doc)
}

// DrainEvents returns and clears pending events.
func (b *FeedbackBook) DrainEvents() []domain.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.PullEvents()
}
