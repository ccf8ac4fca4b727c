// Package persistence stores the productivity workspace as JSON documents.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/priora/internal/productivity/application/services"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/feedback"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/weights"
	"github.com/felixgeelhaar/priora/internal/shared/infrastructure/docstore"
)

// Storage keys of the persisted documents.
const (
	TasksKey    = "taskai_v1"
	FeedbackKey = "taskai_feedback"
	WeightsKey  = "taskai_weights"
)

type tasksDocument struct {
	Tasks []task.Record `json:"tasks"`
}

// StateRepository implements services.StateRepository on a document store.
// Missing or unreadable documents load as empty state and are logged.
type StateRepository struct {
	store  docstore.Store
	logger *slog.Logger
}

var _ services.StateRepository = (*StateRepository)(nil)

// NewStateRepository creates a repository on store.
func NewStateRepository(store docstore.Store, logger *slog.Logger) *StateRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &StateRepository{store: store, logger: logger}
}

// LoadTasks returns the stored task records.
func (r *StateRepository) LoadTasks(ctx context.Context) ([]task.Record, error) {
	var doc tasksDocument
	found, err := r.load(ctx, TasksKey, &doc)
	if err != nil || !found {
		return []task.Record{}, err
	}
	if doc.Tasks == nil {
		return []task.Record{}, nil
	}
	return doc.Tasks, nil
}

// SaveTasks stores the task records.
func (r *StateRepository) SaveTasks(ctx context.Context, records []task.Record) error {
	if records == nil {
		records = []task.Record{}
	}
	return r.save(ctx, TasksKey, tasksDocument{Tasks: records})
}

// LoadFeedback returns the stored feedback ledger.
func (r *StateRepository) LoadFeedback(ctx context.Context) (map[string]feedback.Record, error) {
	doc := map[string]feedback.Record{}
	found, err := r.load(ctx, FeedbackKey, &doc)
	if err != nil || !found || doc == nil {
		return map[string]feedback.Record{}, err
	}
	return doc, nil
}

// SaveFeedback stores the feedback ledger.
func (r *StateRepository) SaveFeedback(ctx context.Context, doc map[string]feedback.Record) error {
	if doc == nil {
		doc = map[string]feedback.Record{}
	}
	return r.save(ctx, FeedbackKey, doc)
}

// LoadWeights returns the stored custom vector, or nil when none was saved.
func (r *StateRepository) LoadWeights(ctx context.Context) (*weights.Vector, error) {
	var v *weights.Vector
	found, err := r.load(ctx, WeightsKey, &v)
	if err != nil || !found || v == nil {
		return nil, err
	}
	if v.Sum() <= 0 {
		r.logger.Warn("ignoring stored weights with no positive factor", "key", WeightsKey)
		return nil, nil
	}
	n := v.Normalize()
	return &n, nil
}

// SaveWeights stores the custom vector; nil clears it.
func (r *StateRepository) SaveWeights(ctx context.Context, v *weights.Vector) error {
	return r.save(ctx, WeightsKey, v)
}

// load decodes the document at key into dst. A missing or corrupt document reports
// found=false with no error; only backend failures are returned.
func (r *StateRepository) load(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, docstore.ErrNotFound) {
		r.logger.Debug("no stored document", "key", key)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Warn("stored document is corrupt, starting empty",
			"key", key,
			"driver", r.store.Driver(),
			"error", err,
		)
		return false, nil
	}
	return true, nil
}

func (r *StateRepository) save(ctx context.Context, key string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
