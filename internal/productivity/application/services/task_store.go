// Package services holds the stateful application services of the productivity context.
package services

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/felixgeelhaar/priora/internal/engine/types"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/felixgeelhaar/priora/internal/shared/domain"
)

// TaskStore is the authoritative collection of tasks.
// Tasks are kept in insertion order; readers always receive detached copies.
type TaskStore struct {
	mu     sync.RWMutex
	order  []string
	tasks  map[string]*task.Task
	events []domain.DomainEvent
}

// NewTaskStore creates an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*task.Task)}
}

// Create adds a new task. A caller-supplied id must not already exist.
func (s *TaskStore) Create(f task.Fields) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id := strings.TrimSpace(f.ID); id != "" {
		if _, ok := s.tasks[id]; ok {
			return nil, fmt.Errorf("%w: %s", task.ErrDuplicateID, id)
		}
	}
	t, err := task.NewTask(f)
	if err != nil {
		return nil, err
	}
	if _, ok := s.tasks[t.ID()]; ok {
		return nil, fmt.Errorf("%w: %s", task.ErrDuplicateID, t.ID())
	}

	s.tasks[t.ID()] = t
	s.order = append(s.order, t.ID())
	s.collect(t)
	return clone(t), nil
}

// Update applies patch to the task with id.
func (s *TaskStore) Update(id string, patch task.Patch) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if _, err := t.Apply(patch); err != nil {
		return nil, err
	}
	s.collect(t)
	return clone(t), nil
}

// SetStatus moves the task with id to status. Repeating the current status changes nothing.
func (s *TaskStore) SetStatus(id, status string) (*task.Task, error) {
	st, err := task.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if err := t.SetStatus(st); err != nil {
		return nil, err
	}
	s.collect(t)
	return clone(t), nil
}

// ApplyScoreUpdate writes a score to the task matched by id, or failing that by the first exact title.
// It reports false and changes nothing when neither matches.
func (s *TaskStore) ApplyScoreUpdate(id, title string, score float64, explanation []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyScore(id, title, score, explanation)
}

// MergeScores applies every entry of a validated response under one lock.
// It returns how many entries matched a task.
func (s *TaskStore) MergeScores(scored []types.ScoredTask) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := 0
	for _, entry := range scored {
		if entry.Score == nil {
			continue
		}
		if s.applyScore(entry.ID, entry.Title, *entry.Score, entry.Explanation) {
			applied++
		}
	}
	return applied
}

func (s *TaskStore) applyScore(id, title string, score float64, explanation []string) bool {
	t := s.match(id, title)
	if t == nil {
		return false
	}
	t.ApplyScore(score, explanation)
	s.collect(t)
	return true
}

func (s *TaskStore) match(id, title string) *task.Task {
	if id = strings.TrimSpace(id); id != "" {
		if t, ok := s.tasks[id]; ok {
			return t
		}
	}
	if title == "" {
		return nil
	}
	for _, key := range s.order {
		if t := s.tasks[key]; t.Title() == title {
			return t
		}
	}
	return nil
}

// List yields the tasks matching filter. The sequence reads a snapshot taken when
// iteration starts, so it can be ranged over more than once.
func (s *TaskStore) List(filter task.Filter) iter.Seq[*task.Task] {
	return func(yield func(*task.Task) bool) {
		matched := make([]*task.Task, 0)
		for _, t := range s.All() {
			if filter.Matches(t) {
				matched = append(matched, t)
			}
		}
		task.Sort(matched, filter.SortBy)
		for _, t := range matched {
			if !yield(t) {
				return
			}
		}
	}
}

// Get returns a copy of the task with id.
func (s *TaskStore) Get(id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.find(id)
	if err != nil {
		return nil, err
	}
	return clone(t), nil
}

// Delete removes the task with id. Feedback recorded for it is kept elsewhere.
func (s *TaskStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.find(id)
	if err != nil {
		return err
	}
	t.MarkDeleted()
	s.collect(t)
	delete(s.tasks, t.ID())
	s.order = slices.DeleteFunc(s.order, func(key string) bool { return key == t.ID() })
	return nil
}

// All returns copies of every task in insertion order.
func (s *TaskStore) All() []*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*task.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, clone(s.tasks[id]))
	}
	return out
}

// Records returns the persisted form of every task in insertion order.
func (s *TaskStore) Records() []task.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]task.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.tasks[id].Record())
	}
	return out
}

// Restore replaces the store contents with records.
// Invalid records and repeated ids are skipped; the number skipped is returned.
func (s *TaskStore) Restore(records []task.Record) int {
	tasks := make(map[string]*task.Task, len(records))
	order := make([]string, 0, len(records))
	skipped := 0
	for _, r := range records {
		t, err := task.FromRecord(r)
		if err != nil {
			skipped++
			continue
		}
		if _, ok := tasks[t.ID()]; ok {
			skipped++
			continue
		}
		tasks[t.ID()] = t
		order = append(order, t.ID())
	}

	s.mu.Lock()
	s.tasks = tasks
	s.order = order
	s.events = nil
	s.mu.Unlock()
	return skipped
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Index returns copies of every task keyed by id.
func (s *TaskStore) Index() map[string]*task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*task.Task, len(s.tasks))
	for id, t := range s.tasks {
		out[id] = clone(t)
	}
	return out
}

// DrainEvents returns and clears the domain events recorded by mutations.
func (s *TaskStore) DrainEvents() []domain.DomainEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events
}

func (s *TaskStore) find(id string) (*task.Task, error) {
	t, ok := s.tasks[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, id)
	}
	return t, nil
}

func (s *TaskStore) collect(t *task.Task) {
	s.events = append(s.events, t.PullEvents()...)
}

func clone(t *task.Task) *task.Task {
	c, err := task.FromRecord(t.Record())
	if err != nil {
		panic(fmt.Sprintf("stored task %s cannot be copied: %v", t.ID(), err))
	}
	return c
}
