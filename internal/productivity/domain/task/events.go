package task

import "github.com/felixgeelhaar/priora/internal/shared/domain"

const (
	AggregateType = "Task"

	RoutingKeyCreated       = "priora.task.created"
	RoutingKeyUpdated       = "priora.task.updated"
	RoutingKeyStatusChanged = "priora.task.status_changed"
	RoutingKeyScored        = "priora.task.scored"
	RoutingKeyDeleted       = "priora.task.deleted"
)

// TaskCreated is emitted when a new task is created.
type TaskCreated struct {
	domain.BaseEvent
	Title      string `json:"title"`
	Importance int    `json:"importance"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID, title string, importance int) *TaskCreated {
	return &TaskCreated{
		BaseEvent:  domain.NewBaseEvent(taskID, AggregateType, RoutingKeyCreated),
		Title:      title,
		Importance: importance,
	}
}

// TaskUpdated is emitted when a task is patched.
type TaskUpdated struct {
	domain.BaseEvent
	Fields []string `json:"fields"`
}

// NewTaskUpdated creates a TaskUpdated event.
func NewTaskUpdated(taskID string, fields []string) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyUpdated),
		Fields:    fields,
	}
}

// TaskStatusChanged is emitted when a task moves between board columns.
type TaskStatusChanged struct {
	domain.BaseEvent
	From string `json:"from"`
	To   string `json:"to"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(taskID string, from, to Status) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyStatusChanged),
		From:      from.String(),
		To:        to.String(),
	}
}

// TaskScored is emitted when a scoring response is merged into a task.
type TaskScored struct {
	domain.BaseEvent
	Score float64 `json:"score"`
}

// NewTaskScored creates a TaskScored event.
func NewTaskScored(taskID string, score float64) *TaskScored {
	return &TaskScored{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyScored),
		Score:     score,
	}
}

// TaskDeleted is emitted when a task is removed.
type TaskDeleted struct {
	domain.BaseEvent
}

// NewTaskDeleted creates a TaskDeleted event.
func NewTaskDeleted(taskID string) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: domain.NewBaseEvent(taskID, AggregateType, RoutingKeyDeleted),
	}
}
