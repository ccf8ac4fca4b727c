package queries

import (
	"time"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	DueDate        string    `json:"due_date,omitempty"`
	EstimatedHours *float64  `json:"estimated_hours"`
	Importance     int       `json:"importance"`
	Dependencies   []string  `json:"dependencies"`
	Status         string    `json:"status"`
	Score          *float64  `json:"score,omitempty"`
	Explanation    []string  `json:"explanation,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToDTO maps a task to its transfer form.
func ToDTO(t *task.Task) TaskDTO {
	dto := TaskDTO{
		ID:             t.ID(),
		Title:          t.Title(),
		EstimatedHours: t.EstimatedHours(),
		Importance:     t.Importance().Int(),
		Dependencies:   t.Dependencies(),
		Status:         t.Status().String(),
		Score:          t.Score(),
		Explanation:    t.Explanation(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
	if dto.Dependencies == nil {
		dto.Dependencies = []string{}
	}
	if due := t.DueDate(); due != nil {
		dto.DueDate = due.String()
	}
	return dto
}
