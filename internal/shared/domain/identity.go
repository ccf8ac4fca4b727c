// Package domain holds the building blocks shared by the task, feedback and
// weight aggregates.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything with a stable identity and audit timestamps.
type Entity interface {
	ID() string
	CreatedAt() time.Time
	UpdatedAt() time.Time
}

// Identity is an opaque string id plus creation and modification times.
// Ids are free-form so tasks imported from other tools keep theirs.
type Identity struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
}

// NewIdentity stamps id with the current time. An empty id gets a UUID.
func NewIdentity(id string) Identity {
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	return Identity{id: id, createdAt: now, updatedAt: now}
}

// RestoreIdentity rebuilds an identity loaded from storage.
func RestoreIdentity(id string, createdAt, updatedAt time.Time) Identity {
	return Identity{id: id, createdAt: createdAt, updatedAt: updatedAt}
}

func (i Identity) ID() string           { return i.id }
func (i Identity) CreatedAt() time.Time { return i.createdAt }
func (i Identity) UpdatedAt() time.Time { return i.updatedAt }

// Touch moves the modification time to now.
func (i *Identity) Touch() {
	i.updatedAt = time.Now().UTC()
}

// SameAs reports whether other has the same id.
func (i Identity) SameAs(other Entity) bool {
	return other != nil && i.id == other.ID()
}
