package domain

import (
	"time"

	"github.com/google/uuid"
)

// Achievement is a DAG node representing a completable milestone gated by
// prerequisite achievements. Every prerequisite id must resolve to another
// achievement of the same user and tree. CompletedAt is set iff Complete.
type Achievement struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	TreeID        uuid.UUID
	Title         string
	BackgroundURL string
	Description   string
	Prerequisites []uuid.UUID
	Complete      bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasPrerequisite reports whether id is in the immediate prerequisite list.
func (a *Achievement) HasPrerequisite(id uuid.UUID) bool {
	for _, p := range a.Prerequisites {
		if p == id {
			return true
		}
	}
	return false
}

// AchievementUpdateParams holds partial-update fields for an achievement.
// Nil means "leave unchanged".
type AchievementUpdateParams struct {
	Title         *string
	BackgroundURL *string
	Description   *string
	Prerequisites *[]uuid.UUID
	Complete      *bool
}

// AchievementFilter narrows achievement list queries. Next selects the
// frontier: incomplete achievements whose prerequisites are all complete.
type AchievementFilter struct {
	TreeID   *uuid.UUID
	Complete *bool
	Next     bool
}
