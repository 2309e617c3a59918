package domain

import (
	"time"

	"github.com/google/uuid"
)

// Skill is a forest node tracking accumulated effort hours. A skill has at
// most one parent; the parent must belong to the same tree and user.
// TimeSpentHours is maintained by the activity rollup and the ancestor
// propagation in the skill service — clients never set it directly.
type Skill struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	TreeID         uuid.UUID
	Name           string
	BackgroundURL  string
	TimeSpentHours float64
	ParentSkillID  *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRoot reports whether the skill has no parent.
func (s *Skill) IsRoot() bool {
	return s.ParentSkillID == nil
}

// SkillUpdateParams holds partial-update fields for a skill.
// Nil means "leave unchanged". ClearParent distinguishes "detach from parent"
// from "leave parent unchanged".
type SkillUpdateParams struct {
	Name          *string
	BackgroundURL *string
	ParentSkillID *uuid.UUID
	ClearParent   bool
}

// SkillFilter narrows skill list queries. ParentSkillID and Root are mutually
// exclusive; Root=true selects parent-less skills, Root=false selects skills
// with a parent.
type SkillFilter struct {
	TreeID        *uuid.UUID
	ParentSkillID *uuid.UUID
	Root          *bool
}
