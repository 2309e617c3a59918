package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tree is the top-level container grouping skills, achievements, and exactly
// one orientation. UserID is nil only for PRESET trees, which are ownerless
// templates.
type Tree struct {
	ID            uuid.UUID
	UserID        *uuid.UUID
	Name          string
	BackgroundURL string
	Description   string
	Visibility    Visibility
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPreset reports whether the tree is an ownerless template.
func (t *Tree) IsPreset() bool {
	return t.Visibility == VisibilityPreset
}

// OwnedBy reports whether the tree belongs to the given user.
func (t *Tree) OwnedBy(userID uuid.UUID) bool {
	return t.UserID != nil && *t.UserID == userID
}

// TreeUpdateParams holds partial-update fields for a tree.
// Nil means "leave unchanged".
type TreeUpdateParams struct {
	Name          *string
	BackgroundURL *string
	Description   *string
	Visibility    *Visibility
}

// TreeStats is the aggregated summary of one tree, or of all trees of a user
// when summed. TotalTimeLogged counts root-skill hours only: hours added to a
// leaf skill are propagated up its ancestor chain, so summing every skill
// would double count.
type TreeStats struct {
	TotalTimeLogged       float64
	TotalSkills           int
	TotalAchievements     int
	AchievementsCompleted int
}

// Add accumulates another tree's stats into s.
func (s *TreeStats) Add(other TreeStats) {
	s.TotalTimeLogged += other.TotalTimeLogged
	s.TotalSkills += other.TotalSkills
	s.TotalAchievements += other.TotalAchievements
	s.AchievementsCompleted += other.AchievementsCompleted
}

// FavoriteTree is the user's tree with the greatest root-skill hour total,
// together with its stats.
type FavoriteTree struct {
	TreeID        uuid.UUID
	Name          string
	BackgroundURL string
	Stats         TreeStats
}
