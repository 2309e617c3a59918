package domain

import (
	"time"

	"github.com/google/uuid"
)

// SkillWeight attributes a fraction of an activity's duration to one skill.
type SkillWeight struct {
	SkillID uuid.UUID `json:"skillId"`
	Weight  float64   `json:"weight"`
}

// Activity is a logged unit of effort distributing Duration hours across
// weighted skills. Weights lie in [0,1] and sum to 1 within a small
// tolerance. Activities are the sole input of the hours rollup.
type Activity struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Description  string
	Duration     float64
	SkillWeights []SkillWeight
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SkillIDs returns the ids referenced by the activity's skill weights.
func (a *Activity) SkillIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(a.SkillWeights))
	for i, sw := range a.SkillWeights {
		ids[i] = sw.SkillID
	}
	return ids
}

// HoursBySkill returns Duration×Weight per referenced skill.
func (a *Activity) HoursBySkill() map[uuid.UUID]float64 {
	m := make(map[uuid.UUID]float64, len(a.SkillWeights))
	for _, sw := range a.SkillWeights {
		m[sw.SkillID] += sw.Weight * a.Duration
	}
	return m
}

// ActivityUpdateParams holds partial-update fields for an activity.
// Nil means "leave unchanged".
type ActivityUpdateParams struct {
	Name         *string
	Description  *string
	Duration     *float64
	SkillWeights *[]SkillWeight
}

// RecentActivity summarizes a user's activity over a lookback window:
// activity count per UTC calendar day (keyed "2006-01-02") and the current
// streak of consecutive active days counted backward from the most recent day.
type RecentActivity struct {
	Streak      int
	DailyCounts map[string]int
}
