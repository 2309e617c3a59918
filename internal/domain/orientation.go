package domain

import (
	"time"

	"github.com/google/uuid"
)

// SkillLocation places one skill on a tree's canvas.
type SkillLocation struct {
	SkillID uuid.UUID `json:"skillId"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
}

// AchievementLocation places one achievement on a tree's canvas.
type AchievementLocation struct {
	AchievementID uuid.UUID `json:"achievementId"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
}

// Orientation is the spatial layout for one tree: exactly one location entry
// per live skill and per live achievement. Created together with its tree,
// deleted together with it. UserID mirrors the tree's owner and is nil for
// preset trees.
type Orientation struct {
	ID                   uuid.UUID
	UserID               *uuid.UUID
	TreeID               uuid.UUID
	SkillLocations       []SkillLocation
	AchievementLocations []AchievementLocation
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SkillLocationIndex returns the orientation's skill entries keyed by skill id.
func (o *Orientation) SkillLocationIndex() map[uuid.UUID]SkillLocation {
	m := make(map[uuid.UUID]SkillLocation, len(o.SkillLocations))
	for _, sl := range o.SkillLocations {
		m[sl.SkillID] = sl
	}
	return m
}

// AchievementLocationIndex returns the achievement entries keyed by achievement id.
func (o *Orientation) AchievementLocationIndex() map[uuid.UUID]AchievementLocation {
	m := make(map[uuid.UUID]AchievementLocation, len(o.AchievementLocations))
	for _, al := range o.AchievementLocations {
		m[al.AchievementID] = al
	}
	return m
}

// AddSkillLocation appends a location entry for a newly created skill.
func (o *Orientation) AddSkillLocation(skillID uuid.UUID, x, y float64) {
	o.SkillLocations = append(o.SkillLocations, SkillLocation{SkillID: skillID, X: x, Y: y})
}

// AddAchievementLocation appends a location entry for a newly created achievement.
func (o *Orientation) AddAchievementLocation(achievementID uuid.UUID, x, y float64) {
	o.AchievementLocations = append(o.AchievementLocations,
		AchievementLocation{AchievementID: achievementID, X: x, Y: y})
}

// RemoveSkillLocation drops the entry for skillID, if present.
func (o *Orientation) RemoveSkillLocation(skillID uuid.UUID) {
	kept := o.SkillLocations[:0]
	for _, sl := range o.SkillLocations {
		if sl.SkillID != skillID {
			kept = append(kept, sl)
		}
	}
	o.SkillLocations = kept
}

// RemoveAchievementLocation drops the entry for achievementID, if present.
func (o *Orientation) RemoveAchievementLocation(achievementID uuid.UUID) {
	kept := o.AchievementLocations[:0]
	for _, al := range o.AchievementLocations {
		if al.AchievementID != achievementID {
			kept = append(kept, al)
		}
	}
	o.AchievementLocations = kept
}
