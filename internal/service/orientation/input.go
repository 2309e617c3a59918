package orientation

import (
	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// ReplaceOrientationInput holds a full replacement of a tree's layout.
type ReplaceOrientationInput struct {
	TreeID               uuid.UUID
	SkillLocations       []domain.SkillLocation
	AchievementLocations []domain.AchievementLocation
}

// Validate checks the shape of the replacement: ids present, coordinates
// non-negative, no duplicate entries. Correspondence with live nodes is
// checked against the store by the service.
func (i ReplaceOrientationInput) Validate() error {
	var errs []domain.FieldError

	if i.TreeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tree_id", Message: "required"})
	}

	seenSkills := make(map[uuid.UUID]bool, len(i.SkillLocations))
	for _, sl := range i.SkillLocations {
		if sl.SkillID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "skill_locations", Message: "entry missing skill id"})
			continue
		}
		if seenSkills[sl.SkillID] {
			errs = append(errs, domain.FieldError{Field: "skill_locations", Message: "duplicate entry for skill " + sl.SkillID.String()})
		}
		seenSkills[sl.SkillID] = true
		if sl.X < 0 || sl.Y < 0 {
			errs = append(errs, domain.FieldError{Field: "skill_locations", Message: "coordinates must be non-negative"})
		}
	}

	seenAchievements := make(map[uuid.UUID]bool, len(i.AchievementLocations))
	for _, al := range i.AchievementLocations {
		if al.AchievementID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "achievement_locations", Message: "entry missing achievement id"})
			continue
		}
		if seenAchievements[al.AchievementID] {
			errs = append(errs, domain.FieldError{Field: "achievement_locations", Message: "duplicate entry for achievement " + al.AchievementID.String()})
		}
		seenAchievements[al.AchievementID] = true
		if al.X < 0 || al.Y < 0 {
			errs = append(errs, domain.FieldError{Field: "achievement_locations", Message: "coordinates must be non-negative"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// MoveNodeInput moves a single node to new coordinates. Kind tags which of
// the two location lists the node lives in.
type MoveNodeInput struct {
	TreeID uuid.UUID
	Kind   domain.NodeKind
	NodeID uuid.UUID
	X      float64
	Y      float64
}

// Validate checks all fields and collects all errors.
func (i MoveNodeInput) Validate() error {
	var errs []domain.FieldError

	if i.TreeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tree_id", Message: "required"})
	}
	if i.NodeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "node_id", Message: "required"})
	}
	if i.Kind != domain.NodeKindSkill && i.Kind != domain.NodeKindAchievement {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be SKILL or ACHIEVEMENT"})
	}
	if i.X < 0 {
		errs = append(errs, domain.FieldError{Field: "x", Message: "must be non-negative"})
	}
	if i.Y < 0 {
		errs = append(errs, domain.FieldError{Field: "y", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
