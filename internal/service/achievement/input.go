package achievement

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// CreateAchievementInput holds the parameters for creating an achievement.
// X and Y place the new achievement on the tree's canvas.
type CreateAchievementInput struct {
	TreeID        uuid.UUID
	Title         string
	BackgroundURL string
	Description   string
	Prerequisites []uuid.UUID
	X             float64
	Y             float64
}

// Validate checks all fields and collects all errors.
func (i CreateAchievementInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if i.TreeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tree_id", Message: "required"})
	}
	if !c.Title.MatchString(strings.TrimSpace(i.Title)) {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must be 1-50 printable characters"})
	}
	if i.Description != "" && !c.Description.MatchString(i.Description) {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be 1-500 printable characters"})
	}
	if !c.ValidImageURL(i.BackgroundURL) {
		errs = append(errs, domain.FieldError{Field: "background_url", Message: "not an allowed image URL"})
	}
	if hasDuplicates(i.Prerequisites) {
		errs = append(errs, domain.FieldError{Field: "prerequisites", Message: "contains duplicate ids"})
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

// UpdateAchievementInput holds the parameters for updating an achievement.
// Nil means "leave unchanged".
type UpdateAchievementInput struct {
	AchievementID uuid.UUID
	Title         *string
	BackgroundURL *string
	Description   *string
	Prerequisites *[]uuid.UUID
	Complete      *bool
}

// Validate checks all fields and collects all errors.
func (i UpdateAchievementInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if i.AchievementID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "achievement_id", Message: "required"})
	}
	if i.Title == nil && i.BackgroundURL == nil && i.Description == nil &&
		i.Prerequisites == nil && i.Complete == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Title != nil && !c.Title.MatchString(strings.TrimSpace(*i.Title)) {
		errs = append(errs, domain.FieldError{Field: "title", Message: "must be 1-50 printable characters"})
	}
	if i.Description != nil && *i.Description != "" && !c.Description.MatchString(*i.Description) {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be 1-500 printable characters"})
	}
	if i.BackgroundURL != nil && !c.ValidImageURL(*i.BackgroundURL) {
		errs = append(errs, domain.FieldError{Field: "background_url", Message: "not an allowed image URL"})
	}
	if i.Prerequisites != nil && hasDuplicates(*i.Prerequisites) {
		errs = append(errs, domain.FieldError{Field: "prerequisites", Message: "contains duplicate ids"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteAchievementInput holds the parameters for deleting an achievement.
type DeleteAchievementInput struct {
	AchievementID uuid.UUID
}

// Validate checks all fields.
func (i DeleteAchievementInput) Validate() error {
	if i.AchievementID == uuid.Nil {
		return domain.NewValidationError("achievement_id", "required")
	}
	return nil
}

// ListAchievementsInput holds the parameters for listing achievements.
// Next narrows the result to the frontier: incomplete achievements whose
// prerequisites are all complete.
type ListAchievementsInput struct {
	TreeID   *uuid.UUID
	Complete *bool
	Next     bool
	Sort     string
}

// Validate checks filter combinations and the sort mode.
func (i ListAchievementsInput) Validate() error {
	var errs []domain.FieldError

	if i.Next && i.Complete != nil && *i.Complete {
		errs = append(errs, domain.FieldError{Field: "filter", Message: "next excludes complete achievements"})
	}
	if _, err := domain.ParseAchievementSortMode(i.Sort); err != nil {
		errs = append(errs, domain.FieldError{Field: "sort", Message: "unknown sort mode"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func hasDuplicates(ids []uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
