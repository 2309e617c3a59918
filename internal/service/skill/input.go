package skill

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// CreateSkillInput holds the parameters for creating a skill. X and Y place
// the new skill on the tree's canvas; every live skill carries exactly one
// orientation entry, so the location is supplied at creation time.
type CreateSkillInput struct {
	TreeID        uuid.UUID
	Name          string
	BackgroundURL string
	ParentSkillID *uuid.UUID
	X             float64
	Y             float64
}

// Validate checks all fields and collects all errors.
func (i CreateSkillInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if i.TreeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tree_id", Message: "required"})
	}
	name := strings.TrimSpace(i.Name)
	if !c.SkillName.MatchString(name) {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be 1-50 printable characters"})
	}
	if !c.ValidImageURL(i.BackgroundURL) {
		errs = append(errs, domain.FieldError{Field: "background_url", Message: "not an allowed image URL"})
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

// UpdateSkillInput holds the parameters for updating a skill.
// Nil means "leave unchanged"; ClearParent detaches the skill into a root.
type UpdateSkillInput struct {
	SkillID       uuid.UUID
	Name          *string
	BackgroundURL *string
	ParentSkillID *uuid.UUID
	ClearParent   bool
}

// Validate checks all fields and collects all errors.
func (i UpdateSkillInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if i.SkillID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "skill_id", Message: "required"})
	}
	if i.Name == nil && i.BackgroundURL == nil && i.ParentSkillID == nil && !i.ClearParent {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.ClearParent && i.ParentSkillID != nil {
		errs = append(errs, domain.FieldError{Field: "parent_skill_id", Message: "cannot both set and clear parent"})
	}
	if i.Name != nil && !c.SkillName.MatchString(strings.TrimSpace(*i.Name)) {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be 1-50 printable characters"})
	}
	if i.BackgroundURL != nil && !c.ValidImageURL(*i.BackgroundURL) {
		errs = append(errs, domain.FieldError{Field: "background_url", Message: "not an allowed image URL"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteSkillInput holds the parameters for deleting a skill.
type DeleteSkillInput struct {
	SkillID uuid.UUID
}

// Validate checks all fields.
func (i DeleteSkillInput) Validate() error {
	if i.SkillID == uuid.Nil {
		return domain.NewValidationError("skill_id", "required")
	}
	return nil
}

// ListSkillsInput holds the parameters for listing skills.
type ListSkillsInput struct {
	TreeID        *uuid.UUID
	ParentSkillID *uuid.UUID
	Root          *bool
	Sort          string
}

// Validate checks filter combinations and the sort mode.
func (i ListSkillsInput) Validate() error {
	var errs []domain.FieldError

	if i.ParentSkillID != nil && i.Root != nil {
		errs = append(errs, domain.FieldError{Field: "filter", Message: "parent_skill_id and root are mutually exclusive"})
	}
	if _, err := domain.ParseSkillSortMode(i.Sort); err != nil {
		errs = append(errs, domain.FieldError{Field: "sort", Message: "unknown sort mode"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
