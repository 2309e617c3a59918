package tree

import (
	"strings"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// CreateTreeInput holds the parameters for creating a tree. Visibility
// defaults to PRIVATE; PRESET cannot be created through this path since
// presets are ownerless.
type CreateTreeInput struct {
	Name          string
	BackgroundURL string
	Description   string
	Visibility    string
}

// Validate checks all fields and collects all errors.
func (i CreateTreeInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if !c.TreeName.MatchString(strings.TrimSpace(i.Name)) {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be 3-50 characters: letters, digits, dot, underscore, space"})
	}
	if i.Description != "" && !c.Description.MatchString(i.Description) {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be 1-500 printable characters"})
	}
	if !c.ValidImageURL(i.BackgroundURL) {
		errs = append(errs, domain.FieldError{Field: "background_url", Message: "not an allowed image URL"})
	}
	if i.Visibility != "" {
		v, err := domain.ParseVisibility(i.Visibility)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "visibility", Message: "unknown visibility"})
		} else if v == domain.VisibilityPreset {
			errs = append(errs, domain.FieldError{Field: "visibility", Message: "presets are ownerless and cannot be created here"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// visibilityOrDefault returns the parsed visibility, defaulting to PRIVATE.
func (i CreateTreeInput) visibilityOrDefault() domain.Visibility {
	if i.Visibility == "" {
		return domain.VisibilityPrivate
	}
	v, _ := domain.ParseVisibility(i.Visibility)
	return v
}

// UpdateTreeInput holds the parameters for updating a tree.
// Nil means "leave unchanged".
type UpdateTreeInput struct {
	TreeID        uuid.UUID
	Name          *string
	BackgroundURL *string
	Description   *string
	Visibility    *string
}

// Validate checks all fields and collects all errors.
func (i UpdateTreeInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if i.TreeID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "tree_id", Message: "required"})
	}
	if i.Name == nil && i.BackgroundURL == nil && i.Description == nil && i.Visibility == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Name != nil && !c.TreeName.MatchString(strings.TrimSpace(*i.Name)) {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be 3-50 characters: letters, digits, dot, underscore, space"})
	}
	if i.Description != nil && *i.Description != "" && !c.Description.MatchString(*i.Description) {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be 1-500 printable characters"})
	}
	if i.BackgroundURL != nil && !c.ValidImageURL(*i.BackgroundURL) {
		errs = append(errs, domain.FieldError{Field: "background_url", Message: "not an allowed image URL"})
	}
	if i.Visibility != nil {
		v, err := domain.ParseVisibility(*i.Visibility)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "visibility", Message: "unknown visibility"})
		} else if v == domain.VisibilityPreset {
			errs = append(errs, domain.FieldError{Field: "visibility", Message: "owned trees cannot become presets"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteTreeInput holds the parameters for deleting a tree.
type DeleteTreeInput struct {
	TreeID uuid.UUID
}

// Validate checks all fields.
func (i DeleteTreeInput) Validate() error {
	if i.TreeID == uuid.Nil {
		return domain.NewValidationError("tree_id", "required")
	}
	return nil
}

// CopyTreeInput holds the parameters for copying a tree into the
// authenticated user's account.
type CopyTreeInput struct {
	SourceTreeID uuid.UUID
}

// Validate checks all fields.
func (i CopyTreeInput) Validate() error {
	if i.SourceTreeID == uuid.Nil {
		return domain.NewValidationError("source_tree_id", "required")
	}
	return nil
}
