package activity

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// CreateActivityInput holds the parameters for logging an activity.
type CreateActivityInput struct {
	Name         string
	Description  string
	Duration     float64
	SkillWeights []domain.SkillWeight
}

// Validate checks all fields and collects all errors.
func (i CreateActivityInput) Validate(c *domain.Constraints) error {
	errs := validateActivityFields(c, i.Name, i.Description, i.Duration, i.SkillWeights)
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateActivityInput holds the parameters for updating an activity.
// Nil means "leave unchanged".
type UpdateActivityInput struct {
	ActivityID   uuid.UUID
	Name         *string
	Description  *string
	Duration     *float64
	SkillWeights *[]domain.SkillWeight
}

// Validate checks all fields and collects all errors.
func (i UpdateActivityInput) Validate(c *domain.Constraints) error {
	var errs []domain.FieldError

	if i.ActivityID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "activity_id", Message: "required"})
	}
	if i.Name == nil && i.Description == nil && i.Duration == nil && i.SkillWeights == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Name != nil && !c.SkillName.MatchString(strings.TrimSpace(*i.Name)) {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be 1-50 printable characters"})
	}
	if i.Description != nil && *i.Description != "" && !c.Description.MatchString(*i.Description) {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be 1-500 printable characters"})
	}
	if i.Duration != nil && (*i.Duration < 0 || *i.Duration > c.MaxActivityHours) {
		errs = append(errs, domain.FieldError{Field: "duration", Message: "must be between 0 and 12 hours"})
	}
	if i.SkillWeights != nil {
		errs = append(errs, validateWeights(c, *i.SkillWeights)...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteActivityInput holds the parameters for deleting an activity.
type DeleteActivityInput struct {
	ActivityID uuid.UUID
}

// Validate checks all fields.
func (i DeleteActivityInput) Validate() error {
	if i.ActivityID == uuid.Nil {
		return domain.NewValidationError("activity_id", "required")
	}
	return nil
}

func validateActivityFields(c *domain.Constraints, name, description string, duration float64, weights []domain.SkillWeight) []domain.FieldError {
	var errs []domain.FieldError

	if !c.SkillName.MatchString(strings.TrimSpace(name)) {
		errs = append(errs, domain.FieldError{Field: "name", Message: "must be 1-50 printable characters"})
	}
	if description != "" && !c.Description.MatchString(description) {
		errs = append(errs, domain.FieldError{Field: "description", Message: "must be 1-500 printable characters"})
	}
	if duration < 0 || duration > c.MaxActivityHours {
		errs = append(errs, domain.FieldError{Field: "duration", Message: "must be between 0 and 12 hours"})
	}
	errs = append(errs, validateWeights(c, weights)...)

	return errs
}

func validateWeights(c *domain.Constraints, weights []domain.SkillWeight) []domain.FieldError {
	var errs []domain.FieldError

	if len(weights) == 0 {
		errs = append(errs, domain.FieldError{Field: "skill_weights", Message: "at least one skill required"})
		return errs
	}

	sum := 0.0
	seen := make(map[uuid.UUID]bool, len(weights))
	for _, sw := range weights {
		if sw.SkillID == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "skill_weights", Message: "entry missing skill id"})
			continue
		}
		if seen[sw.SkillID] {
			errs = append(errs, domain.FieldError{Field: "skill_weights", Message: "duplicate entry for skill " + sw.SkillID.String()})
		}
		seen[sw.SkillID] = true
		if sw.Weight < 0 || sw.Weight > 1 {
			errs = append(errs, domain.FieldError{Field: "skill_weights", Message: "weights must be within [0,1]"})
		}
		sum += sw.Weight
	}

	if math.Abs(sum-1.0) > c.WeightSumTolerance {
		errs = append(errs, domain.FieldError{Field: "skill_weights", Message: "weights must sum to 1.0"})
	}

	return errs
}
