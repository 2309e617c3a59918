package orientation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// ReplaceOrientation overwrites the layout of one of the authenticated
// user's trees. The replacement must cover the live node set exactly: one
// entry per skill, one per achievement, nothing extra.
func (s *Service) ReplaceOrientation(ctx context.Context, input ReplaceOrientationInput) (*domain.Orientation, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ownedTree(ctx, userID, input.TreeID); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	if err := s.checkCoverage(ctx, input); err != nil {
		return nil, err
	}

	o, err := s.orientations.ReplaceLocations(ctx, input.TreeID, input.SkillLocations, input.AchievementLocations)
	if err != nil {
		return nil, fmt.Errorf("replace orientation: %w", err)
	}

	s.log.InfoContext(ctx, "orientation replaced",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", input.TreeID.String()),
	)

	return o, nil
}

// checkCoverage verifies 1:1 correspondence between the proposed location
// entries and the tree's live skills and achievements.
func (s *Service) checkCoverage(ctx context.Context, input ReplaceOrientationInput) error {
	skills, err := s.skills.ListByTree(ctx, input.TreeID)
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}
	achievements, err := s.achievements.ListByTree(ctx, input.TreeID)
	if err != nil {
		return fmt.Errorf("list achievements: %w", err)
	}

	var errs []domain.FieldError

	liveSkills := make(map[uuid.UUID]bool, len(skills))
	for _, sk := range skills {
		liveSkills[sk.ID] = true
	}
	liveAchievements := make(map[uuid.UUID]bool, len(achievements))
	for _, a := range achievements {
		liveAchievements[a.ID] = true
	}

	coveredSkills := make(map[uuid.UUID]bool, len(input.SkillLocations))
	for _, sl := range input.SkillLocations {
		if !liveSkills[sl.SkillID] {
			errs = append(errs, domain.FieldError{Field: "skill_locations",
				Message: "no skill with id " + sl.SkillID.String() + " in tree"})
		}
		coveredSkills[sl.SkillID] = true
	}
	for _, sk := range skills {
		if !coveredSkills[sk.ID] {
			errs = append(errs, domain.FieldError{Field: "skill_locations",
				Message: "missing entry for skill " + sk.ID.String()})
		}
	}

	coveredAchievements := make(map[uuid.UUID]bool, len(input.AchievementLocations))
	for _, al := range input.AchievementLocations {
		if !liveAchievements[al.AchievementID] {
			errs = append(errs, domain.FieldError{Field: "achievement_locations",
				Message: "no achievement with id " + al.AchievementID.String() + " in tree"})
		}
		coveredAchievements[al.AchievementID] = true
	}
	for _, a := range achievements {
		if !coveredAchievements[a.ID] {
			errs = append(errs, domain.FieldError{Field: "achievement_locations",
				Message: "missing entry for achievement " + a.ID.String()})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
