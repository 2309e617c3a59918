package skill

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// GetSkill returns one of the authenticated user's skills.
func (s *Service) GetSkill(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if skillID == uuid.Nil {
		return nil, domain.NewValidationError("skill_id", "required")
	}

	sk, err := s.ownedSkill(ctx, userID, skillID)
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}

	return sk, nil
}

// ListSkills returns the authenticated user's skills narrowed by the filter.
func (s *Service) ListSkills(ctx context.Context, input ListSkillsInput) ([]*domain.Skill, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	sort, _ := domain.ParseSkillSortMode(input.Sort)

	skills, err := s.skills.List(ctx, userID, domain.SkillFilter{
		TreeID:        input.TreeID,
		ParentSkillID: input.ParentSkillID,
		Root:          input.Root,
	}, sort)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}

	return skills, nil
}
