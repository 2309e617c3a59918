package skill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// UpdateSkill applies a partial update to one of the authenticated user's
// skills. Re-parenting is checked for cycles and moves the skill's subtree
// hours from the old ancestor chain to the new one.
func (s *Service) UpdateSkill(ctx context.Context, input UpdateSkillInput) (*domain.Skill, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	sk, err := s.ownedSkill(ctx, userID, input.SkillID)
	if err != nil {
		return nil, fmt.Errorf("get skill: %w", err)
	}

	reparent := input.ClearParent || input.ParentSkillID != nil
	if input.ParentSkillID != nil {
		parent, err := s.ownedSkill(ctx, userID, *input.ParentSkillID)
		if err != nil {
			return nil, fmt.Errorf("get parent skill: %w", err)
		}
		if parent.TreeID != sk.TreeID {
			return nil, domain.NewValidationError("parent_skill_id", "parent belongs to a different tree")
		}

		cycle, err := s.wouldCreateCycle(ctx, sk.ID, parent.ID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, domain.NewValidationError("parent_skill_id", "would make the skill its own ancestor")
		}
	}

	params := domain.SkillUpdateParams{
		BackgroundURL: input.BackgroundURL,
		ParentSkillID: input.ParentSkillID,
		ClearParent:   input.ClearParent,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		params.Name = &trimmed
	}

	var updated *domain.Skill
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		// Move the subtree's hours off the old chain before the parent link
		// changes, then onto the new chain after.
		if reparent && sk.ParentSkillID != nil && sk.TimeSpentHours > 0 {
			if err := s.AddHours(txCtx, *sk.ParentSkillID, -sk.TimeSpentHours); err != nil {
				return fmt.Errorf("remove hours from old parent chain: %w", err)
			}
		}

		var updateErr error
		updated, updateErr = s.skills.Update(txCtx, input.SkillID, params)
		if updateErr != nil {
			return fmt.Errorf("update skill: %w", updateErr)
		}

		if reparent && updated.ParentSkillID != nil && updated.TimeSpentHours > 0 {
			if err := s.AddHours(txCtx, *updated.ParentSkillID, updated.TimeSpentHours); err != nil {
				return fmt.Errorf("add hours to new parent chain: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill updated",
		slog.String("user_id", userID.String()),
		slog.String("skill_id", updated.ID.String()),
	)

	return updated, nil
}
