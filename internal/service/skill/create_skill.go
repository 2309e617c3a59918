package skill

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// CreateSkill creates a skill in one of the authenticated user's trees,
// together with its orientation entry.
func (s *Service) CreateSkill(ctx context.Context, input CreateSkillInput) (*domain.Skill, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	if _, err := s.ownedTree(ctx, userID, input.TreeID); err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}

	if input.ParentSkillID != nil {
		parent, err := s.ownedSkill(ctx, userID, *input.ParentSkillID)
		if err != nil {
			return nil, fmt.Errorf("get parent skill: %w", err)
		}
		if parent.TreeID != input.TreeID {
			return nil, domain.NewValidationError("parent_skill_id", "parent belongs to a different tree")
		}
	}

	var created *domain.Skill
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.skills.Create(txCtx, &domain.Skill{
			UserID:        userID,
			TreeID:        input.TreeID,
			Name:          strings.TrimSpace(input.Name),
			BackgroundURL: input.BackgroundURL,
			ParentSkillID: input.ParentSkillID,
		})
		if createErr != nil {
			return fmt.Errorf("create skill: %w", createErr)
		}

		o, err := s.orientations.GetByTreeID(txCtx, input.TreeID)
		if err != nil {
			return fmt.Errorf("get orientation: %w", err)
		}
		o.AddSkillLocation(created.ID, input.X, input.Y)

		if _, err := s.orientations.ReplaceLocations(txCtx, input.TreeID, o.SkillLocations, o.AchievementLocations); err != nil {
			return fmt.Errorf("update orientation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "skill created",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", input.TreeID.String()),
		slog.String("skill_id", created.ID.String()),
	)

	return created, nil
}
