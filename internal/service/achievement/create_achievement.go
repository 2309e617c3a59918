package achievement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// CreateAchievement creates an achievement in one of the authenticated
// user's trees, together with its orientation entry. Prerequisite ids are
// checked for existence and ownership. Cycle checks happen on update only:
// a freshly minted node has no dependents, so creation cannot close a loop.
func (s *Service) CreateAchievement(ctx context.Context, input CreateAchievementInput) (*domain.Achievement, error) {
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

	if _, err := s.resolvePrerequisites(ctx, userID, input.TreeID, input.Prerequisites); err != nil {
		return nil, fmt.Errorf("resolve prerequisites: %w", err)
	}

	var created *domain.Achievement
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.achievements.Create(txCtx, &domain.Achievement{
			UserID:        userID,
			TreeID:        input.TreeID,
			Title:         strings.TrimSpace(input.Title),
			BackgroundURL: input.BackgroundURL,
			Description:   input.Description,
			Prerequisites: input.Prerequisites,
		})
		if createErr != nil {
			return fmt.Errorf("create achievement: %w", createErr)
		}

		o, err := s.orientations.GetByTreeID(txCtx, input.TreeID)
		if err != nil {
			return fmt.Errorf("get orientation: %w", err)
		}
		o.AddAchievementLocation(created.ID, input.X, input.Y)

		if _, err := s.orientations.ReplaceLocations(txCtx, input.TreeID, o.SkillLocations, o.AchievementLocations); err != nil {
			return fmt.Errorf("update orientation: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "achievement created",
		slog.String("user_id", userID.String()),
		slog.String("tree_id", input.TreeID.String()),
		slog.String("achievement_id", created.ID.String()),
	)

	return created, nil
}
