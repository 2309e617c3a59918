package achievement

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// UpdateAchievement applies a partial update to one of the authenticated
// user's achievements. Prerequisite edits are checked for resolution,
// ownership, and cycle-freedom. Completion transitions set or clear
// completedAt server-side; marking a complete achievement incomplete, or
// attaching an incomplete prerequisite, cascades incompleteness to all
// transitive dependents.
func (s *Service) UpdateAchievement(ctx context.Context, input UpdateAchievementInput) (*domain.Achievement, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	a, err := s.ownedAchievement(ctx, userID, input.AchievementID)
	if err != nil {
		return nil, fmt.Errorf("get achievement: %w", err)
	}

	var prereqsIncomplete bool
	if input.Prerequisites != nil {
		resolved, err := s.resolvePrerequisites(ctx, userID, a.TreeID, *input.Prerequisites)
		if err != nil {
			return nil, fmt.Errorf("resolve prerequisites: %w", err)
		}
		for _, p := range resolved {
			if p.ID == a.ID {
				return nil, domain.NewValidationError("prerequisites", "cannot depend on itself")
			}
			if !p.Complete {
				prereqsIncomplete = true
			}
		}

		cycle, err := s.wouldCreateCycle(ctx, a.ID, *input.Prerequisites)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, domain.NewValidationError("prerequisites", "would create a prerequisite cycle")
		}
	}

	params := domain.AchievementUpdateParams{
		BackgroundURL: input.BackgroundURL,
		Description:   input.Description,
		Prerequisites: input.Prerequisites,
	}
	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		params.Title = &trimmed
	}

	var updated *domain.Achievement
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.achievements.Update(txCtx, a.ID, params)
		if updateErr != nil {
			return fmt.Errorf("update achievement: %w", updateErr)
		}

		switch {
		case input.Complete != nil && *input.Complete && !a.Complete:
			now := s.now()
			updated, updateErr = s.achievements.SetCompletion(txCtx, a.ID, true, &now)
			if updateErr != nil {
				return fmt.Errorf("mark complete: %w", updateErr)
			}

		case input.Complete != nil && !*input.Complete && a.Complete:
			updated, updateErr = s.achievements.SetCompletion(txCtx, a.ID, false, nil)
			if updateErr != nil {
				return fmt.Errorf("mark incomplete: %w", updateErr)
			}
			return s.cascadeIncomplete(txCtx, a.ID)

		case prereqsIncomplete && a.Complete:
			// A complete achievement cannot sit on top of incomplete work.
			updated, updateErr = s.achievements.SetCompletion(txCtx, a.ID, false, nil)
			if updateErr != nil {
				return fmt.Errorf("mark incomplete: %w", updateErr)
			}
		}

		// Gaining an incomplete prerequisite taints every transitive
		// dependent, even when the target was already incomplete.
		if prereqsIncomplete {
			return s.cascadeIncomplete(txCtx, a.ID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "achievement updated",
		slog.String("user_id", userID.String()),
		slog.String("achievement_id", updated.ID.String()),
	)

	return updated, nil
}
