package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// UpdateActivity applies a partial update and re-diffs the hours rollup:
// for the union of old and new referenced skills, each skill receives the
// signed delta (newWeight x newDuration) - (oldWeight x oldDuration).
// Subtract-all-then-re-add would transiently zero totals; the diff applies
// each skill's net change exactly once.
func (s *Service) UpdateActivity(ctx context.Context, input UpdateActivityInput) (*domain.Activity, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	old, err := s.ownedActivity(ctx, userID, input.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	if input.SkillWeights != nil {
		if err := s.checkSkillOwnership(ctx, userID, *input.SkillWeights); err != nil {
			return nil, fmt.Errorf("check skills: %w", err)
		}
	}

	params := domain.ActivityUpdateParams{
		Description:  input.Description,
		Duration:     input.Duration,
		SkillWeights: input.SkillWeights,
	}
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		params.Name = &trimmed
	}

	var updated *domain.Activity
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var updateErr error
		updated, updateErr = s.activities.Update(txCtx, old.ID, params)
		if updateErr != nil {
			return fmt.Errorf("update activity: %w", updateErr)
		}

		for skillID, delta := range hoursDiff(old, updated) {
			if err := s.hours.AddHours(txCtx, skillID, delta); err != nil {
				return fmt.Errorf("apply hours delta: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "activity updated",
		slog.String("user_id", userID.String()),
		slog.String("activity_id", updated.ID.String()),
	)

	return updated, nil
}

// hoursDiff computes the signed per-skill hour delta between two states of
// one activity, over the union of referenced skills. Zero deltas are dropped.
func hoursDiff(old, new *domain.Activity) map[uuid.UUID]float64 {
	diff := new.HoursBySkill()
	for skillID, hours := range old.HoursBySkill() {
		diff[skillID] -= hours
	}
	for skillID, delta := range diff {
		if delta == 0 {
			delete(diff, skillID)
		}
	}
	return diff
}
