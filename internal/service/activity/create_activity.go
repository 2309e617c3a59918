package activity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// CreateActivity logs an activity and rolls its hours into the referenced
// skills, duration x weight each, in one transaction.
func (s *Service) CreateActivity(ctx context.Context, input CreateActivityInput) (*domain.Activity, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(s.constraints); err != nil {
		return nil, err
	}

	if err := s.checkSkillOwnership(ctx, userID, input.SkillWeights); err != nil {
		return nil, fmt.Errorf("check skills: %w", err)
	}

	var created *domain.Activity
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var createErr error
		created, createErr = s.activities.Create(txCtx, &domain.Activity{
			UserID:       userID,
			Name:         strings.TrimSpace(input.Name),
			Description:  input.Description,
			Duration:     input.Duration,
			SkillWeights: input.SkillWeights,
		})
		if createErr != nil {
			return fmt.Errorf("create activity: %w", createErr)
		}

		for skillID, hours := range created.HoursBySkill() {
			if err := s.hours.AddHours(txCtx, skillID, hours); err != nil {
				return fmt.Errorf("roll up hours: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "activity created",
		slog.String("user_id", userID.String()),
		slog.String("activity_id", created.ID.String()),
		slog.Float64("duration", created.Duration),
	)

	return created, nil
}
