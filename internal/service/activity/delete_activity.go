package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// DeleteActivity removes an activity and reverses its hours rollup, so a
// create followed by a delete is a no-op on every skill total.
func (s *Service) DeleteActivity(ctx context.Context, input DeleteActivityInput) error {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return err
	}

	a, err := s.ownedActivity(ctx, userID, input.ActivityID)
	if err != nil {
		return fmt.Errorf("get activity: %w", err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for skillID, hours := range a.HoursBySkill() {
			if err := s.hours.AddHours(txCtx, skillID, -hours); err != nil {
				return fmt.Errorf("reverse hours: %w", err)
			}
		}

		if err := s.activities.Delete(txCtx, a.ID); err != nil {
			return fmt.Errorf("delete activity: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "activity deleted",
		slog.String("user_id", userID.String()),
		slog.String("activity_id", a.ID.String()),
	)

	return nil
}
