package activity

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// GetActivity returns one of the authenticated user's activities.
func (s *Service) GetActivity(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if activityID == uuid.Nil {
		return nil, domain.NewValidationError("activity_id", "required")
	}

	a, err := s.ownedActivity(ctx, userID, activityID)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}

	return a, nil
}

// ListActivities returns the authenticated user's activities, newest first.
func (s *Service) ListActivities(ctx context.Context) ([]*domain.Activity, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	activities, err := s.activities.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	return activities, nil
}
