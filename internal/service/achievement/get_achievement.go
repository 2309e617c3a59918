package achievement

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// GetAchievement returns one of the authenticated user's achievements.
func (s *Service) GetAchievement(ctx context.Context, achievementID uuid.UUID) (*domain.Achievement, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if achievementID == uuid.Nil {
		return nil, domain.NewValidationError("achievement_id", "required")
	}

	a, err := s.ownedAchievement(ctx, userID, achievementID)
	if err != nil {
		return nil, fmt.Errorf("get achievement: %w", err)
	}

	return a, nil
}

// ListAchievements returns the authenticated user's achievements narrowed by
// the filter. With Next set, the result is the frontier: incomplete
// achievements whose prerequisites are all complete (no prerequisites counts
// as all complete).
func (s *Service) ListAchievements(ctx context.Context, input ListAchievementsInput) ([]*domain.Achievement, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	sort, _ := domain.ParseAchievementSortMode(input.Sort)

	filter := domain.AchievementFilter{TreeID: input.TreeID, Complete: input.Complete}
	if input.Next {
		incomplete := false
		filter.Complete = &incomplete
	}

	achievements, err := s.achievements.List(ctx, userID, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	if !input.Next {
		return achievements, nil
	}

	return s.filterFrontier(ctx, achievements)
}

// filterFrontier keeps the achievements whose prerequisites are all complete.
// A prerequisite id that does not resolve is a stored-data fault.
func (s *Service) filterFrontier(ctx context.Context, candidates []*domain.Achievement) ([]*domain.Achievement, error) {
	idSet := map[uuid.UUID]bool{}
	for _, a := range candidates {
		for _, p := range a.Prerequisites {
			idSet[p] = true
		}
	}

	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	loaded, err := s.achievements.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load prerequisites: %w", err)
	}

	complete := make(map[uuid.UUID]bool, len(loaded))
	for _, p := range loaded {
		complete[p.ID] = p.Complete
	}

	frontier := []*domain.Achievement{}
	for _, a := range candidates {
		eligible := true
		for _, p := range a.Prerequisites {
			done, ok := complete[p]
			if !ok {
				return nil, domain.NewConsistencyError("achievements",
					map[string]string{"achievementId": a.ID.String(), "prerequisiteId": p.String()},
					"prerequisite does not resolve")
			}
			if !done {
				eligible = false
				break
			}
		}
		if eligible {
			frontier = append(frontier, a)
		}
	}

	return frontier, nil
}
