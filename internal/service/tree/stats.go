package tree

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// UserStats aggregates per-tree statistics across all trees owned by a user.
// Favorite is nil when the user owns no trees.
type UserStats struct {
	Totals   domain.TreeStats
	Favorite *domain.FavoriteTree
}

// GetTreeStats summarizes one tree the authenticated user may see.
func (s *Service) GetTreeStats(ctx context.Context, treeID uuid.UUID) (*domain.TreeStats, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if treeID == uuid.Nil {
		return nil, domain.NewValidationError("tree_id", "required")
	}

	t, err := s.trees.GetByID(ctx, treeID)
	if err != nil {
		return nil, fmt.Errorf("get tree: %w", err)
	}
	if err := s.checkReadAccess(ctx, userID, t); err != nil {
		return nil, err
	}

	stats, err := s.treeStats(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetUserStats sums per-tree statistics over every tree the authenticated
// user owns and picks the favorite: the tree with the greatest root-skill
// hour total. Ties go to the earliest created tree so re-runs are stable.
func (s *Service) GetUserStats(ctx context.Context) (*UserStats, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	trees, err := s.trees.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}

	result := &UserStats{}
	var bestHours float64

	// ListByUser orders by created_at, so the first tree seen at a given
	// hour total is the earliest created one.
	for _, t := range trees {
		stats, err := s.treeStats(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		result.Totals.Add(stats)

		if result.Favorite == nil || stats.TotalTimeLogged > bestHours {
			bestHours = stats.TotalTimeLogged
			result.Favorite = &domain.FavoriteTree{
				TreeID:        t.ID,
				Name:          t.Name,
				BackgroundURL: t.BackgroundURL,
				Stats:         stats,
			}
		}
	}

	return result, nil
}

// treeStats computes one tree's summary. TotalTimeLogged sums root skills
// only: child hours are already propagated into their ancestor chain, so
// summing every skill would double count.
func (s *Service) treeStats(ctx context.Context, treeID uuid.UUID) (domain.TreeStats, error) {
	skills, err := s.skills.ListByTree(ctx, treeID)
	if err != nil {
		return domain.TreeStats{}, fmt.Errorf("list skills: %w", err)
	}
	achievements, err := s.achievements.ListByTree(ctx, treeID)
	if err != nil {
		return domain.TreeStats{}, fmt.Errorf("list achievements: %w", err)
	}

	stats := domain.TreeStats{
		TotalSkills:       len(skills),
		TotalAchievements: len(achievements),
	}
	for _, sk := range skills {
		if sk.IsRoot() {
			stats.TotalTimeLogged += sk.TimeSpentHours
		}
	}
	for _, a := range achievements {
		if a.Complete {
			stats.AchievementsCompleted++
		}
	}

	return stats, nil
}
