// Package orientation implements spatial layout management for a tree:
// reading, wholesale replacement, and single-node moves, each validated
// against the live node set so locations and nodes stay in 1:1
// correspondence.
package orientation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type orientationRepo interface {
	GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error)
	ReplaceLocations(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error)
}

type treeRepo interface {
	GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
}

type skillRepo interface {
	ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error)
}

type achievementRepo interface {
	ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error)
}

// Service provides orientation operations.
type Service struct {
	orientations orientationRepo
	trees        treeRepo
	skills       skillRepo
	achievements achievementRepo
	log          *slog.Logger
}

// NewService creates a new Orientation service.
func NewService(
	log *slog.Logger,
	orientations orientationRepo,
	trees treeRepo,
	skills skillRepo,
	achievements achievementRepo,
) *Service {
	return &Service{
		orientations: orientations,
		trees:        trees,
		skills:       skills,
		achievements: achievements,
		log:          log.With("service", "orientation"),
	}
}

// ownedTree loads a tree and verifies it belongs to userID.
func (s *Service) ownedTree(ctx context.Context, userID, treeID uuid.UUID) (*domain.Tree, error) {
	t, err := s.trees.GetByID(ctx, treeID)
	if err != nil {
		return nil, err
	}
	if !t.OwnedBy(userID) {
		return nil, domain.NewNotFoundError("trees", map[string]string{"treeId": treeID.String()})
	}
	return t, nil
}
