// Package skill implements skill management: validation of the forest
// invariants, ancestor hour propagation, and the healing that keeps the graph
// consistent when nodes are removed.
package skill

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type skillRepo interface {
	Create(ctx context.Context, s *domain.Skill) (*domain.Skill, error)
	GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.SkillFilter, sort domain.SkillSortMode) ([]*domain.Skill, error)
	ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error)
	Update(ctx context.Context, skillID uuid.UUID, params domain.SkillUpdateParams) (*domain.Skill, error)
	Delete(ctx context.Context, skillID uuid.UUID) error
	AddHours(ctx context.Context, skillID uuid.UUID, delta float64) error
	ReassignChildren(ctx context.Context, parentID uuid.UUID, newParentID *uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type treeRepo interface {
	GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
}

type orientationRepo interface {
	GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error)
	ReplaceLocations(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error)
}

type activityRepo interface {
	ListReferencingSkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Activity, error)
	Update(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides skill management operations.
type Service struct {
	skills       skillRepo
	trees        treeRepo
	orientations orientationRepo
	activities   activityRepo
	tx           txManager
	constraints  *domain.Constraints
	log          *slog.Logger
}

// NewService creates a new Skill service.
func NewService(
	log *slog.Logger,
	skills skillRepo,
	trees treeRepo,
	orientations orientationRepo,
	activities activityRepo,
	tx txManager,
	constraints *domain.Constraints,
) *Service {
	return &Service{
		skills:       skills,
		trees:        trees,
		orientations: orientations,
		activities:   activities,
		tx:           tx,
		constraints:  constraints,
		log:          log.With("service", "skill"),
	}
}

// ownedSkill loads a skill and verifies it belongs to userID. A skill owned
// by someone else reports not-found, the same as an id that never existed.
func (s *Service) ownedSkill(ctx context.Context, userID, skillID uuid.UUID) (*domain.Skill, error) {
	sk, err := s.skills.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if sk.UserID != userID {
		return nil, domain.NewNotFoundError("skills", map[string]string{"skillId": skillID.String()})
	}
	return sk, nil
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
