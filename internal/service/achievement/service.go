// Package achievement implements achievement management: prerequisite
// validation over the DAG, completion transitions with their cascade, the
// "next" frontier, and the splicing that keeps references resolvable when a
// node is removed.
package achievement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type achievementRepo interface {
	Create(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error)
	GetByID(ctx context.Context, achievementID uuid.UUID) (*domain.Achievement, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Achievement, error)
	List(ctx context.Context, userID uuid.UUID, filter domain.AchievementFilter, sort domain.AchievementSortMode) ([]*domain.Achievement, error)
	ListReferencing(ctx context.Context, id uuid.UUID) ([]*domain.Achievement, error)
	Update(ctx context.Context, achievementID uuid.UUID, params domain.AchievementUpdateParams) (*domain.Achievement, error)
	SetCompletion(ctx context.Context, achievementID uuid.UUID, complete bool, completedAt *time.Time) (*domain.Achievement, error)
	RemovePrerequisiteRefs(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, achievementID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type treeRepo interface {
	GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
}

type orientationRepo interface {
	GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error)
	ReplaceLocations(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides achievement management operations.
type Service struct {
	achievements achievementRepo
	trees        treeRepo
	orientations orientationRepo
	tx           txManager
	constraints  *domain.Constraints
	log          *slog.Logger
	now          func() time.Time
}

// NewService creates a new Achievement service.
func NewService(
	log *slog.Logger,
	achievements achievementRepo,
	trees treeRepo,
	orientations orientationRepo,
	tx txManager,
	constraints *domain.Constraints,
) *Service {
	return &Service{
		achievements: achievements,
		trees:        trees,
		orientations: orientations,
		tx:           tx,
		constraints:  constraints,
		log:          log.With("service", "achievement"),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// ownedAchievement loads an achievement and verifies it belongs to userID.
// Someone else's achievement reports not-found, the same as a dead id.
func (s *Service) ownedAchievement(ctx context.Context, userID, achievementID uuid.UUID) (*domain.Achievement, error) {
	a, err := s.achievements.GetByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, domain.NewNotFoundError("achievements", map[string]string{"achievementId": achievementID.String()})
	}
	return a, nil
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

// resolvePrerequisites loads the prerequisite ids and verifies each resolves
// to an achievement of the same user and tree.
func (s *Service) resolvePrerequisites(ctx context.Context, userID, treeID uuid.UUID, ids []uuid.UUID) ([]*domain.Achievement, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	loaded, err := s.achievements.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*domain.Achievement, len(loaded))
	for _, p := range loaded {
		byID[p.ID] = p
	}

	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, domain.NewNotFoundError("achievements", map[string]string{"prerequisiteId": id.String()})
		}
		if p.UserID != userID || p.TreeID != treeID {
			return nil, domain.NewValidationError("prerequisites", "must belong to the same user and tree")
		}
	}

	return loaded, nil
}
