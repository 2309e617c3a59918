// Package tree implements tree management plus the three read-side engines
// that operate over a whole tree graph: the layout projector, the statistics
// aggregator, and the identifier-remapping copy engine.
package tree

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type treeRepo interface {
	Create(ctx context.Context, t *domain.Tree) (*domain.Tree, error)
	GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tree, error)
	ListPresets(ctx context.Context) ([]*domain.Tree, error)
	Update(ctx context.Context, treeID uuid.UUID, params domain.TreeUpdateParams) (*domain.Tree, error)
	Delete(ctx context.Context, treeID uuid.UUID) error
}

type skillRepo interface {
	CreateWithID(ctx context.Context, s *domain.Skill) (*domain.Skill, error)
	ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type achievementRepo interface {
	CreateWithID(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error)
	ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type orientationRepo interface {
	Create(ctx context.Context, o *domain.Orientation) (*domain.Orientation, error)
	GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Orientation, error)
}

type userRepo interface {
	ExistsByID(ctx context.Context, userID uuid.UUID) (bool, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// friendChecker is the external social-graph membership check consumed by
// FRIENDS-visibility rules.
type friendChecker interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides tree operations.
type Service struct {
	trees        treeRepo
	skills       skillRepo
	achievements achievementRepo
	orientations orientationRepo
	users        userRepo
	friends      friendChecker
	tx           txManager
	constraints  *domain.Constraints
	log          *slog.Logger
}

// NewService creates a new Tree service.
func NewService(
	log *slog.Logger,
	trees treeRepo,
	skills skillRepo,
	achievements achievementRepo,
	orientations orientationRepo,
	users userRepo,
	friends friendChecker,
	tx txManager,
	constraints *domain.Constraints,
) *Service {
	return &Service{
		trees:        trees,
		skills:       skills,
		achievements: achievements,
		orientations: orientations,
		users:        users,
		friends:      friends,
		tx:           tx,
		constraints:  constraints,
		log:          log.With("service", "tree"),
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

// checkReadAccess decides whether viewer may see the tree: PRESET and PUBLIC
// are open, PRIVATE is owner-only, FRIENDS needs the membership check.
func (s *Service) checkReadAccess(ctx context.Context, viewer uuid.UUID, t *domain.Tree) error {
	if t.IsPreset() || t.Visibility == domain.VisibilityPublic || t.OwnedBy(viewer) {
		return nil
	}

	if t.Visibility == domain.VisibilityFriends {
		ok, err := s.friends.AreFriends(ctx, viewer, *t.UserID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}

	return domain.ErrForbidden
}
