package seeder

import (
	"context"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// TreeRepo is the slice of the tree repository the seeder needs.
type TreeRepo interface {
	Create(ctx context.Context, t *domain.Tree) (*domain.Tree, error)
	ListPresets(ctx context.Context) ([]*domain.Tree, error)
}

// SkillRepo inserts skills under pre-minted ids.
type SkillRepo interface {
	CreateWithID(ctx context.Context, s *domain.Skill) (*domain.Skill, error)
}

// AchievementRepo inserts achievements under pre-minted ids.
type AchievementRepo interface {
	CreateWithID(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error)
}

// OrientationRepo inserts the preset's layout.
type OrientationRepo interface {
	Create(ctx context.Context, o *domain.Orientation) (*domain.Orientation, error)
}

// UserRepo resolves or creates the system account owning preset nodes.
type UserRepo interface {
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) (*domain.User, error)
}

// TxManager runs one preset's writes atomically.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
