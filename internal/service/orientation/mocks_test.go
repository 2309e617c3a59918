package orientation

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type orientationRepoMock struct {
	GetByTreeIDFunc      func(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error)
	ReplaceLocationsFunc func(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error)
}

func (m *orientationRepoMock) GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error) {
	return m.GetByTreeIDFunc(ctx, treeID)
}

func (m *orientationRepoMock) ReplaceLocations(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error) {
	return m.ReplaceLocationsFunc(ctx, treeID, skills, achievements)
}

type treeRepoMock struct {
	GetByIDFunc func(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
}

func (m *treeRepoMock) GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error) {
	return m.GetByIDFunc(ctx, treeID)
}

type skillRepoMock struct {
	ListByTreeFunc func(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error)
}

func (m *skillRepoMock) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error) {
	return m.ListByTreeFunc(ctx, treeID)
}

type achievementRepoMock struct {
	ListByTreeFunc func(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error)
}

func (m *achievementRepoMock) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error) {
	return m.ListByTreeFunc(ctx, treeID)
}

func ownedTreeMock(userID, treeID uuid.UUID) *treeRepoMock {
	return &treeRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Tree, error) {
			if id != treeID {
				return nil, domain.NewNotFoundError("trees", map[string]string{"treeId": id.String()})
			}
			return &domain.Tree{ID: treeID, UserID: &userID, Visibility: domain.VisibilityPrivate}, nil
		},
	}
}

// passthroughReplace echoes the proposed locations back as the stored state.
func passthroughReplace() func(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error) {
	return func(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error) {
		return &domain.Orientation{
			TreeID:               treeID,
			SkillLocations:       skills,
			AchievementLocations: achievements,
		}, nil
	}
}

type serviceMocks struct {
	orientations *orientationRepoMock
	trees        *treeRepoMock
	skills       *skillRepoMock
	achievements *achievementRepoMock
}

func newTestService(t *testing.T, m serviceMocks) *Service {
	t.Helper()

	if m.orientations == nil {
		m.orientations = &orientationRepoMock{}
	}
	if m.trees == nil {
		m.trees = &treeRepoMock{}
	}
	if m.skills == nil {
		m.skills = &skillRepoMock{
			ListByTreeFunc: func(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error) {
				return nil, nil
			},
		}
	}
	if m.achievements == nil {
		m.achievements = &achievementRepoMock{
			ListByTreeFunc: func(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error) {
				return nil, nil
			},
		}
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, m.orientations, m.trees, m.skills, m.achievements)
}
