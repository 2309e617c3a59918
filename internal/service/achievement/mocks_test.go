package achievement

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type achievementRepoMock struct {
	CreateFunc                 func(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error)
	GetByIDFunc                func(ctx context.Context, achievementID uuid.UUID) (*domain.Achievement, error)
	GetByIDsFunc               func(ctx context.Context, ids []uuid.UUID) ([]*domain.Achievement, error)
	ListFunc                   func(ctx context.Context, userID uuid.UUID, filter domain.AchievementFilter, sort domain.AchievementSortMode) ([]*domain.Achievement, error)
	ListReferencingFunc        func(ctx context.Context, id uuid.UUID) ([]*domain.Achievement, error)
	UpdateFunc                 func(ctx context.Context, achievementID uuid.UUID, params domain.AchievementUpdateParams) (*domain.Achievement, error)
	SetCompletionFunc          func(ctx context.Context, achievementID uuid.UUID, complete bool, completedAt *time.Time) (*domain.Achievement, error)
	RemovePrerequisiteRefsFunc func(ctx context.Context, id uuid.UUID) error
	DeleteFunc                 func(ctx context.Context, achievementID uuid.UUID) error
	CountByUserFunc            func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *achievementRepoMock) Create(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error) {
	return m.CreateFunc(ctx, a)
}

func (m *achievementRepoMock) GetByID(ctx context.Context, achievementID uuid.UUID) (*domain.Achievement, error) {
	return m.GetByIDFunc(ctx, achievementID)
}

func (m *achievementRepoMock) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Achievement, error) {
	return m.GetByIDsFunc(ctx, ids)
}

func (m *achievementRepoMock) List(ctx context.Context, userID uuid.UUID, filter domain.AchievementFilter, sort domain.AchievementSortMode) ([]*domain.Achievement, error) {
	return m.ListFunc(ctx, userID, filter, sort)
}

func (m *achievementRepoMock) ListReferencing(ctx context.Context, id uuid.UUID) ([]*domain.Achievement, error) {
	return m.ListReferencingFunc(ctx, id)
}

func (m *achievementRepoMock) Update(ctx context.Context, achievementID uuid.UUID, params domain.AchievementUpdateParams) (*domain.Achievement, error) {
	return m.UpdateFunc(ctx, achievementID, params)
}

func (m *achievementRepoMock) SetCompletion(ctx context.Context, achievementID uuid.UUID, complete bool, completedAt *time.Time) (*domain.Achievement, error) {
	return m.SetCompletionFunc(ctx, achievementID, complete, completedAt)
}

func (m *achievementRepoMock) RemovePrerequisiteRefs(ctx context.Context, id uuid.UUID) error {
	return m.RemovePrerequisiteRefsFunc(ctx, id)
}

func (m *achievementRepoMock) Delete(ctx context.Context, achievementID uuid.UUID) error {
	return m.DeleteFunc(ctx, achievementID)
}

func (m *achievementRepoMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.CountByUserFunc(ctx, userID)
}

type treeRepoMock struct {
	GetByIDFunc func(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
}

func (m *treeRepoMock) GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error) {
	return m.GetByIDFunc(ctx, treeID)
}

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

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

func testConstraints(t *testing.T) *domain.Constraints {
	t.Helper()
	c, err := domain.NewConstraints("skilltree.com", 50)
	if err != nil {
		t.Fatalf("build constraints: %v", err)
	}
	return c
}

// achievementStore is a map-backed achievementRepoMock. GetByID, GetByIDs
// and ListReferencing resolve from the map; SetCompletion mutates it and
// records the transitions, which is what the cascade tests need.
type achievementStore struct {
	byID        map[uuid.UUID]*domain.Achievement
	transitions []uuid.UUID
}

func newAchievementStore(achievements ...*domain.Achievement) *achievementStore {
	st := &achievementStore{byID: make(map[uuid.UUID]*domain.Achievement, len(achievements))}
	for _, a := range achievements {
		st.byID[a.ID] = a
	}
	return st
}

func (st *achievementStore) repo() *achievementRepoMock {
	return &achievementRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Achievement, error) {
			a, ok := st.byID[id]
			if !ok {
				return nil, domain.NewNotFoundError("achievements", map[string]string{"achievementId": id.String()})
			}
			return a, nil
		},
		GetByIDsFunc: func(ctx context.Context, ids []uuid.UUID) ([]*domain.Achievement, error) {
			out := make([]*domain.Achievement, 0, len(ids))
			for _, id := range ids {
				if a, ok := st.byID[id]; ok {
					out = append(out, a)
				}
			}
			return out, nil
		},
		ListReferencingFunc: func(ctx context.Context, id uuid.UUID) ([]*domain.Achievement, error) {
			var out []*domain.Achievement
			for _, a := range st.byID {
				for _, p := range a.Prerequisites {
					if p == id {
						out = append(out, a)
						break
					}
				}
			}
			return out, nil
		},
		RemovePrerequisiteRefsFunc: func(ctx context.Context, id uuid.UUID) error {
			for _, a := range st.byID {
				kept := make([]uuid.UUID, 0, len(a.Prerequisites))
				for _, p := range a.Prerequisites {
					if p != id {
						kept = append(kept, p)
					}
				}
				a.Prerequisites = kept
			}
			return nil
		},
		SetCompletionFunc: func(ctx context.Context, id uuid.UUID, complete bool, completedAt *time.Time) (*domain.Achievement, error) {
			a, ok := st.byID[id]
			if !ok {
				return nil, domain.NewNotFoundError("achievements", map[string]string{"achievementId": id.String()})
			}
			a.Complete = complete
			a.CompletedAt = completedAt
			st.transitions = append(st.transitions, id)
			return a, nil
		},
		UpdateFunc: func(ctx context.Context, id uuid.UUID, params domain.AchievementUpdateParams) (*domain.Achievement, error) {
			a, ok := st.byID[id]
			if !ok {
				return nil, domain.NewNotFoundError("achievements", map[string]string{"achievementId": id.String()})
			}
			if params.Title != nil {
				a.Title = *params.Title
			}
			if params.Description != nil {
				a.Description = *params.Description
			}
			if params.BackgroundURL != nil {
				a.BackgroundURL = *params.BackgroundURL
			}
			if params.Prerequisites != nil {
				a.Prerequisites = *params.Prerequisites
			}
			return a, nil
		},
	}
}

type serviceMocks struct {
	achievements *achievementRepoMock
	trees        *treeRepoMock
	orientations *orientationRepoMock
	tx           *txManagerMock
	now          func() time.Time
}

func newTestService(t *testing.T, m serviceMocks) *Service {
	t.Helper()

	if m.achievements == nil {
		m.achievements = &achievementRepoMock{}
	}
	if m.trees == nil {
		m.trees = &treeRepoMock{}
	}
	if m.orientations == nil {
		m.orientations = &orientationRepoMock{}
	}
	if m.tx == nil {
		m.tx = defaultTxMock()
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(log, m.achievements, m.trees, m.orientations, m.tx, testConstraints(t))
	if m.now != nil {
		svc.now = m.now
	}
	return svc
}
