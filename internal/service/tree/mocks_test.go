package tree

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type treeRepoMock struct {
	CreateFunc      func(ctx context.Context, t *domain.Tree) (*domain.Tree, error)
	GetByIDFunc     func(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error)
	ListByUserFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.Tree, error)
	ListPresetsFunc func(ctx context.Context) ([]*domain.Tree, error)
	UpdateFunc      func(ctx context.Context, treeID uuid.UUID, params domain.TreeUpdateParams) (*domain.Tree, error)
	DeleteFunc      func(ctx context.Context, treeID uuid.UUID) error
}

func (m *treeRepoMock) Create(ctx context.Context, t *domain.Tree) (*domain.Tree, error) {
	return m.CreateFunc(ctx, t)
}

func (m *treeRepoMock) GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error) {
	return m.GetByIDFunc(ctx, treeID)
}

func (m *treeRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tree, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *treeRepoMock) ListPresets(ctx context.Context) ([]*domain.Tree, error) {
	return m.ListPresetsFunc(ctx)
}

func (m *treeRepoMock) Update(ctx context.Context, treeID uuid.UUID, params domain.TreeUpdateParams) (*domain.Tree, error) {
	return m.UpdateFunc(ctx, treeID, params)
}

func (m *treeRepoMock) Delete(ctx context.Context, treeID uuid.UUID) error {
	return m.DeleteFunc(ctx, treeID)
}

type skillRepoMock struct {
	CreateWithIDFunc func(ctx context.Context, s *domain.Skill) (*domain.Skill, error)
	ListByTreeFunc   func(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error)
	CountByUserFunc  func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *skillRepoMock) CreateWithID(ctx context.Context, s *domain.Skill) (*domain.Skill, error) {
	return m.CreateWithIDFunc(ctx, s)
}

func (m *skillRepoMock) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error) {
	return m.ListByTreeFunc(ctx, treeID)
}

func (m *skillRepoMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.CountByUserFunc(ctx, userID)
}

type achievementRepoMock struct {
	CreateWithIDFunc func(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error)
	ListByTreeFunc   func(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error)
	CountByUserFunc  func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *achievementRepoMock) CreateWithID(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error) {
	return m.CreateWithIDFunc(ctx, a)
}

func (m *achievementRepoMock) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error) {
	return m.ListByTreeFunc(ctx, treeID)
}

func (m *achievementRepoMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.CountByUserFunc(ctx, userID)
}

type orientationRepoMock struct {
	CreateFunc      func(ctx context.Context, o *domain.Orientation) (*domain.Orientation, error)
	GetByTreeIDFunc func(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error)
	ListByUserFunc  func(ctx context.Context, userID uuid.UUID) ([]*domain.Orientation, error)
}

func (m *orientationRepoMock) Create(ctx context.Context, o *domain.Orientation) (*domain.Orientation, error) {
	return m.CreateFunc(ctx, o)
}

func (m *orientationRepoMock) GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error) {
	return m.GetByTreeIDFunc(ctx, treeID)
}

func (m *orientationRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Orientation, error) {
	return m.ListByUserFunc(ctx, userID)
}

type userRepoMock struct {
	ExistsByIDFunc func(ctx context.Context, userID uuid.UUID) (bool, error)
	ListIDsFunc    func(ctx context.Context) ([]uuid.UUID, error)
}

func (m *userRepoMock) ExistsByID(ctx context.Context, userID uuid.UUID) (bool, error) {
	return m.ExistsByIDFunc(ctx, userID)
}

func (m *userRepoMock) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	return m.ListIDsFunc(ctx)
}

type friendCheckerMock struct {
	AreFriendsFunc func(ctx context.Context, a, b uuid.UUID) (bool, error)
}

func (m *friendCheckerMock) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	return m.AreFriendsFunc(ctx, a, b)
}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.RunInTxFunc(ctx, fn)
}

// defaultTxMock returns a txManagerMock that simply calls the function with
// the same context.
func defaultTxMock() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

func noFriends() *friendCheckerMock {
	return &friendCheckerMock{
		AreFriendsFunc: func(ctx context.Context, a, b uuid.UUID) (bool, error) {
			return false, nil
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

type serviceMocks struct {
	trees        *treeRepoMock
	skills       *skillRepoMock
	achievements *achievementRepoMock
	orientations *orientationRepoMock
	users        *userRepoMock
	friends      *friendCheckerMock
	tx           *txManagerMock
}

func newTestService(t *testing.T, m serviceMocks) *Service {
	t.Helper()

	if m.trees == nil {
		m.trees = &treeRepoMock{}
	}
	if m.skills == nil {
		m.skills = &skillRepoMock{}
	}
	if m.achievements == nil {
		m.achievements = &achievementRepoMock{}
	}
	if m.orientations == nil {
		m.orientations = &orientationRepoMock{}
	}
	if m.users == nil {
		m.users = &userRepoMock{
			ExistsByIDFunc: func(ctx context.Context, userID uuid.UUID) (bool, error) { return true, nil },
		}
	}
	if m.friends == nil {
		m.friends = noFriends()
	}
	if m.tx == nil {
		m.tx = defaultTxMock()
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, m.trees, m.skills, m.achievements, m.orientations,
		m.users, m.friends, m.tx, testConstraints(t))
}
