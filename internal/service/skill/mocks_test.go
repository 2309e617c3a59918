package skill

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type skillRepoMock struct {
	CreateFunc           func(ctx context.Context, s *domain.Skill) (*domain.Skill, error)
	GetByIDFunc          func(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error)
	GetByIDsFunc         func(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error)
	ListFunc             func(ctx context.Context, userID uuid.UUID, filter domain.SkillFilter, sort domain.SkillSortMode) ([]*domain.Skill, error)
	ListByTreeFunc       func(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error)
	UpdateFunc           func(ctx context.Context, skillID uuid.UUID, params domain.SkillUpdateParams) (*domain.Skill, error)
	DeleteFunc           func(ctx context.Context, skillID uuid.UUID) error
	AddHoursFunc         func(ctx context.Context, skillID uuid.UUID, delta float64) error
	ReassignChildrenFunc func(ctx context.Context, parentID uuid.UUID, newParentID *uuid.UUID) error
	CountByUserFunc      func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *skillRepoMock) Create(ctx context.Context, s *domain.Skill) (*domain.Skill, error) {
	return m.CreateFunc(ctx, s)
}

func (m *skillRepoMock) GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	return m.GetByIDFunc(ctx, skillID)
}

func (m *skillRepoMock) GetByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error) {
	return m.GetByIDsFunc(ctx, skillIDs)
}

func (m *skillRepoMock) List(ctx context.Context, userID uuid.UUID, filter domain.SkillFilter, sort domain.SkillSortMode) ([]*domain.Skill, error) {
	return m.ListFunc(ctx, userID, filter, sort)
}

func (m *skillRepoMock) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error) {
	return m.ListByTreeFunc(ctx, treeID)
}

func (m *skillRepoMock) Update(ctx context.Context, skillID uuid.UUID, params domain.SkillUpdateParams) (*domain.Skill, error) {
	return m.UpdateFunc(ctx, skillID, params)
}

func (m *skillRepoMock) Delete(ctx context.Context, skillID uuid.UUID) error {
	return m.DeleteFunc(ctx, skillID)
}

func (m *skillRepoMock) AddHours(ctx context.Context, skillID uuid.UUID, delta float64) error {
	return m.AddHoursFunc(ctx, skillID, delta)
}

func (m *skillRepoMock) ReassignChildren(ctx context.Context, parentID uuid.UUID, newParentID *uuid.UUID) error {
	return m.ReassignChildrenFunc(ctx, parentID, newParentID)
}

func (m *skillRepoMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
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

type activityRepoMock struct {
	ListReferencingSkillFunc func(ctx context.Context, skillID uuid.UUID) ([]*domain.Activity, error)
	UpdateFunc               func(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error)
}

func (m *activityRepoMock) ListReferencingSkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Activity, error) {
	return m.ListReferencingSkillFunc(ctx, skillID)
}

func (m *activityRepoMock) Update(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error) {
	return m.UpdateFunc(ctx, activityID, params)
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

func noActivities() *activityRepoMock {
	return &activityRepoMock{
		ListReferencingSkillFunc: func(ctx context.Context, skillID uuid.UUID) ([]*domain.Activity, error) {
			return nil, nil
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

// skillStore is a map-backed skillRepoMock: GetByID resolves from the map and
// AddHours records every delta, which is what the hour propagation tests need.
type skillStore struct {
	byID   map[uuid.UUID]*domain.Skill
	deltas map[uuid.UUID]float64
	calls  []uuid.UUID
}

func newSkillStore(skills ...*domain.Skill) *skillStore {
	st := &skillStore{
		byID:   make(map[uuid.UUID]*domain.Skill, len(skills)),
		deltas: make(map[uuid.UUID]float64),
	}
	for _, sk := range skills {
		st.byID[sk.ID] = sk
	}
	return st
}

func (st *skillStore) repo() *skillRepoMock {
	return &skillRepoMock{
		GetByIDFunc: func(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
			sk, ok := st.byID[skillID]
			if !ok {
				return nil, domain.NewNotFoundError("skills", map[string]string{"skillId": skillID.String()})
			}
			return sk, nil
		},
		AddHoursFunc: func(ctx context.Context, skillID uuid.UUID, delta float64) error {
			st.deltas[skillID] += delta
			st.calls = append(st.calls, skillID)
			return nil
		},
	}
}

type serviceMocks struct {
	skills       *skillRepoMock
	trees        *treeRepoMock
	orientations *orientationRepoMock
	activities   *activityRepoMock
	tx           *txManagerMock
}

func newTestService(t *testing.T, m serviceMocks) *Service {
	t.Helper()

	if m.skills == nil {
		m.skills = &skillRepoMock{}
	}
	if m.trees == nil {
		m.trees = &treeRepoMock{}
	}
	if m.orientations == nil {
		m.orientations = &orientationRepoMock{}
	}
	if m.activities == nil {
		m.activities = noActivities()
	}
	if m.tx == nil {
		m.tx = defaultTxMock()
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(log, m.skills, m.trees, m.orientations, m.activities,
		m.tx, testConstraints(t))
}
