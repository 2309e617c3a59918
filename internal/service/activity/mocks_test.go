package activity

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type activityRepoMock struct {
	CreateFunc           func(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	GetByIDFunc          func(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error)
	ListByUserFunc       func(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error)
	ListByUserSinceFunc  func(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Activity, error)
	ListByUsersSinceFunc func(ctx context.Context, userIDs []uuid.UUID, since time.Time) ([]*domain.Activity, error)
	UpdateFunc           func(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error)
	DeleteFunc           func(ctx context.Context, activityID uuid.UUID) error
}

func (m *activityRepoMock) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	return m.CreateFunc(ctx, a)
}

func (m *activityRepoMock) GetByID(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error) {
	return m.GetByIDFunc(ctx, activityID)
}

func (m *activityRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error) {
	return m.ListByUserFunc(ctx, userID)
}

func (m *activityRepoMock) ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Activity, error) {
	return m.ListByUserSinceFunc(ctx, userID, since)
}

func (m *activityRepoMock) ListByUsersSince(ctx context.Context, userIDs []uuid.UUID, since time.Time) ([]*domain.Activity, error) {
	return m.ListByUsersSinceFunc(ctx, userIDs, since)
}

func (m *activityRepoMock) Update(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error) {
	return m.UpdateFunc(ctx, activityID, params)
}

func (m *activityRepoMock) Delete(ctx context.Context, activityID uuid.UUID) error {
	return m.DeleteFunc(ctx, activityID)
}

type skillRepoMock struct {
	GetByIDsFunc func(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error)
}

func (m *skillRepoMock) GetByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error) {
	return m.GetByIDsFunc(ctx, skillIDs)
}

// hoursRecorder implements hoursRoller and records every delta per skill.
type hoursRecorder struct {
	deltas map[uuid.UUID]float64
	calls  int
}

func newHoursRecorder() *hoursRecorder {
	return &hoursRecorder{deltas: make(map[uuid.UUID]float64)}
}

func (r *hoursRecorder) AddHours(ctx context.Context, skillID uuid.UUID, delta float64) error {
	r.deltas[skillID] += delta
	r.calls++
	return nil
}

type friendListerMock struct {
	ListFriendsFunc func(ctx context.Context) ([]uuid.UUID, error)
}

func (m *friendListerMock) ListFriends(ctx context.Context) ([]uuid.UUID, error) {
	return m.ListFriendsFunc(ctx)
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

// ownedSkillsMock resolves every requested id to a skill of the given user.
func ownedSkillsMock(userID uuid.UUID) *skillRepoMock {
	return &skillRepoMock{
		GetByIDsFunc: func(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error) {
			out := make([]*domain.Skill, len(skillIDs))
			for i, id := range skillIDs {
				out[i] = &domain.Skill{ID: id, UserID: userID}
			}
			return out, nil
		},
	}
}

type serviceMocks struct {
	activities *activityRepoMock
	skills     *skillRepoMock
	hours      *hoursRecorder
	friends    *friendListerMock
	tx         *txManagerMock
	now        func() time.Time
	streakDays int
	feedDays   int
}

func newTestService(t *testing.T, m serviceMocks) *Service {
	t.Helper()

	if m.activities == nil {
		m.activities = &activityRepoMock{}
	}
	if m.skills == nil {
		m.skills = &skillRepoMock{}
	}
	if m.hours == nil {
		m.hours = newHoursRecorder()
	}
	if m.friends == nil {
		m.friends = &friendListerMock{
			ListFriendsFunc: func(ctx context.Context) ([]uuid.UUID, error) { return nil, nil },
		}
	}
	if m.tx == nil {
		m.tx = defaultTxMock()
	}
	if m.streakDays == 0 {
		m.streakDays = 30
	}
	if m.feedDays == 0 {
		m.feedDays = 7
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(log, m.activities, m.skills, m.hours, m.friends, m.tx,
		testConstraints(t), m.streakDays, m.feedDays)
	if m.now != nil {
		svc.now = m.now
	}
	return svc
}
