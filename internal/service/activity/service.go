// Package activity implements activity logging and the hours rollup: each
// activity distributes duration x weight hours into its skills on create,
// reverses them on delete, and re-diffs per-skill deltas on update. The
// rollup write is transactionally coupled with the activity write.
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
)

type activityRepo interface {
	Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	GetByID(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error)
	ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Activity, error)
	ListByUsersSince(ctx context.Context, userIDs []uuid.UUID, since time.Time) ([]*domain.Activity, error)
	Update(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error)
	Delete(ctx context.Context, activityID uuid.UUID) error
}

type skillRepo interface {
	GetByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error)
}

// hoursRoller applies a signed hour delta to a skill and its ancestor chain.
// Implemented by the skill service.
type hoursRoller interface {
	AddHours(ctx context.Context, skillID uuid.UUID, delta float64) error
}

// friendLister resolves the accepted friends of the authenticated user.
// Implemented by the friendship service.
type friendLister interface {
	ListFriends(ctx context.Context) ([]uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides activity operations and the hours rollup.
type Service struct {
	activities  activityRepo
	skills      skillRepo
	hours       hoursRoller
	friends     friendLister
	tx          txManager
	constraints *domain.Constraints
	streakDays  int
	feedDays    int
	log         *slog.Logger
	now         func() time.Time
}

// NewService creates a new Activity service. streakDays is the lookback
// window for the recent-activity summary, feedDays for the friend feed.
func NewService(
	log *slog.Logger,
	activities activityRepo,
	skills skillRepo,
	hours hoursRoller,
	friends friendLister,
	tx txManager,
	constraints *domain.Constraints,
	streakDays int,
	feedDays int,
) *Service {
	return &Service{
		activities:  activities,
		skills:      skills,
		hours:       hours,
		friends:     friends,
		tx:          tx,
		constraints: constraints,
		streakDays:  streakDays,
		feedDays:    feedDays,
		log:         log.With("service", "activity"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ownedActivity loads an activity and verifies it belongs to userID.
func (s *Service) ownedActivity(ctx context.Context, userID, activityID uuid.UUID) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, domain.NewNotFoundError("activities", map[string]string{"activityId": activityID.String()})
	}
	return a, nil
}

// checkSkillOwnership verifies every referenced skill exists and belongs to
// userID.
func (s *Service) checkSkillOwnership(ctx context.Context, userID uuid.UUID, weights []domain.SkillWeight) error {
	ids := make([]uuid.UUID, len(weights))
	for i, sw := range weights {
		ids[i] = sw.SkillID
	}

	skills, err := s.skills.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uuid.UUID]*domain.Skill, len(skills))
	for _, sk := range skills {
		byID[sk.ID] = sk
	}

	for _, id := range ids {
		sk, ok := byID[id]
		if !ok {
			return domain.NewNotFoundError("skills", map[string]string{"skillId": id.String()})
		}
		if sk.UserID != userID {
			return domain.NewNotFoundError("skills", map[string]string{"skillId": id.String()})
		}
	}

	return nil
}
