package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

const dayFormat = "2006-01-02"

// GetRecentActivity summarizes the authenticated user's activity over the
// lookback window: a UTC calendar-day histogram and the streak of
// consecutive active days scanned backward from today. Days with no
// activity before the first active day is found do not break the streak;
// the first gap after an active day does.
func (s *Service) GetRecentActivity(ctx context.Context) (*domain.RecentActivity, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := s.now()
	since := now.AddDate(0, 0, -s.streakDays)

	activities, err := s.activities.ListByUserSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	counts := make(map[string]int, len(activities))
	for _, a := range activities {
		counts[a.CreatedAt.UTC().Format(dayFormat)]++
	}

	return &domain.RecentActivity{
		Streak:      streakFrom(counts, now, s.streakDays),
		DailyCounts: counts,
	}, nil
}

// streakFrom scans backward from the given day counting consecutive active
// days, tolerating leading inactive days.
func streakFrom(counts map[string]int, from time.Time, windowDays int) int {
	streak := 0
	started := false

	for d := 0; d < windowDays; d++ {
		day := from.AddDate(0, 0, -d).UTC().Format(dayFormat)
		if counts[day] > 0 {
			streak++
			started = true
			continue
		}
		if started {
			break
		}
	}

	return streak
}
