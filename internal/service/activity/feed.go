package activity

import (
	"context"
	"fmt"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// GetFriendFeed returns the recent activities of the authenticated user's
// accepted friends, newest first, bounded by the feed lookback window.
func (s *Service) GetFriendFeed(ctx context.Context) ([]*domain.Activity, error) {
	if _, ok := ctxutil.ActorIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	friendIDs, err := s.friends.ListFriends(ctx)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	if len(friendIDs) == 0 {
		return []*domain.Activity{}, nil
	}

	since := s.now().AddDate(0, 0, -s.feedDays)

	feed, err := s.activities.ListByUsersSince(ctx, friendIDs, since)
	if err != nil {
		return nil, fmt.Errorf("list friend activities: %w", err)
	}

	return feed, nil
}
