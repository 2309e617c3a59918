// Package friendship implements the social-graph membership check consumed
// by visibility rules: FRIENDS trees are readable and copyable only across
// an ACCEPTED edge.
package friendship

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

type friendshipRepo interface {
	AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error)
	Create(ctx context.Context, f *domain.Friendship) (*domain.Friendship, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Friendship, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendshipStatus) (*domain.Friendship, error)
}

type userRepo interface {
	ExistsByID(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Service provides friendship operations.
type Service struct {
	friendships friendshipRepo
	users       userRepo
	log         *slog.Logger
}

// NewService creates a new Friendship service.
func NewService(log *slog.Logger, friendships friendshipRepo, users userRepo) *Service {
	return &Service{
		friendships: friendships,
		users:       users,
		log:         log.With("service", "friendship"),
	}
}

// AreFriends reports whether an ACCEPTED friendship exists between the two
// users, in either direction.
func (s *Service) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	if a == uuid.Nil || b == uuid.Nil {
		return false, domain.NewValidationError("user_id", "required")
	}
	if a == b {
		return false, nil
	}

	ok, err := s.friendships.AreFriends(ctx, a, b)
	if err != nil {
		return false, fmt.Errorf("are friends: %w", err)
	}

	return ok, nil
}

// RequestFriendship creates a PENDING edge from the authenticated user to
// addressee.
func (s *Service) RequestFriendship(ctx context.Context, addresseeID uuid.UUID) (*domain.Friendship, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if addresseeID == uuid.Nil {
		return nil, domain.NewValidationError("addressee_id", "required")
	}
	if addresseeID == userID {
		return nil, domain.NewValidationError("addressee_id", "cannot befriend yourself")
	}

	exists, err := s.users.ExistsByID(ctx, addresseeID)
	if err != nil {
		return nil, fmt.Errorf("check addressee: %w", err)
	}
	if !exists {
		return nil, domain.NewNotFoundError("users", map[string]string{"userId": addresseeID.String()})
	}

	f, err := s.friendships.Create(ctx, &domain.Friendship{
		RequesterID: userID,
		AddresseeID: addresseeID,
		Status:      domain.FriendshipPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create friendship: %w", err)
	}

	s.log.InfoContext(ctx, "friendship requested",
		slog.String("requester_id", userID.String()),
		slog.String("addressee_id", addresseeID.String()),
	)

	return f, nil
}

// RespondToFriendship accepts or declines a PENDING request addressed to the
// authenticated user.
func (s *Service) RespondToFriendship(ctx context.Context, friendshipID uuid.UUID, accept bool) (*domain.Friendship, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if friendshipID == uuid.Nil {
		return nil, domain.NewValidationError("friendship_id", "required")
	}

	edges, err := s.friendships.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	var edge *domain.Friendship
	for i := range edges {
		if edges[i].ID == friendshipID {
			edge = &edges[i]
			break
		}
	}
	if edge == nil || edge.AddresseeID != userID {
		return nil, domain.NewNotFoundError("friendships", map[string]string{"friendshipId": friendshipID.String()})
	}
	if edge.Status != domain.FriendshipPending {
		return nil, fmt.Errorf("friendship already %s: %w", edge.Status, domain.ErrConflict)
	}

	status := domain.FriendshipDeclined
	if accept {
		status = domain.FriendshipAccepted
	}

	updated, err := s.friendships.UpdateStatus(ctx, friendshipID, status)
	if err != nil {
		return nil, fmt.Errorf("update friendship: %w", err)
	}

	s.log.InfoContext(ctx, "friendship responded",
		slog.String("user_id", userID.String()),
		slog.String("friendship_id", friendshipID.String()),
		slog.String("status", string(status)),
	)

	return updated, nil
}

// ListFriends returns the ids of the authenticated user's ACCEPTED friends.
func (s *Service) ListFriends(ctx context.Context) ([]uuid.UUID, error) {
	userID, ok := ctxutil.ActorIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	edges, err := s.friendships.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	friends := []uuid.UUID{}
	for _, e := range edges {
		if e.Status != domain.FriendshipAccepted {
			continue
		}
		if e.RequesterID == userID {
			friends = append(friends, e.AddresseeID)
		} else {
			friends = append(friends, e.RequesterID)
		}
	}

	return friends, nil
}
