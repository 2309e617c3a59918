// Package friendship implements the Friendship repository using PostgreSQL.
// The copy engine consults it to decide whether FRIENDS-visibility trees are
// copyable by a requesting user.
package friendship

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/bproj/skilltree-backend/internal/adapter/postgres"
	"github.com/bproj/skilltree-backend/internal/domain"
)

// Repo provides friendship persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new friendship repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const areFriendsSQL = `
SELECT EXISTS (
    SELECT 1
    FROM friendships
    WHERE status = 'ACCEPTED'
      AND ((requester_id = $1 AND addressee_id = $2)
        OR (requester_id = $2 AND addressee_id = $1))
)`

const createSQL = `
INSERT INTO friendships (requester_id, addressee_id, status)
VALUES ($1, $2, $3)
RETURNING id, requester_id, addressee_id, status, created_at, updated_at`

const listByUserSQL = `
SELECT id, requester_id, addressee_id, status, created_at, updated_at
FROM friendships
WHERE requester_id = $1 OR addressee_id = $1
ORDER BY created_at`

const updateStatusSQL = `
UPDATE friendships
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, requester_id, addressee_id, status, created_at, updated_at`

// AreFriends reports whether an ACCEPTED friendship edge exists between the
// two users, in either direction.
func (r *Repo) AreFriends(ctx context.Context, a, b uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var ok bool
	if err := q.QueryRow(ctx, areFriendsSQL, a, b).Scan(&ok); err != nil {
		return false, fmt.Errorf("are friends: %w", err)
	}

	return ok, nil
}

// Create inserts a friendship edge.
// Returns domain.ErrAlreadyExists when an edge between the pair exists.
func (r *Repo) Create(ctx context.Context, f *domain.Friendship) (*domain.Friendship, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.Friendship
	err := q.QueryRow(ctx, createSQL, f.RequesterID, f.AddresseeID, f.Status).
		Scan(&created.ID, &created.RequesterID, &created.AddresseeID,
			&created.Status, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "friendships", map[string]string{
			"requesterId": f.RequesterID.String(),
			"addresseeId": f.AddresseeID.String(),
		})
	}

	return &created, nil
}

// ListByUser returns every friendship edge touching the user, oldest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Friendship, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}
	defer rows.Close()

	edges := []domain.Friendship{}
	for rows.Next() {
		var f domain.Friendship
		if err := rows.Scan(&f.ID, &f.RequesterID, &f.AddresseeID,
			&f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan friendship: %w", err)
		}
		edges = append(edges, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list friendships: %w", err)
	}

	return edges, nil
}

// UpdateStatus transitions an edge to a new status.
// Returns domain.NotFoundError if the edge does not exist.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FriendshipStatus) (*domain.Friendship, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var f domain.Friendship
	err := q.QueryRow(ctx, updateStatusSQL, id, status).
		Scan(&f.ID, &f.RequesterID, &f.AddresseeID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "friendships", map[string]string{"friendshipId": id.String()})
	}

	return &f, nil
}
