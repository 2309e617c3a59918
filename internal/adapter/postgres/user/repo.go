// Package user implements the User repository using PostgreSQL.
// The core only needs users for ownership validation; identity resolution
// itself lives outside this service.
package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/bproj/skilltree-backend/internal/adapter/postgres"
	"github.com/bproj/skilltree-backend/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new user repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const getByIDSQL = `
SELECT id, display_name, profile_picture_url, created_at, updated_at
FROM users
WHERE id = $1`

const existsByIDSQL = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`

const getByIDsSQL = `
SELECT id, display_name, profile_picture_url, created_at, updated_at
FROM users
WHERE id = ANY($1::uuid[])`

const createSQL = `
INSERT INTO users (display_name, profile_picture_url)
VALUES ($1, $2)
RETURNING id, display_name, profile_picture_url, created_at, updated_at`

const listIDsSQL = `SELECT id FROM users ORDER BY created_at`

const getByDisplayNameSQL = `
SELECT id, display_name, profile_picture_url, created_at, updated_at
FROM users
WHERE display_name = $1
ORDER BY created_at
LIMIT 1`

// GetByID returns a user by primary key.
// Returns domain.NotFoundError if the user does not exist.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, getByIDSQL, userID).
		Scan(&u.ID, &u.DisplayName, &u.ProfilePictureURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "users", map[string]string{"userId": userID.String()})
	}

	return &u, nil
}

// ExistsByID reports whether a user with the given id exists.
func (r *Repo) ExistsByID(ctx context.Context, userID uuid.UUID) (bool, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := q.QueryRow(ctx, existsByIDSQL, userID).Scan(&exists); err != nil {
		return false, postgres.MapError(err, "users", map[string]string{"userId": userID.String()})
	}

	return exists, nil
}

// GetByIDs returns the users whose ids appear in userIDs.
// Missing ids are silently absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.User, error) {
	if len(userIDs) == 0 {
		return []domain.User{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByIDsSQL, userIDs)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.DisplayName, &u.ProfilePictureURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}

	return users, nil
}

// GetByDisplayName returns the oldest user with the given display name.
// Display names are not unique; this lookup exists for well-known system
// accounts like the preset owner.
func (r *Repo) GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var u domain.User
	err := q.QueryRow(ctx, getByDisplayNameSQL, displayName).
		Scan(&u.ID, &u.DisplayName, &u.ProfilePictureURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "users", map[string]string{"displayName": displayName})
	}

	return &u, nil
}

// ListIDs returns every user id, oldest account first. Used by the
// operational integrity sweep.
func (r *Repo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listIDsSQL)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}

	return ids, nil
}

// Create inserts a new user and returns the persisted entity.
func (r *Repo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var created domain.User
	err := q.QueryRow(ctx, createSQL, u.DisplayName, u.ProfilePictureURL).
		Scan(&created.ID, &created.DisplayName, &created.ProfilePictureURL, &created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, postgres.MapError(err, "users", nil)
	}

	return &created, nil
}
