// Package activity implements the Activity repository using PostgreSQL.
package activity

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/bproj/skilltree-backend/internal/adapter/postgres"
	"github.com/bproj/skilltree-backend/internal/domain"
)

// Repo provides activity persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const activityColumns = `id, user_id, name, description, duration, skill_weights, created_at, updated_at`

const createSQL = `
INSERT INTO activities (user_id, name, description, duration, skill_weights)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + activityColumns

const getByIDSQL = `
SELECT ` + activityColumns + `
FROM activities
WHERE id = $1`

const listByUserSQL = `
SELECT ` + activityColumns + `
FROM activities
WHERE user_id = $1
ORDER BY created_at DESC`

const listByUserSinceSQL = `
SELECT ` + activityColumns + `
FROM activities
WHERE user_id = $1 AND created_at >= $2
ORDER BY created_at DESC`

const listByUsersSinceSQL = `
SELECT ` + activityColumns + `
FROM activities
WHERE user_id = ANY($1::uuid[]) AND created_at >= $2
ORDER BY created_at DESC`

const listReferencingSkillSQL = `
SELECT ` + activityColumns + `
FROM activities
WHERE skill_weights @> jsonb_build_array(jsonb_build_object('skillId', $1::text))`

const deleteSQL = `DELETE FROM activities WHERE id = $1`

// Create inserts an activity.
func (r *Repo) Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	weights := a.SkillWeights
	if weights == nil {
		weights = []domain.SkillWeight{}
	}

	row := q.QueryRow(ctx, createSQL, a.UserID, a.Name, a.Description, a.Duration, weights)

	created, err := scanActivity(row)
	if err != nil {
		return nil, postgres.MapError(err, "activities", nil)
	}

	return created, nil
}

// GetByID returns an activity by primary key.
func (r *Repo) GetByID(ctx context.Context, activityID uuid.UUID) (*domain.Activity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(q.QueryRow(ctx, getByIDSQL, activityID))
	if err != nil {
		return nil, postgres.MapError(err, "activities",
			map[string]string{"activityId": activityID.String()})
	}

	return a, nil
}

// ListByUser returns the user's activities, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Activity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListByUserSince returns the user's activities created at or after since,
// newest first. Feeds the streak and daily-count summary.
func (r *Repo) ListByUserSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.Activity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUserSinceSQL, userID, since)
	if err != nil {
		return nil, fmt.Errorf("list activities since: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListByUsersSince returns the activities of all listed users created at or
// after since, newest first. Feeds the friend feed.
func (r *Repo) ListByUsersSince(ctx context.Context, userIDs []uuid.UUID, since time.Time) ([]*domain.Activity, error) {
	if len(userIDs) == 0 {
		return []*domain.Activity{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUsersSinceSQL, userIDs, since)
	if err != nil {
		return nil, fmt.Errorf("list activities by users: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListReferencingSkill returns the activities whose weight list names the
// skill. Used when a skill is deleted to splice its weight entries out.
func (r *Repo) ListReferencingSkill(ctx context.Context, skillID uuid.UUID) ([]*domain.Activity, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listReferencingSkillSQL, skillID.String())
	if err != nil {
		return nil, fmt.Errorf("list activities referencing skill: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// Update applies the non-nil fields of params to the activity.
func (r *Repo) Update(ctx context.Context, activityID uuid.UUID, params domain.ActivityUpdateParams) (*domain.Activity, error) {
	b := psql.Update("activities").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": activityID}).
		Suffix("RETURNING " + activityColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name)
	}
	if params.Description != nil {
		b = b.Set("description", *params.Description)
	}
	if params.Duration != nil {
		b = b.Set("duration", *params.Duration)
	}
	if params.SkillWeights != nil {
		b = b.Set("skill_weights", *params.SkillWeights)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update activity: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanActivity(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "activities",
			map[string]string{"activityId": activityID.String()})
	}

	return a, nil
}

// Delete removes an activity. The caller reverses the hour rollup first,
// inside the same transaction.
func (r *Repo) Delete(ctx context.Context, activityID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, activityID)
	if err != nil {
		return postgres.MapError(err, "activities",
			map[string]string{"activityId": activityID.String()})
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Collection: "activities",
			Keys: map[string]string{"activityId": activityID.String()}}
	}

	return nil
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var a domain.Activity
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Description,
		&a.Duration, &a.SkillWeights, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.SkillWeights == nil {
		a.SkillWeights = []domain.SkillWeight{}
	}
	return &a, nil
}

func scanActivities(rows pgx.Rows) ([]*domain.Activity, error) {
	activities := []*domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return activities, nil
}
