// Package achievement implements the Achievement repository using PostgreSQL.
// Prerequisites are stored as a uuid[] column so the DAG edges live inside
// the node row, matching the document shape the services operate on.
package achievement

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

// Repo provides achievement persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new achievement repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const achievementColumns = `id, user_id, tree_id, title, background_url, description, prerequisites, complete, completed_at, created_at, updated_at`

const createSQL = `
INSERT INTO achievements (user_id, tree_id, title, background_url, description, prerequisites)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + achievementColumns

const createWithIDSQL = `
INSERT INTO achievements (id, user_id, tree_id, title, background_url, description, prerequisites)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + achievementColumns

const getByIDSQL = `
SELECT ` + achievementColumns + `
FROM achievements
WHERE id = $1`

const getByIDsSQL = `
SELECT ` + achievementColumns + `
FROM achievements
WHERE id = ANY($1::uuid[])`

const listByTreeSQL = `
SELECT ` + achievementColumns + `
FROM achievements
WHERE tree_id = $1
ORDER BY title`

const listReferencingSQL = `
SELECT ` + achievementColumns + `
FROM achievements
WHERE $1 = ANY(prerequisites)`

const setCompletionSQL = `
UPDATE achievements
SET complete = $2, completed_at = $3, updated_at = now()
WHERE id = $1
RETURNING ` + achievementColumns

const removePrerequisiteRefsSQL = `
UPDATE achievements
SET prerequisites = array_remove(prerequisites, $1), updated_at = now()
WHERE $1 = ANY(prerequisites)`

const deleteSQL = `DELETE FROM achievements WHERE id = $1`

const countByUserSQL = `SELECT count(*) FROM achievements WHERE user_id = $1`

// Create inserts an achievement. New achievements start incomplete.
func (r *Repo) Create(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	prereqs := a.Prerequisites
	if prereqs == nil {
		prereqs = []uuid.UUID{}
	}

	row := q.QueryRow(ctx, createSQL,
		a.UserID, a.TreeID, a.Title, a.BackgroundURL, a.Description, prereqs)

	created, err := scanAchievement(row)
	if err != nil {
		return nil, postgres.MapError(err, "achievements", nil)
	}

	return created, nil
}

// CreateWithID inserts an achievement under a caller-minted id, incomplete.
// The copy engine builds its full id map before any write, so ids arrive
// pre-assigned.
func (r *Repo) CreateWithID(ctx context.Context, a *domain.Achievement) (*domain.Achievement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	prereqs := a.Prerequisites
	if prereqs == nil {
		prereqs = []uuid.UUID{}
	}

	row := q.QueryRow(ctx, createWithIDSQL,
		a.ID, a.UserID, a.TreeID, a.Title, a.BackgroundURL, a.Description, prereqs)

	created, err := scanAchievement(row)
	if err != nil {
		return nil, postgres.MapError(err, "achievements", nil)
	}

	return created, nil
}

// GetByID returns an achievement by primary key.
func (r *Repo) GetByID(ctx context.Context, achievementID uuid.UUID) (*domain.Achievement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAchievement(q.QueryRow(ctx, getByIDSQL, achievementID))
	if err != nil {
		return nil, postgres.MapError(err, "achievements",
			map[string]string{"achievementId": achievementID.String()})
	}

	return a, nil
}

// GetByIDs returns the achievements whose ids appear in ids. Missing ids are
// silently absent; callers that need all ids resolved compare lengths.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Achievement, error) {
	if len(ids) == 0 {
		return []*domain.Achievement{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByIDsSQL, ids)
	if err != nil {
		return nil, fmt.Errorf("get achievements by ids: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// List returns the user's achievements narrowed by filter and ordered by
// sort. The frontier filter (Next) is resolved in the service layer because
// it needs the prerequisite closure, not a row predicate.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.AchievementFilter, sort domain.AchievementSortMode) ([]*domain.Achievement, error) {
	b := psql.Select(achievementColumns).
		From("achievements").
		Where(sq.Eq{"user_id": userID})

	if filter.TreeID != nil {
		b = b.Where(sq.Eq{"tree_id": *filter.TreeID})
	}
	if filter.Complete != nil {
		b = b.Where(sq.Eq{"complete": *filter.Complete})
	}

	b = b.OrderBy(achievementOrderClause(sort))

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list achievements: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// ListByTree returns every achievement of one tree in title order, without an
// ownership filter. Used by the layout projector and the copy engine.
func (r *Repo) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Achievement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByTreeSQL, treeID)
	if err != nil {
		return nil, fmt.Errorf("list achievements by tree: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// ListReferencing returns the achievements that name id as an immediate
// prerequisite. Feeds the incomplete cascade and delete splicing.
func (r *Repo) ListReferencing(ctx context.Context, id uuid.UUID) ([]*domain.Achievement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listReferencingSQL, id)
	if err != nil {
		return nil, fmt.Errorf("list referencing achievements: %w", err)
	}
	defer rows.Close()

	return scanAchievements(rows)
}

// Update applies the non-nil fields of params, excluding completion, which
// goes through SetCompletion so the completed_at pairing stays in one place.
func (r *Repo) Update(ctx context.Context, achievementID uuid.UUID, params domain.AchievementUpdateParams) (*domain.Achievement, error) {
	b := psql.Update("achievements").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": achievementID}).
		Suffix("RETURNING " + achievementColumns)

	if params.Title != nil {
		b = b.Set("title", *params.Title)
	}
	if params.BackgroundURL != nil {
		b = b.Set("background_url", *params.BackgroundURL)
	}
	if params.Description != nil {
		b = b.Set("description", *params.Description)
	}
	if params.Prerequisites != nil {
		b = b.Set("prerequisites", *params.Prerequisites)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update achievement: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAchievement(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "achievements",
			map[string]string{"achievementId": achievementID.String()})
	}

	return a, nil
}

// SetCompletion sets the completion flag and timestamp together. The schema
// CHECK rejects a mismatched pair.
func (r *Repo) SetCompletion(ctx context.Context, achievementID uuid.UUID, complete bool, completedAt *time.Time) (*domain.Achievement, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	a, err := scanAchievement(q.QueryRow(ctx, setCompletionSQL, achievementID, complete, completedAt))
	if err != nil {
		return nil, postgres.MapError(err, "achievements",
			map[string]string{"achievementId": achievementID.String()})
	}

	return a, nil
}

// RemovePrerequisiteRefs splices id out of every prerequisite list that
// contains it.
func (r *Repo) RemovePrerequisiteRefs(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, removePrerequisiteRefsSQL, id); err != nil {
		return postgres.MapError(err, "achievements", map[string]string{"achievementId": id.String()})
	}

	return nil
}

// Delete removes an achievement. Callers splice dangling references first.
func (r *Repo) Delete(ctx context.Context, achievementID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, achievementID)
	if err != nil {
		return postgres.MapError(err, "achievements",
			map[string]string{"achievementId": achievementID.String()})
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Collection: "achievements",
			Keys: map[string]string{"achievementId": achievementID.String()}}
	}

	return nil
}

// CountByUser returns how many achievements the user owns. Feeds the per-user
// node quota together with the skill count.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, countByUserSQL, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count achievements: %w", err)
	}

	return n, nil
}

func achievementOrderClause(sort domain.AchievementSortMode) string {
	switch sort {
	case domain.AchievementSortCreatedAt:
		return "created_at"
	case domain.AchievementSortCompletedAt:
		return "completed_at DESC NULLS LAST, title"
	default:
		return "title"
	}
}

func scanAchievement(row pgx.Row) (*domain.Achievement, error) {
	var a domain.Achievement
	err := row.Scan(&a.ID, &a.UserID, &a.TreeID, &a.Title, &a.BackgroundURL,
		&a.Description, &a.Prerequisites, &a.Complete, &a.CompletedAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if a.Prerequisites == nil {
		a.Prerequisites = []uuid.UUID{}
	}
	return &a, nil
}

func scanAchievements(rows pgx.Rows) ([]*domain.Achievement, error) {
	achievements := []*domain.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate achievements: %w", err)
	}
	return achievements, nil
}
