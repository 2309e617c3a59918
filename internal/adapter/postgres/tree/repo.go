// Package tree implements the Tree repository using PostgreSQL.
package tree

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/bproj/skilltree-backend/internal/adapter/postgres"
	"github.com/bproj/skilltree-backend/internal/domain"
)

// Repo provides tree persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new tree repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const treeColumns = `id, user_id, name, background_url, description, visibility, created_at, updated_at`

const createSQL = `
INSERT INTO trees (user_id, name, background_url, description, visibility)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + treeColumns

const getByIDSQL = `
SELECT ` + treeColumns + `
FROM trees
WHERE id = $1`

const listByUserSQL = `
SELECT ` + treeColumns + `
FROM trees
WHERE user_id = $1
ORDER BY created_at`

const listPresetsSQL = `
SELECT ` + treeColumns + `
FROM trees
WHERE visibility = 'PRESET'
ORDER BY name`

const deleteSQL = `DELETE FROM trees WHERE id = $1`

const countByUserSQL = `SELECT count(*) FROM trees WHERE user_id = $1`

// Create inserts a tree. UserID is nil only for PRESET trees; the schema
// enforces that pairing.
func (r *Repo) Create(ctx context.Context, t *domain.Tree) (*domain.Tree, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		t.UserID, t.Name, t.BackgroundURL, t.Description, t.Visibility)

	created, err := scanTree(row)
	if err != nil {
		return nil, postgres.MapError(err, "trees", nil)
	}

	return created, nil
}

// GetByID returns a tree by primary key. Ownership and visibility checks are
// the caller's responsibility; presets and foreign trees are returned as-is.
func (r *Repo) GetByID(ctx context.Context, treeID uuid.UUID) (*domain.Tree, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	t, err := scanTree(q.QueryRow(ctx, getByIDSQL, treeID))
	if err != nil {
		return nil, postgres.MapError(err, "trees", map[string]string{"treeId": treeID.String()})
	}

	return t, nil
}

// ListByUser returns the user's trees, oldest first. The stable order makes
// the earliest tree win favorite-tree ties.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Tree, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()

	return scanTrees(rows)
}

// ListPresets returns all PRESET trees ordered by name.
func (r *Repo) ListPresets(ctx context.Context) ([]*domain.Tree, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, listPresetsSQL)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	return scanTrees(rows)
}

// Update applies the non-nil fields of params to the tree.
// Returns domain.NotFoundError if the tree does not exist.
func (r *Repo) Update(ctx context.Context, treeID uuid.UUID, params domain.TreeUpdateParams) (*domain.Tree, error) {
	b := psql.Update("trees").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": treeID}).
		Suffix("RETURNING " + treeColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name)
	}
	if params.BackgroundURL != nil {
		b = b.Set("background_url", *params.BackgroundURL)
	}
	if params.Description != nil {
		b = b.Set("description", *params.Description)
	}
	if params.Visibility != nil {
		b = b.Set("visibility", *params.Visibility)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update tree: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	t, err := scanTree(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "trees", map[string]string{"treeId": treeID.String()})
	}

	return t, nil
}

// Delete removes a tree. Skills, achievements, and the orientation cascade at
// the schema level; callers delete inside a transaction anyway to keep the
// removal atomic with any bookkeeping.
func (r *Repo) Delete(ctx context.Context, treeID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, treeID)
	if err != nil {
		return postgres.MapError(err, "trees", map[string]string{"treeId": treeID.String()})
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Collection: "trees", Keys: map[string]string{"treeId": treeID.String()}}
	}

	return nil
}

// CountByUser returns how many trees the user owns.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, countByUserSQL, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trees: %w", err)
	}

	return n, nil
}

func scanTree(row pgx.Row) (*domain.Tree, error) {
	var t domain.Tree
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.BackgroundURL,
		&t.Description, &t.Visibility, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTrees(rows pgx.Rows) ([]*domain.Tree, error) {
	trees := []*domain.Tree{}
	for rows.Next() {
		t, err := scanTree(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		trees = append(trees, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trees: %w", err)
	}
	return trees, nil
}
