// Package orientation implements the Orientation repository using PostgreSQL.
// Location lists are stored as jsonb; pgx's json codec maps them to the
// domain slices directly.
package orientation

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/bproj/skilltree-backend/internal/adapter/postgres"
	"github.com/bproj/skilltree-backend/internal/domain"
)

// Repo provides orientation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new orientation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const orientationColumns = `id, user_id, tree_id, skill_locations, achievement_locations, created_at, updated_at`

const createSQL = `
INSERT INTO orientations (user_id, tree_id, skill_locations, achievement_locations)
VALUES ($1, $2, $3, $4)
RETURNING ` + orientationColumns

const getByTreeIDSQL = `
SELECT ` + orientationColumns + `
FROM orientations
WHERE tree_id = $1`

const replaceLocationsSQL = `
UPDATE orientations
SET skill_locations = $2, achievement_locations = $3, updated_at = now()
WHERE tree_id = $1
RETURNING ` + orientationColumns

const deleteByTreeIDSQL = `DELETE FROM orientations WHERE tree_id = $1`

// Create inserts the orientation for a tree. The UNIQUE(tree_id) constraint
// rejects a second orientation for the same tree.
func (r *Repo) Create(ctx context.Context, o *domain.Orientation) (*domain.Orientation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	skillLocs := o.SkillLocations
	if skillLocs == nil {
		skillLocs = []domain.SkillLocation{}
	}
	achievementLocs := o.AchievementLocations
	if achievementLocs == nil {
		achievementLocs = []domain.AchievementLocation{}
	}

	row := q.QueryRow(ctx, createSQL, o.UserID, o.TreeID, skillLocs, achievementLocs)

	created, err := scanOrientation(row)
	if err != nil {
		return nil, postgres.MapError(err, "orientations",
			map[string]string{"treeId": o.TreeID.String()})
	}

	return created, nil
}

// GetByTreeID returns the orientation of a tree. A tree without an
// orientation is a broken invariant, surfaced to callers as not-found and
// promoted to a consistency error by the services that require it.
func (r *Repo) GetByTreeID(ctx context.Context, treeID uuid.UUID) (*domain.Orientation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	o, err := scanOrientation(q.QueryRow(ctx, getByTreeIDSQL, treeID))
	if err != nil {
		return nil, postgres.MapError(err, "orientations",
			map[string]string{"treeId": treeID.String()})
	}

	return o, nil
}

// ReplaceLocations overwrites both location lists of the tree's orientation.
func (r *Repo) ReplaceLocations(ctx context.Context, treeID uuid.UUID, skills []domain.SkillLocation, achievements []domain.AchievementLocation) (*domain.Orientation, error) {
	if skills == nil {
		skills = []domain.SkillLocation{}
	}
	if achievements == nil {
		achievements = []domain.AchievementLocation{}
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	o, err := scanOrientation(q.QueryRow(ctx, replaceLocationsSQL, treeID, skills, achievements))
	if err != nil {
		return nil, postgres.MapError(err, "orientations",
			map[string]string{"treeId": treeID.String()})
	}

	return o, nil
}

// DeleteByTreeID removes the orientation of a tree. Missing rows are not an
// error here; tree deletion treats the orientation as optional debris.
func (r *Repo) DeleteByTreeID(ctx context.Context, treeID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, deleteByTreeIDSQL, treeID); err != nil {
		return postgres.MapError(err, "orientations", map[string]string{"treeId": treeID.String()})
	}

	return nil
}

func scanOrientation(row pgx.Row) (*domain.Orientation, error) {
	var o domain.Orientation
	err := row.Scan(&o.ID, &o.UserID, &o.TreeID,
		&o.SkillLocations, &o.AchievementLocations, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.SkillLocations == nil {
		o.SkillLocations = []domain.SkillLocation{}
	}
	if o.AchievementLocations == nil {
		o.AchievementLocations = []domain.AchievementLocation{}
	}
	return &o, nil
}

func scanOrientations(rows pgx.Rows) ([]*domain.Orientation, error) {
	orientations := []*domain.Orientation{}
	for rows.Next() {
		o, err := scanOrientation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan orientation: %w", err)
		}
		orientations = append(orientations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orientations: %w", err)
	}
	return orientations, nil
}

// ListByUser returns every orientation owned by the user. Used by the
// integrity checker to sweep for entries pointing at deleted nodes.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Orientation, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+orientationColumns+` FROM orientations WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list orientations: %w", err)
	}
	defer rows.Close()

	return scanOrientations(rows)
}
