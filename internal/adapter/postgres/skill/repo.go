// Package skill implements the Skill repository using PostgreSQL.
// Hour totals are adjusted with in-database increments so concurrent rollups
// never lose updates.
package skill

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

// Repo provides skill persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new skill repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const skillColumns = `id, user_id, tree_id, name, background_url, time_spent_hours, parent_skill_id, created_at, updated_at`

const createSQL = `
INSERT INTO skills (user_id, tree_id, name, background_url, parent_skill_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + skillColumns

const createWithIDSQL = `
INSERT INTO skills (id, user_id, tree_id, name, background_url, parent_skill_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + skillColumns

const getByIDSQL = `
SELECT ` + skillColumns + `
FROM skills
WHERE id = $1`

const getByIDsSQL = `
SELECT ` + skillColumns + `
FROM skills
WHERE id = ANY($1::uuid[])`

const deleteSQL = `DELETE FROM skills WHERE id = $1`

const addHoursSQL = `
UPDATE skills
SET time_spent_hours = time_spent_hours + $2, updated_at = now()
WHERE id = $1`

const reassignChildrenSQL = `
UPDATE skills
SET parent_skill_id = $2, updated_at = now()
WHERE parent_skill_id = $1`

const countByUserSQL = `SELECT count(*) FROM skills WHERE user_id = $1`

// Create inserts a skill. The hour total starts at zero regardless of input.
func (r *Repo) Create(ctx context.Context, s *domain.Skill) (*domain.Skill, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createSQL,
		s.UserID, s.TreeID, s.Name, s.BackgroundURL, s.ParentSkillID)

	created, err := scanSkill(row)
	if err != nil {
		return nil, postgres.MapError(err, "skills", nil)
	}

	return created, nil
}

// CreateWithID inserts a skill under a caller-minted id. The copy engine
// builds its full id map before any write, so ids arrive pre-assigned.
func (r *Repo) CreateWithID(ctx context.Context, s *domain.Skill) (*domain.Skill, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	row := q.QueryRow(ctx, createWithIDSQL,
		s.ID, s.UserID, s.TreeID, s.Name, s.BackgroundURL, s.ParentSkillID)

	created, err := scanSkill(row)
	if err != nil {
		return nil, postgres.MapError(err, "skills", nil)
	}

	return created, nil
}

// GetByID returns a skill by primary key.
func (r *Repo) GetByID(ctx context.Context, skillID uuid.UUID) (*domain.Skill, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSkill(q.QueryRow(ctx, getByIDSQL, skillID))
	if err != nil {
		return nil, postgres.MapError(err, "skills", map[string]string{"skillId": skillID.String()})
	}

	return s, nil
}

// GetByIDs returns the skills whose ids appear in skillIDs. Missing ids are
// silently absent; callers that need all ids resolved compare lengths.
func (r *Repo) GetByIDs(ctx context.Context, skillIDs []uuid.UUID) ([]*domain.Skill, error) {
	if len(skillIDs) == 0 {
		return []*domain.Skill{}, nil
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, getByIDsSQL, skillIDs)
	if err != nil {
		return nil, fmt.Errorf("get skills by ids: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// List returns the user's skills narrowed by filter and ordered by sort.
func (r *Repo) List(ctx context.Context, userID uuid.UUID, filter domain.SkillFilter, sort domain.SkillSortMode) ([]*domain.Skill, error) {
	b := psql.Select(skillColumns).
		From("skills").
		Where(sq.Eq{"user_id": userID})

	if filter.TreeID != nil {
		b = b.Where(sq.Eq{"tree_id": *filter.TreeID})
	}
	if filter.ParentSkillID != nil {
		b = b.Where(sq.Eq{"parent_skill_id": *filter.ParentSkillID})
	}
	if filter.Root != nil {
		if *filter.Root {
			b = b.Where("parent_skill_id IS NULL")
		} else {
			b = b.Where("parent_skill_id IS NOT NULL")
		}
	}

	b = b.OrderBy(skillOrderClause(sort))

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list skills: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// ListByTree returns every skill of one tree in name order, without an
// ownership filter. Used by the layout projector and the copy engine, which
// resolve access at the tree level.
func (r *Repo) ListByTree(ctx context.Context, treeID uuid.UUID) ([]*domain.Skill, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+skillColumns+` FROM skills WHERE tree_id = $1 ORDER BY name`, treeID)
	if err != nil {
		return nil, fmt.Errorf("list skills by tree: %w", err)
	}
	defer rows.Close()

	return scanSkills(rows)
}

// Update applies the non-nil fields of params to the skill. ClearParent takes
// precedence over ParentSkillID and detaches the skill into a root.
func (r *Repo) Update(ctx context.Context, skillID uuid.UUID, params domain.SkillUpdateParams) (*domain.Skill, error) {
	b := psql.Update("skills").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": skillID}).
		Suffix("RETURNING " + skillColumns)

	if params.Name != nil {
		b = b.Set("name", *params.Name)
	}
	if params.BackgroundURL != nil {
		b = b.Set("background_url", *params.BackgroundURL)
	}
	if params.ClearParent {
		b = b.Set("parent_skill_id", nil)
	} else if params.ParentSkillID != nil {
		b = b.Set("parent_skill_id", *params.ParentSkillID)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update skill: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSkill(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, postgres.MapError(err, "skills", map[string]string{"skillId": skillID.String()})
	}

	return s, nil
}

// Delete removes a skill. Callers reassign children first; the FK's SET NULL
// is only a backstop.
func (r *Repo) Delete(ctx context.Context, skillID uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, deleteSQL, skillID)
	if err != nil {
		return postgres.MapError(err, "skills", map[string]string{"skillId": skillID.String()})
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Collection: "skills", Keys: map[string]string{"skillId": skillID.String()}}
	}

	return nil
}

// AddHours increments the skill's hour total in place. Delta may be negative;
// the non-negative CHECK rejects drops below zero.
func (r *Repo) AddHours(ctx context.Context, skillID uuid.UUID, delta float64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, addHoursSQL, skillID, delta)
	if err != nil {
		return postgres.MapError(err, "skills", map[string]string{"skillId": skillID.String()})
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Collection: "skills", Keys: map[string]string{"skillId": skillID.String()}}
	}

	return nil
}

// ReassignChildren moves every child of parentID under newParentID.
// A nil newParentID turns the children into roots.
func (r *Repo) ReassignChildren(ctx context.Context, parentID uuid.UUID, newParentID *uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := q.Exec(ctx, reassignChildrenSQL, parentID, newParentID); err != nil {
		return postgres.MapError(err, "skills", map[string]string{"parentSkillId": parentID.String()})
	}

	return nil
}

// CountByUser returns how many skills the user owns. Feeds the per-user node
// quota together with the achievement count.
func (r *Repo) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, countByUserSQL, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count skills: %w", err)
	}

	return n, nil
}

func skillOrderClause(sort domain.SkillSortMode) string {
	switch sort {
	case domain.SkillSortCreatedAt:
		return "created_at"
	case domain.SkillSortTimeSpent:
		return "time_spent_hours DESC, name"
	case domain.SkillSortRecentlyUsed:
		return "updated_at DESC, name"
	default:
		return "name"
	}
}

func scanSkill(row pgx.Row) (*domain.Skill, error) {
	var s domain.Skill
	err := row.Scan(&s.ID, &s.UserID, &s.TreeID, &s.Name, &s.BackgroundURL,
		&s.TimeSpentHours, &s.ParentSkillID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSkills(rows pgx.Rows) ([]*domain.Skill, error) {
	skills := []*domain.Skill{}
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return skills, nil
}
