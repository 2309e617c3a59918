package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bproj/skilltree-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user row. Returns a filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:          uuid.New(),
		DisplayName: "user_" + suffix,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, display_name, profile_picture_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.DisplayName, user.ProfilePictureURL, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// SeedFriendship creates an ACCEPTED friendship edge between two users.
func SeedFriendship(t *testing.T, pool *pgxpool.Pool, requesterID, addresseeID uuid.UUID) domain.Friendship {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	f := domain.Friendship{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      domain.FriendshipAccepted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO friendships (id, requester_id, addressee_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		f.ID, f.RequesterID, f.AddresseeID, string(f.Status), f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedFriendship insert: %v", err)
	}

	return f
}

// SeedTree creates a tree with an empty orientation, the pairing every live
// tree carries. userID nil plus visibility PRESET creates a preset template.
func SeedTree(t *testing.T, pool *pgxpool.Pool, userID *uuid.UUID, visibility domain.Visibility) domain.Tree {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	tree := domain.Tree{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "Tree " + suffix,
		Visibility: visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO trees (id, user_id, name, background_url, description, visibility, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tree.ID, tree.UserID, tree.Name, tree.BackgroundURL, tree.Description,
		string(tree.Visibility), tree.CreatedAt, tree.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTree insert tree: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO orientations (id, user_id, tree_id, skill_locations, achievement_locations, created_at, updated_at)
		 VALUES ($1, $2, $3, '[]'::jsonb, '[]'::jsonb, $4, $5)`,
		uuid.New(), userID, tree.ID, now, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedTree insert orientation: %v", err)
	}

	return tree
}

// SeedSkill creates a skill under the tree and appends its location entry to
// the tree's orientation. parentID nil creates a root skill.
func SeedSkill(t *testing.T, pool *pgxpool.Pool, userID, treeID uuid.UUID, parentID *uuid.UUID) domain.Skill {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	skill := domain.Skill{
		ID:            uuid.New(),
		UserID:        userID,
		TreeID:        treeID,
		Name:          "Skill " + suffix,
		ParentSkillID: parentID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO skills (id, user_id, tree_id, name, background_url, time_spent_hours, parent_skill_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8)`,
		skill.ID, skill.UserID, skill.TreeID, skill.Name, skill.BackgroundURL,
		skill.ParentSkillID, skill.CreatedAt, skill.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSkill insert skill: %v", err)
	}

	loc, _ := json.Marshal([]domain.SkillLocation{{SkillID: skill.ID}})
	_, err = pool.Exec(ctx,
		`UPDATE orientations SET skill_locations = skill_locations || $2::jsonb WHERE tree_id = $1`,
		treeID, loc,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSkill update orientation: %v", err)
	}

	return skill
}

// SeedAchievement creates an achievement in the tree and appends its location
// entry to the tree's orientation.
func SeedAchievement(t *testing.T, pool *pgxpool.Pool, userID, treeID uuid.UUID, prerequisites []uuid.UUID) domain.Achievement {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if prerequisites == nil {
		prerequisites = []uuid.UUID{}
	}
	a := domain.Achievement{
		ID:            uuid.New(),
		UserID:        userID,
		TreeID:        treeID,
		Title:         "Achievement " + suffix,
		Prerequisites: prerequisites,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO achievements (id, user_id, tree_id, title, background_url, description, prerequisites, complete, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8, $9)`,
		a.ID, a.UserID, a.TreeID, a.Title, a.BackgroundURL, a.Description,
		a.Prerequisites, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAchievement insert achievement: %v", err)
	}

	loc, _ := json.Marshal([]domain.AchievementLocation{{AchievementID: a.ID}})
	_, err = pool.Exec(ctx,
		`UPDATE orientations SET achievement_locations = achievement_locations || $2::jsonb WHERE tree_id = $1`,
		treeID, loc,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAchievement update orientation: %v", err)
	}

	return a
}

// SeedActivity creates an activity distributing duration hours over the given
// weights. It does not touch skill hour totals; rollup is service behavior.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, duration float64, weights []domain.SkillWeight) domain.Activity {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if weights == nil {
		weights = []domain.SkillWeight{}
	}
	a := domain.Activity{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         "Activity " + suffix,
		Duration:     duration,
		SkillWeights: weights,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	weightsJSON, _ := json.Marshal(weights)
	_, err := pool.Exec(ctx,
		`INSERT INTO activities (id, user_id, name, description, duration, skill_weights, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.UserID, a.Name, a.Description, a.Duration, weightsJSON, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity insert activity: %v", err)
	}

	return a
}
