//go:build e2e

package e2e_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/internal/service/achievement"
	"github.com/bproj/skilltree-backend/internal/service/activity"
	"github.com/bproj/skilltree-backend/internal/service/skill"
	"github.com/bproj/skilltree-backend/internal/service/tree"
)

// skillChain builds root -> mid -> leaf in a fresh tree and returns all four.
func skillChain(t *testing.T, env *testEnv, ctx context.Context) (*domain.Tree, *domain.Skill, *domain.Skill, *domain.Skill) {
	t.Helper()

	created, err := env.Trees.CreateTree(ctx, tree.CreateTreeInput{
		Name:       "Practice " + uuid.New().String()[:8],
		Visibility: "PRIVATE",
	})
	require.NoError(t, err)

	root, err := env.Skills.CreateSkill(ctx, skill.CreateSkillInput{TreeID: created.ID, Name: "Music"})
	require.NoError(t, err)
	mid, err := env.Skills.CreateSkill(ctx, skill.CreateSkillInput{TreeID: created.ID, Name: "Guitar", ParentSkillID: &root.ID, X: 1, Y: 1})
	require.NoError(t, err)
	leaf, err := env.Skills.CreateSkill(ctx, skill.CreateSkillInput{TreeID: created.ID, Name: "Chords", ParentSkillID: &mid.ID, X: 2, Y: 2})
	require.NoError(t, err)

	return created, root, mid, leaf
}

func skillHours(t *testing.T, env *testEnv, ctx context.Context, id uuid.UUID) float64 {
	t.Helper()
	sk, err := env.Skills.GetSkill(ctx, id)
	require.NoError(t, err)
	return sk.TimeSpentHours
}

// ---------------------------------------------------------------------------
// Scenario: logging an activity rolls hours up the ancestor chain.
// ---------------------------------------------------------------------------

func TestE2E_ActivityRollup_PropagatesToRoot(t *testing.T) {
	env := setupServices(t)
	_, ctx := newUser(t, env)

	tr, root, mid, leaf := skillChain(t, env, ctx)

	logged, err := env.Activities.CreateActivity(ctx, activity.CreateActivityInput{
		Name:         "Evening practice",
		Duration:     2,
		SkillWeights: []domain.SkillWeight{{SkillID: leaf.ID, Weight: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, float64(2), skillHours(t, env, ctx, leaf.ID))
	assert.Equal(t, float64(2), skillHours(t, env, ctx, mid.ID))
	assert.Equal(t, float64(2), skillHours(t, env, ctx, root.ID))

	// Tree totals count root hours only, so no double counting.
	stats, err := env.Trees.GetTreeStats(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(2), stats.TotalTimeLogged)
	assert.Equal(t, 3, stats.TotalSkills)

	// Extending the activity applies only the net delta.
	duration := 3.0
	_, err = env.Activities.UpdateActivity(ctx, activity.UpdateActivityInput{
		ActivityID: logged.ID,
		Duration:   &duration,
	})
	require.NoError(t, err)
	assert.Equal(t, float64(3), skillHours(t, env, ctx, root.ID))

	// Deleting reverses the rollup entirely.
	err = env.Activities.DeleteActivity(ctx, activity.DeleteActivityInput{ActivityID: logged.ID})
	require.NoError(t, err)
	assert.Equal(t, float64(0), skillHours(t, env, ctx, leaf.ID))
	assert.Equal(t, float64(0), skillHours(t, env, ctx, mid.ID))
	assert.Equal(t, float64(0), skillHours(t, env, ctx, root.ID))
}

// ---------------------------------------------------------------------------
// Scenario: deleting a mid-chain skill heals the graph.
// ---------------------------------------------------------------------------

func TestE2E_DeleteSkill_HealsGraph(t *testing.T) {
	env := setupServices(t)
	userID, ctx := newUser(t, env)

	tr, root, mid, leaf := skillChain(t, env, ctx)

	logged, err := env.Activities.CreateActivity(ctx, activity.CreateActivityInput{
		Name:         "Practice",
		Duration:     4,
		SkillWeights: []domain.SkillWeight{{SkillID: leaf.ID, Weight: 0.5}, {SkillID: mid.ID, Weight: 0.5}},
	})
	require.NoError(t, err)

	// mid holds 2 own + 2 from leaf = 4; root 4.
	require.Equal(t, float64(4), skillHours(t, env, ctx, mid.ID))

	err = env.Skills.DeleteSkill(ctx, skill.DeleteSkillInput{SkillID: mid.ID})
	require.NoError(t, err)

	// leaf is re-parented to root and keeps its hours.
	healed, err := env.Skills.GetSkill(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, healed.ParentSkillID)
	assert.Equal(t, root.ID, *healed.ParentSkillID)
	assert.Equal(t, float64(2), healed.TimeSpentHours)

	// root loses only mid's own share.
	assert.Equal(t, float64(2), skillHours(t, env, ctx, root.ID))

	// The activity's weight entry for mid is spliced out, not renormalized.
	act, err := env.Activities.GetActivity(ctx, logged.ID)
	require.NoError(t, err)
	require.Len(t, act.SkillWeights, 1)
	assert.Equal(t, leaf.ID, act.SkillWeights[0].SkillID)
	assert.Equal(t, 0.5, act.SkillWeights[0].Weight)

	// Orientation no longer mentions the deleted node.
	o, err := env.Orientations.GetOrientation(ctx, tr.ID)
	require.NoError(t, err)
	for _, loc := range o.SkillLocations {
		assert.NotEqual(t, mid.ID, loc.SkillID)
	}

	report, err := env.Trees.CheckIntegrity(ctx, userID)
	require.NoError(t, err)
	assert.True(t, report.Clean(), "faults: %+v", report.Faults)
}

// ---------------------------------------------------------------------------
// Scenario: un-completing an achievement cascades to its dependents.
// ---------------------------------------------------------------------------

func TestE2E_AchievementIncomplete_Cascades(t *testing.T) {
	env := setupServices(t)
	_, ctx := newUser(t, env)

	tr, err := env.Trees.CreateTree(ctx, tree.CreateTreeInput{
		Name:       "Milestones " + uuid.New().String()[:8],
		Visibility: "PRIVATE",
	})
	require.NoError(t, err)

	base, err := env.Achievements.CreateAchievement(ctx, achievement.CreateAchievementInput{TreeID: tr.ID, Title: "First Song"})
	require.NoError(t, err)
	mid, err := env.Achievements.CreateAchievement(ctx, achievement.CreateAchievementInput{TreeID: tr.ID, Title: "Full Set", Prerequisites: []uuid.UUID{base.ID}, X: 1, Y: 1})
	require.NoError(t, err)
	top, err := env.Achievements.CreateAchievement(ctx, achievement.CreateAchievementInput{TreeID: tr.ID, Title: "Open Mic", Prerequisites: []uuid.UUID{mid.ID}, X: 2, Y: 2})
	require.NoError(t, err)

	complete := true
	for _, id := range []uuid.UUID{base.ID, mid.ID, top.ID} {
		_, err := env.Achievements.UpdateAchievement(ctx, achievement.UpdateAchievementInput{
			AchievementID: id,
			Complete:      &complete,
		})
		require.NoError(t, err)
	}

	got, err := env.Achievements.GetAchievement(ctx, top.ID)
	require.NoError(t, err)
	require.True(t, got.Complete)
	require.NotNil(t, got.CompletedAt)

	// Un-complete the base: both dependents fall with it.
	incomplete := false
	_, err = env.Achievements.UpdateAchievement(ctx, achievement.UpdateAchievementInput{
		AchievementID: base.ID,
		Complete:      &incomplete,
	})
	require.NoError(t, err)

	for _, id := range []uuid.UUID{base.ID, mid.ID, top.ID} {
		got, err := env.Achievements.GetAchievement(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Complete)
		assert.Nil(t, got.CompletedAt)
	}

	// Only the base is on the frontier now.
	next, err := env.Achievements.ListAchievements(ctx, achievement.ListAchievementsInput{
		TreeID: &tr.ID,
		Next:   true,
	})
	require.NoError(t, err)
	require.Len(t, next, 1)
	assert.Equal(t, base.ID, next[0].ID)
}
