//go:build e2e

// Package e2e_test runs scenario tests against the full service graph wired
// to a real PostgreSQL instance: real repositories, real transactions, real
// cross-service calls (activity rollup through the skill service, friendship
// checks through the friendship service). Run with -tags e2e.
package e2e_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	postgres "github.com/bproj/skilltree-backend/internal/adapter/postgres"
	achievementrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/achievement"
	activityrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/activity"
	friendshiprepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/friendship"
	orientationrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/orientation"
	skillrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/skill"
	"github.com/bproj/skilltree-backend/internal/adapter/postgres/testhelper"
	treerepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/tree"
	userrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/user"
	"github.com/bproj/skilltree-backend/internal/domain"
	"github.com/bproj/skilltree-backend/internal/service/achievement"
	"github.com/bproj/skilltree-backend/internal/service/activity"
	"github.com/bproj/skilltree-backend/internal/service/friendship"
	"github.com/bproj/skilltree-backend/internal/service/orientation"
	"github.com/bproj/skilltree-backend/internal/service/skill"
	"github.com/bproj/skilltree-backend/internal/service/tree"
	"github.com/bproj/skilltree-backend/pkg/ctxutil"
)

// testEnv is the full application wired to one shared test database.
type testEnv struct {
	Pool         *pgxpool.Pool
	Trees        *tree.Service
	Skills       *skill.Service
	Achievements *achievement.Service
	Activities   *activity.Service
	Orientations *orientation.Service
	Friendships  *friendship.Service
}

// setupServices wires the service graph the way cmd/server does, with the
// default node quota.
func setupServices(t *testing.T) *testEnv {
	t.Helper()
	return setupServicesWithQuota(t, 50)
}

func setupServicesWithQuota(t *testing.T, maxNodes int) *testEnv {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	constraints, err := domain.NewConstraints("skilltree.com", maxNodes)
	require.NoError(t, err)

	tx := postgres.NewTxManager(pool)
	trees := treerepo.New(pool)
	skills := skillrepo.New(pool)
	achievements := achievementrepo.New(pool)
	orientations := orientationrepo.New(pool)
	activities := activityrepo.New(pool)
	users := userrepo.New(pool)
	friendships := friendshiprepo.New(pool)

	friendshipSvc := friendship.NewService(log, friendships, users)
	skillSvc := skill.NewService(log, skills, trees, orientations, activities, tx, constraints)
	achievementSvc := achievement.NewService(log, achievements, trees, orientations, tx, constraints)
	orientationSvc := orientation.NewService(log, orientations, trees, skills, achievements)
	activitySvc := activity.NewService(log, activities, skills, skillSvc, friendshipSvc, tx, constraints, 30, 7)
	treeSvc := tree.NewService(log, trees, skills, achievements, orientations, users, friendshipSvc, tx, constraints)

	return &testEnv{
		Pool:         pool,
		Trees:        treeSvc,
		Skills:       skillSvc,
		Achievements: achievementSvc,
		Activities:   activitySvc,
		Orientations: orientationSvc,
		Friendships:  friendshipSvc,
	}
}

// newUser seeds an account and returns its id plus a context acting as it.
func newUser(t *testing.T, env *testEnv) (uuid.UUID, context.Context) {
	t.Helper()
	u := testhelper.SeedUser(t, env.Pool)
	return u.ID, ctxutil.WithActorID(context.Background(), u.ID)
}

// befriend establishes an ACCEPTED friendship between the two users through
// the service API (request + accept), not by raw inserts.
func befriend(t *testing.T, env *testEnv, aCtx context.Context, bID uuid.UUID, bCtx context.Context) {
	t.Helper()
	f, err := env.Friendships.RequestFriendship(aCtx, bID)
	require.NoError(t, err)
	_, err = env.Friendships.RespondToFriendship(bCtx, f.ID, true)
	require.NoError(t, err)
}
