package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bproj/skilltree-backend/internal/adapter/postgres"
	achievementrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/achievement"
	activityrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/activity"
	friendshiprepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/friendship"
	orientationrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/orientation"
	skillrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/skill"
	treerepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/tree"
	userrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/user"
	"github.com/bproj/skilltree-backend/internal/auth"
	"github.com/bproj/skilltree-backend/internal/config"
	"github.com/bproj/skilltree-backend/internal/domain"
	achievementsvc "github.com/bproj/skilltree-backend/internal/service/achievement"
	activitysvc "github.com/bproj/skilltree-backend/internal/service/activity"
	friendshipsvc "github.com/bproj/skilltree-backend/internal/service/friendship"
	orientationsvc "github.com/bproj/skilltree-backend/internal/service/orientation"
	skillsvc "github.com/bproj/skilltree-backend/internal/service/skill"
	treesvc "github.com/bproj/skilltree-backend/internal/service/tree"
)

// App holds the wired application graph: the connection pool, identity
// resolution, and every domain service. The request-handling layer consumes
// it; commands use the slices of it they need.
type App struct {
	Cfg  *config.Config
	Log  *slog.Logger
	Pool *pgxpool.Pool

	Auth *auth.JWTManager

	Trees        *treesvc.Service
	Skills       *skillsvc.Service
	Achievements *achievementsvc.Service
	Orientations *orientationsvc.Service
	Activities   *activitysvc.Service
	Friendships  *friendshipsvc.Service
}

// New connects to the database and wires repositories and services.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	constraints, err := domain.NewConstraints(cfg.SkillTree.ImageDomain, cfg.SkillTree.MaxUserNodes)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("compile constraints: %w", err)
	}

	tx := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	friendships := friendshiprepo.New(pool)
	trees := treerepo.New(pool)
	skills := skillrepo.New(pool)
	achievements := achievementrepo.New(pool)
	orientations := orientationrepo.New(pool)
	activities := activityrepo.New(pool)

	friendshipService := friendshipsvc.NewService(log, friendships, users)
	skillService := skillsvc.NewService(log, skills, trees, orientations, activities, tx, constraints)
	achievementService := achievementsvc.NewService(log, achievements, trees, orientations, tx, constraints)
	orientationService := orientationsvc.NewService(log, orientations, trees, skills, achievements)
	activityService := activitysvc.NewService(log, activities, skills, skillService, friendshipService,
		tx, constraints, cfg.SkillTree.StreakWindowDays, cfg.SkillTree.FeedWindowDays)
	treeService := treesvc.NewService(log, trees, skills, achievements, orientations, users,
		friendshipService, tx, constraints)

	return &App{
		Cfg:          cfg,
		Log:          log,
		Pool:         pool,
		Auth:         auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
		Trees:        treeService,
		Skills:       skillService,
		Achievements: achievementService,
		Orientations: orientationService,
		Activities:   activityService,
		Friendships:  friendshipService,
	}, nil
}

// Close releases the connection pool.
func (a *App) Close() {
	a.Pool.Close()
}

// Run is the server entry point. It loads configuration, wires the
// application, logs startup information, and blocks until the context is
// cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("application ready",
		slog.String("host", cfg.Server.Host),
		slog.Int("port", cfg.Server.Port),
	)

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
