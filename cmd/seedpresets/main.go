// Command seedpresets installs preset trees from a JSON catalog into the
// database. It is intended to be run offline, not as part of the main server.
//
// Flags:
//
//	--seeder-config  path to seeder YAML config file
//	--presets        path to the presets JSON file (overrides config)
//	--dry-run        parse and report without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/bproj/skilltree-backend/internal/adapter/postgres"
	achievementrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/achievement"
	orientationrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/orientation"
	skillrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/skill"
	treerepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/tree"
	userrepo "github.com/bproj/skilltree-backend/internal/adapter/postgres/user"
	"github.com/bproj/skilltree-backend/internal/app"
	"github.com/bproj/skilltree-backend/internal/config"
	"github.com/bproj/skilltree-backend/internal/seeder"
)

// Compile-time interface assertions.
var (
	_ seeder.TreeRepo        = (*treerepo.Repo)(nil)
	_ seeder.SkillRepo       = (*skillrepo.Repo)(nil)
	_ seeder.AchievementRepo = (*achievementrepo.Repo)(nil)
	_ seeder.OrientationRepo = (*orientationrepo.Repo)(nil)
	_ seeder.UserRepo        = (*userrepo.Repo)(nil)
)

func main() {
	seederConfigFlag := flag.String("seeder-config", "", "path to seeder YAML config file")
	presetsFlag := flag.String("presets", "", "path to the presets JSON file")
	dryRunFlag := flag.Bool("dry-run", false, "parse and report without writing to DB")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	seederCfg, err := seeder.LoadConfig(*seederConfigFlag)
	if err != nil {
		logger.Error("load seeder config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *presetsFlag != "" {
		seederCfg.PresetsPath = *presetsFlag
	}
	if *dryRunFlag {
		seederCfg.DryRun = true
	}
	if seederCfg.PresetsPath == "" {
		logger.Error("no presets file configured")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	s := seeder.New(
		logger,
		treerepo.New(pool),
		skillrepo.New(pool),
		achievementrepo.New(pool),
		orientationrepo.New(pool),
		userrepo.New(pool),
		postgres.NewTxManager(pool),
		seederCfg,
	)

	result, err := s.Run(ctx)
	if err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding completed",
		slog.Int("installed", result.Installed),
		slog.Int("skipped", result.Skipped),
		slog.Duration("duration", result.Duration),
	)
}
