// Command checkintegrity sweeps user trees for partial-write damage: trees
// without an orientation, orientation entries pointing at dead nodes, live
// nodes without an entry, and parent or prerequisite references that resolve
// outside their tree. It is intended to be invoked by an external cron job.
//
// Flags:
//
//	--user  limit the sweep to one user id (default: all users)
//
// Exit codes: 0 = clean, 1 = error, 2 = faults found.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/bproj/skilltree-backend/internal/app"
	"github.com/bproj/skilltree-backend/internal/config"
	"github.com/bproj/skilltree-backend/internal/service/tree"
)

func main() {
	userFlag := flag.String("user", "", "limit the sweep to one user id")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("wire application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	var report *tree.IntegrityReport
	if *userFlag != "" {
		userID, err := uuid.Parse(*userFlag)
		if err != nil {
			logger.Error("parse user id", slog.String("error", err.Error()))
			os.Exit(1)
		}
		report, err = a.Trees.CheckIntegrity(ctx, userID)
		if err != nil {
			logger.Error("integrity sweep failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		report, err = a.Trees.CheckIntegrityAll(ctx)
		if err != nil {
			logger.Error("integrity sweep failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	for _, f := range report.Faults {
		logger.Warn("integrity fault",
			slog.String("user_id", f.UserID.String()),
			slog.String("tree_id", f.TreeID.String()),
			slog.String("detail", f.Detail),
		)
	}

	if !report.Clean() {
		logger.Error("integrity sweep found faults", slog.Int("faults", len(report.Faults)))
		os.Exit(2)
	}

	logger.Info("integrity sweep clean")
}
