package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/smenuberu/dashboard/internal/backend"
	"github.com/smenuberu/dashboard/internal/config"
	"github.com/smenuberu/dashboard/internal/repository"
	"github.com/smenuberu/dashboard/internal/seed"
	"github.com/smenuberu/dashboard/internal/utils"
	"github.com/smenuberu/dashboard/internal/workflow"
)

func main() {
	var objects int
	var days int

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	flag.IntVar(&objects, "objects", cfg.Seed.Objects, "number of demo objects to create")
	flag.IntVar(&days, "days", cfg.Seed.Days, "number of days each demo shift is published for")
	flag.Parse()

	if cfg.Seed.SessionCookie == "" {
		logger.Error("SEED_SESSION_COOKIE is required, copy it from a signed-in browser session")
		os.Exit(1)
	}
	if objects <= 0 || days <= 0 {
		logger.Error("objects and days must be positive", slog.Int("objects", objects), slog.Int("days", days))
		os.Exit(1)
	}

	cookies, err := http.ParseCookie(cfg.Seed.SessionCookie)
	if err != nil {
		logger.Error("failed to parse session cookie", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := backend.New(cfg.Backend.BaseURL, time.Duration(cfg.Backend.RequestTimeout)*time.Second)
	repo := repository.NewRepository(cfg, client)

	v, err := utils.NewValidator()
	if err != nil {
		logger.Error("failed to create validator", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := backend.WithCookies(context.Background(), cookies)

	user, err := repo.GetMe(ctx)
	if err != nil {
		logger.Error("failed to check session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if user == nil {
		logger.Error("session cookie is not signed in")
		os.Exit(1)
	}

	s := seed.NewSeeder(
		workflow.NewObjectFlow(repo, repo, v, cfg.Upload.MaxPhotos),
		workflow.NewShiftFlow(repo, v),
	)
	summary, err := s.Run(ctx, objects, days)
	if err != nil {
		logger.Error("seeding finished with errors", slog.String("error", err.Error()))
	}
	logger.Info("seeded demo data",
		slog.String("user", user.Name()),
		slog.Int("objects", len(summary.Objects)),
		slog.Int("shifts", summary.Shifts),
	)
}
