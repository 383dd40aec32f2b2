// Package main is the entry point for the GradePoint background worker.
//
// The worker keeps the cached read models warm so the first page load
// after a quiet period does not pay the full assembly cost, sweeps
// leftover rate-limit counters whose expiry was never set, and removes
// grade rows orphaned by pre-cascade imports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gradepoint/gradepoint/config"
	"github.com/gradepoint/gradepoint/internal/application/query"
	"github.com/gradepoint/gradepoint/internal/domain/user"
	"github.com/gradepoint/gradepoint/internal/infrastructure/persistence/postgres"
	"github.com/gradepoint/gradepoint/internal/infrastructure/persistence/redis"
	"github.com/gradepoint/gradepoint/internal/infrastructure/worker"
	"github.com/gradepoint/gradepoint/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.Worker.Enabled {
		fmt.Fprintln(os.Stderr, "worker is disabled (WORKER_ENABLED=false)")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting GradePoint worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.Duration("refresh_interval", cfg.Worker.RefreshViewsInterval),
		logger.Duration("prune_interval", cfg.Worker.PruneInterval),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	var conn *postgres.Connection
	if cfg.Database.URL != "" {
		conn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	} else {
		conn, err = postgres.NewConnection(ctx, postgres.DefaultConfig())
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (OPTIONAL)
	// ─────────────────────────────────────────────────────────────────────────
	// Without Redis there are no views to warm and no counters to sweep,
	// but the orphan-row sweep still runs against PostgreSQL.
	var cache *redis.Cache
	var viewCache *redis.ViewCache
	if cfg.Redis.Disabled {
		log.Warn("redis disabled, running storage maintenance only")
	} else {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer cache.Close()
		viewCache = redis.NewViewCache(cache, log)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES AND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	var userRepo user.Repository = postgres.NewUserRepository(conn)
	semesterRepo := postgres.NewSemesterRepository(conn)
	courseRepo := postgres.NewCourseRepository(conn)
	gradeRepo := postgres.NewGradeItemRepository(conn)

	jobs := make([]func(context.Context), 0, 2)

	if viewCache != nil {
		refresher := worker.NewViewRefresher(worker.ViewRefresherConfig{
			Users:          userRepo,
			Overview:       query.NewGetOverviewHandler(semesterRepo, courseRepo, gradeRepo, viewCache),
			GPA:            query.NewGetGPASummaryHandler(semesterRepo, courseRepo, gradeRepo),
			Views:          viewCache,
			Logger:         log,
			Interval:       cfg.Worker.RefreshViewsInterval,
			MaxConcurrent:  cfg.Worker.MaxConcurrentJobs,
			PerUserTimeout: cfg.Worker.JobTimeout,
		})
		jobs = append(jobs, refresher.Run)
	}

	var counters worker.PatternDeleter
	if cache != nil {
		counters = cache
	}
	pruner := worker.NewPruner(counters, gradeRepo, log, cfg.Worker.PruneInterval)
	jobs = append(jobs, pruner.Run)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. RUN LOOPS
	// ─────────────────────────────────────────────────────────────────────────
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job(runCtx)
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	stop()
	wg.Wait()

	log.Info("shutdown completed")
	return nil
}
