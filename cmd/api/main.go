// Package main is the entry point for the GradePoint API server.
//
// The API exposes course and semester management, grade rows, derived
// breakdowns and GPA summaries, and the stateless calculators.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gradepoint/gradepoint/config"
	"github.com/gradepoint/gradepoint/internal/application/command"
	"github.com/gradepoint/gradepoint/internal/application/query"
	"github.com/gradepoint/gradepoint/internal/infrastructure/persistence/postgres"
	"github.com/gradepoint/gradepoint/internal/infrastructure/persistence/redis"
	httpapi "github.com/gradepoint/gradepoint/internal/interface/http"
	"github.com/gradepoint/gradepoint/internal/interface/http/handlers"
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

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})
	log.Info("starting GradePoint API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
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
		log.Info("applying database migrations")
		if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		cache       *redis.Cache
		viewCache   *redis.ViewCache
		rateLimiter handlers.RateLimiter
	)
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		cache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("redis unavailable, caching and shared rate limiting disabled", logger.Err(err))
			cache = nil
		} else {
			defer cache.Close()
			viewCache = redis.NewViewCache(cache, log)
			rateLimiter = redis.NewRateLimiter(cache, log, cfg.HTTP.UserRateLimit, time.Minute)
			log.Info("redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	userRepo := postgres.NewUserRepository(conn)
	semesterRepo := postgres.NewSemesterRepository(conn)
	courseRepo := postgres.NewCourseRepository(conn)
	gradeRepo := postgres.NewGradeItemRepository(conn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	var views command.ViewInvalidator = command.NopInvalidator{}
	var overviewCache query.OverviewCache
	var gpaCache httpapi.GPACache
	if viewCache != nil {
		views = viewCache
		overviewCache = viewCache
		gpaCache = viewCache
	}

	deps := httpapi.Dependencies{
		GetOverviewHandler:        query.NewGetOverviewHandler(semesterRepo, courseRepo, gradeRepo, overviewCache),
		GetCourseBreakdownHandler: query.NewGetCourseBreakdownHandler(courseRepo, gradeRepo),
		GetGPASummaryHandler:      query.NewGetGPASummaryHandler(semesterRepo, courseRepo, gradeRepo),
		ListCoursesHandler:        query.NewListCoursesHandler(courseRepo),
		ListGradeRowsHandler:      query.NewListGradeRowsHandler(gradeRepo),
		CalculatorHandler:         query.NewCalculatorHandler(),

		RegisterUserHandler:   command.NewRegisterUserHandler(userRepo),
		CreateCourseHandler:   command.NewCreateCourseHandler(courseRepo, semesterRepo, views),
		UpdateCourseHandler:   command.NewUpdateCourseHandler(courseRepo, semesterRepo, views),
		DeleteCourseHandler:   command.NewDeleteCourseHandler(courseRepo, views),
		UpsertGradeRowHandler: command.NewUpsertGradeRowHandler(courseRepo, gradeRepo, views),
		GradeRowDeleteHandler: command.NewGradeRowDeleteHandler(courseRepo, gradeRepo, views),
		SemesterHandler:       command.NewSemesterHandler(semesterRepo, views),

		Users:    userRepo,
		GPACache: gpaCache,

		Logger:        log,
		Authenticator: handlers.NewBearerAuthenticator(userRepo),
		RateLimiter:   rateLimiter,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	health.AddCheck("postgres", handlers.NewPingCheck(conn))
	if cache != nil {
		health.AddCheck("redis", handlers.NewPingCheck(cache))
	}
	deps.HealthChecker = health

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.HTTP.Host
	serverCfg.Port = cfg.HTTP.Port
	serverCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	serverCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	serverCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	serverCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverCfg.RateLimitPerMinute = cfg.HTTP.UserRateLimit
	serverCfg.Version = cfg.App.Version

	server := httpapi.NewServer(serverCfg, deps)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("shutdown completed")
	return nil
}
