package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/apper-apps/scholar-array-protocol/api/swagger"
	"github.com/apper-apps/scholar-array-protocol/internal/handler"
	"github.com/apper-apps/scholar-array-protocol/internal/repository"
	"github.com/apper-apps/scholar-array-protocol/internal/repository/memory"
	"github.com/apper-apps/scholar-array-protocol/internal/router"
	"github.com/apper-apps/scholar-array-protocol/internal/service"
	"github.com/apper-apps/scholar-array-protocol/pkg/cache"
	"github.com/apper-apps/scholar-array-protocol/pkg/config"
	"github.com/apper-apps/scholar-array-protocol/pkg/database"
	"github.com/apper-apps/scholar-array-protocol/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Scholar Array API
// @version 1.0.0
// @description Grade and attendance aggregation for the student dashboard
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, checks, closeStore, err := openStore(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open record store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer closeStore()

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, dashboard caching disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(client, cache.KeyPrefix, logr)
			checks["cache"] = cacheRepo
		}
	}
	var cacheStore service.CacheRepository
	if cacheRepo != nil {
		cacheStore = cacheRepo
	}
	cacheSvc := service.NewCacheService(cacheStore, metrics, cfg.Cache.DashboardTTL, logr, cacheStore != nil)

	validate := validator.New()

	students := service.NewStudentService(repos.Students, cacheSvc, validate, logr)
	classes := service.NewClassService(service.ClassServiceParams{
		Classes:     repos.Classes,
		Grades:      repos.Grades,
		Attendance:  repos.Attendance,
		Assignments: repos.Assignments,
		Cache:       cacheSvc,
		Validator:   validate,
		Logger:      logr,
	})
	assignments := service.NewAssignmentService(repos.Assignments, repos.Classes, validate, logr)
	grades := service.NewGradeService(service.GradeServiceParams{
		Grades:      repos.Grades,
		Students:    repos.Students,
		Classes:     repos.Classes,
		Assignments: repos.Assignments,
		Cache:       cacheSvc,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr,
	})
	attendance := service.NewAttendanceService(service.AttendanceServiceParams{
		Attendance:       repos.Attendance,
		Cache:            cacheSvc,
		Metrics:          metrics,
		Validator:        validate,
		Logger:           logr,
		BatchConcurrency: cfg.Attendance.BatchConcurrency,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Students:    repos.Students,
		Classes:     repos.Classes,
		Grades:      repos.Grades,
		Attendance:  repos.Attendance,
		Assignments: repos.Assignments,
		Cache:       cacheSvc,
		Metrics:     metrics,
		Logger:      logr,
		Config:      service.DashboardServiceConfig{CacheTTL: cfg.Cache.DashboardTTL},
	})
	exports := service.NewExportService(service.ExportServiceParams{
		Students:    repos.Students,
		Classes:     repos.Classes,
		Assignments: repos.Assignments,
		Grades:      repos.Grades,
		Attendance:  repos.Attendance,
		Logger:      logr,
		Config:      service.ExportConfig{MaxRows: cfg.Export.MaxRows},
	})

	opts := router.Options{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		EnableMetrics:  cfg.Metrics.Enabled,
		Metrics:        metrics,
		Logger:         logr,
	}
	if cfg.Auth.Enabled {
		opts.Tokens = service.NewTokenService(service.TokenConfig{Secret: cfg.Auth.Secret, Issuer: cfg.Auth.Issuer})
	}

	engine := router.New(router.Handlers{
		Students:    handler.NewStudentHandler(students),
		Classes:     handler.NewClassHandler(classes),
		Assignments: handler.NewAssignmentHandler(assignments),
		Grades:      handler.NewGradeHandler(grades),
		Attendance:  handler.NewAttendanceHandler(attendance),
		Dashboard:   handler.NewDashboardHandler(dashboard),
		Exports:     handler.NewExportHandler(exports),
		Ops:         handler.NewMetricsHandler(metrics, checks),
	}, opts)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "store", cfg.Store.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the configured record store adapter and its readiness check.
func openStore(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.Repositories, map[string]handler.Pinger, func(), error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return service.Repositories{}, nil, nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := database.EnsureSchema(ctx, db); err != nil {
				_ = db.Close()
				return service.Repositories{}, nil, nil, fmt.Errorf("ensure schema: %w", err)
			}
		}
		repos := service.Repositories{
			Students:    repository.NewStudentRepository(db),
			Classes:     repository.NewClassRepository(db),
			Assignments: repository.NewAssignmentRepository(db),
			Grades:      repository.NewGradeRepository(db),
			Attendance:  repository.NewAttendanceRepository(db),
		}
		checks := map[string]handler.Pinger{"store": handler.PingFunc(db.PingContext)}
		return repos, checks, func() { _ = db.Close() }, nil
	default:
		db := memory.NewDB()
		if cfg.Store.SeedDemo {
			if err := memory.Seed(ctx, db); err != nil {
				return service.Repositories{}, nil, nil, fmt.Errorf("seed demo data: %w", err)
			}
			logr.Info("seeded in-memory store with demo records")
		}
		repos := service.Repositories{
			Students:    memory.NewStudentRepository(db),
			Classes:     memory.NewClassRepository(db),
			Assignments: memory.NewAssignmentRepository(db),
			Grades:      memory.NewGradeRepository(db),
			Attendance:  memory.NewAttendanceRepository(db),
		}
		return repos, map[string]handler.Pinger{}, func() {}, nil
	}
}
