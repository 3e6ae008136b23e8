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

	_ "github.com/noah-isme/tutoring-api/api/swagger"
	"github.com/noah-isme/tutoring-api/internal/repository"
	"github.com/noah-isme/tutoring-api/internal/service"
	"github.com/noah-isme/tutoring-api/migrations"
	"github.com/noah-isme/tutoring-api/pkg/cache"
	"github.com/noah-isme/tutoring-api/pkg/config"
	"github.com/noah-isme/tutoring-api/pkg/database"
	"github.com/noah-isme/tutoring-api/pkg/export"
	"github.com/noah-isme/tutoring-api/pkg/logger"
)

// @title Tutoring API
// @version 1.0.0
// @description Tutoring administration: periods, groups, enrollments, semester progression and statistics.
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

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(ctx, db, migrations.FS, logr)
		if err != nil {
			logr.Fatal("migrations failed", zap.Error(err))
		}
		logr.Info("migrations complete", zap.Int("applied", applied))
	}

	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Statistics.CacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, statistics cache disabled", zap.Error(err))
		} else {
			redisRepo := repository.NewCacheRepository(client)
			defer redisRepo.Close() //nolint:errcheck
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Statistics.CacheTTL, logr, cfg.Statistics.CacheEnabled)

	validate := validator.New()
	repos := service.NewSQLRepos(db)
	tx := service.NewSQLTxRunner(repository.NewTransactor(db))

	userRepo := repository.NewUserRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)

	referralSvc := service.NewReferralService(repos, repository.NewReferralRepository(db), cacheSvc, validate, logr)

	svcs := services{
		auth: service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
			Issuer:             "tutoring-api",
		}),
		users:       service.NewUserService(userRepo, validate, logr),
		periods:     service.NewPeriodService(repos.Periods, tx, cacheSvc, metrics, validate, logr),
		progression: service.NewProgressionService(tx, cacheSvc, metrics, validate, logr),
		groups:      service.NewGroupService(repos, tx, userRepo, cfg.Academic.DefaultGroupCapacity, validate, logr),
		enrollments: service.NewEnrollmentService(repos, tx, metrics, cacheSvc, validate, logr),
		students:    service.NewStudentService(repos, tx, cacheSvc, validate, logr),
		subjects:    service.NewSubjectService(subjectRepo, validate, logr),
		assignments: service.NewSubjectAssignmentService(repos, tx, subjectRepo, cfg.Academic.MaxSubjectsPerSemester, cacheSvc, validate, logr),
		alerts:      service.NewAlertService(repos, repository.NewAlertRepository(db), cacheSvc, validate, logr),
		referrals:   referralSvc,
		statistics:  service.NewStatisticsService(repos, repository.NewStatisticsRepository(db), cacheSvc, metrics, cfg.Statistics.CacheTTL, logr),
		reports:     service.NewReportService(repos, referralSvc, export.NewRenderer(), cfg.Reports.Enabled, logr),
	}

	r := newRouter(cfg, logr, db, metrics, userRepo, svcs)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
