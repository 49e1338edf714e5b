package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academics-api/api/swagger"
	"github.com/noah-isme/academics-api/internal/decoder"
	"github.com/noah-isme/academics-api/internal/handler"
	"github.com/noah-isme/academics-api/internal/repository"
	"github.com/noah-isme/academics-api/internal/service"
	"github.com/noah-isme/academics-api/pkg/cache"
	"github.com/noah-isme/academics-api/pkg/config"
	"github.com/noah-isme/academics-api/pkg/database"
	"github.com/noah-isme/academics-api/pkg/logger"
	"github.com/noah-isme/academics-api/pkg/storage"
)

const (
	shutdownTimeout       = 15 * time.Second
	exportCleanupInterval = 10 * time.Minute
)

// @title Academics API
// @version 1.0.0
// @description Decodes VIT student information system responses into typed academic records.
// @BasePath /api/v1
// @schemes http https
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

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	validate := validator.New()
	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var db *sqlx.DB
	if cfg.Snapshots.Enabled {
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer db.Close()
		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(db.DB, logr); err != nil {
				logr.Fatal("failed to migrate snapshot store", zap.Error(err))
			}
		}
		checks["postgres"] = db.PingContext
	}

	var decodeCache *service.CacheService
	if cfg.Cache.Enabled {
		var redisClient *redis.Client
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, decode cache disabled", zap.Error(err))
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
			decodeCache = service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, true)
			checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}
	}

	var snapshotSvc *service.SnapshotService
	if db != nil {
		snapshotSvc = service.NewSnapshotService(repository.NewSnapshotRepository(db), validate, metrics, logr, service.SnapshotServiceConfig{
			Enabled: true,
			Workers: cfg.Snapshots.Workers,
			Retries: cfg.Snapshots.Retries,
		})
		snapshotSvc.Start(ctx)
		defer snapshotSvc.Stop()
	}

	dec := decoder.New(logr, decoder.WithSkipObserver(metrics.RecordCourseSkipped))
	academicsSvc := service.NewAcademicsService(dec, decodeCache, snapshotSvc, metrics, logr)

	authSvc := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		ClientID:          cfg.Auth.ClientID,
		ClientSecretHash:  cfg.Auth.ClientSecretHash,
	})

	deps := routeDeps{
		auth:      authSvc,
		metrics:   metrics,
		academics: handler.NewAcademicsHandler(academicsSvc),
		tokens:    handler.NewAuthHandler(authSvc),
		probes:    handler.NewMetricsHandler(metrics, checks),
	}
	if snapshotSvc != nil {
		deps.snapshots = handler.NewSnapshotHandler(snapshotSvc)
	}

	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(academicsSvc, files, signer, validate, metrics, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr)
		deps.exports = handler.NewExportHandler(exportSvc)
		go runExportCleanup(ctx, exportSvc, cfg.Exports.SignedURLTTL, logr)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newRouter(cfg, logr, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
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

// runExportCleanup removes export files whose download links have expired.
func runExportCleanup(ctx context.Context, svc *service.ExportService, ttl time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(exportCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Cleanup(ttl); err != nil {
				logr.Warn("export cleanup failed", zap.Error(err))
			}
		}
	}
}
