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
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	_ "github.com/znlumins/webkalenderaihmpsti/api/swagger"
	"github.com/znlumins/webkalenderaihmpsti/internal/handler"
	"github.com/znlumins/webkalenderaihmpsti/internal/repository"
	"github.com/znlumins/webkalenderaihmpsti/internal/service"
	"github.com/znlumins/webkalenderaihmpsti/migrations"
	"github.com/znlumins/webkalenderaihmpsti/pkg/cache"
	"github.com/znlumins/webkalenderaihmpsti/pkg/config"
	"github.com/znlumins/webkalenderaihmpsti/pkg/database"
	"github.com/znlumins/webkalenderaihmpsti/pkg/jobs"
	"github.com/znlumins/webkalenderaihmpsti/pkg/logger"
	"github.com/znlumins/webkalenderaihmpsti/pkg/realtime"
	"github.com/znlumins/webkalenderaihmpsti/pkg/storage"
)

// @title Web Kalender HMPSTI API
// @version 1.0.0
// @description Departmental event calendar: schedule, work programmes, uploads and broadcast texts.
// @BasePath /api
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck

	applied, err := database.Migrate(ctx, db, migrations.FS, logr)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		logr.Sugar().Infow("migrations applied", "versions", applied)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	blobs, err := storage.NewBlobStore(cfg.Storage.BaseDir, cfg.Storage.PublicBaseURL, cfg.Storage.Buckets)
	if err != nil {
		return err
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	hub := realtime.NewHub(cfg.Realtime.BufferSize, logr)
	publisher := changePublisher(ctx, cfg, redisClient, hub, logr)

	eventRepo := repository.NewEventRepository(db)
	prokerRepo := repository.NewProkerRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	refRepo := repository.NewBlobReferenceRepository(db)

	var cacheRepo service.CacheRepository
	if redisClient != nil {
		cacheRepo = repository.NewCacheRepository(redisClient, "kalender")
	}
	eventCache := service.NewEventCache(cacheRepo, metrics, cfg.Cache.EventTTL, logr, cfg.Cache.Enabled)
	changes, unsubscribe := hub.Subscribe()
	defer unsubscribe()
	go eventCache.Watch(ctx, changes)

	blobSvc := service.NewBlobService(blobs, refRepo, nil, auditRepo, metrics, service.BlobConfig{
		Buckets:      cfg.Storage.Buckets,
		MaxFileSize:  cfg.Storage.MaxFileSizeBytes,
		AllowedMIMEs: cfg.Storage.AllowedMIMEs,
		GracePeriod:  cfg.BlobGC.GracePeriod,
	}, logr)

	queue := jobs.NewQueue("blobs", jobs.QueueConfig{
		Workers:    cfg.BlobGC.Workers,
		MaxRetries: cfg.BlobGC.Retries,
		JobTimeout: 30 * time.Second,
		Logger:     logr,
	})
	queue.Register(service.JobTypeBlobRelease, blobSvc.HandleRelease)
	queue.Start(ctx)
	defer queue.Stop()
	blobSvc.SetQueue(queue)

	if cfg.BlobGC.Enabled {
		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.BlobGC.Schedule, func() {
			removed, err := blobSvc.Sweep(ctx)
			if err != nil {
				logr.Warn("blob sweep failed", zap.Error(err))
				return
			}
			logr.Info("blob sweep finished", zap.Int("removed", removed))
		}); err != nil {
			return fmt.Errorf("schedule blob sweep %q: %w", cfg.BlobGC.Schedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	eventSvc := service.NewEventService(service.EventServiceOptions{
		Events:    eventRepo,
		Prokers:   prokerRepo,
		Cache:     eventCache,
		Publisher: publisher,
		Blobs:     blobSvc,
		Audit:     auditRepo,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr,
	})
	prokerSvc := service.NewProkerService(prokerRepo, eventRepo, eventCache, publisher, blobSvc, auditRepo, metrics, validate, logr)
	adminSvc := service.NewAdminUserService(identityRepo, profileRepo, auditRepo, validate, logr)
	authSvc := service.NewAuthService(identityRepo, profileRepo, auditRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	jarkomanSvc := service.NewJarkomanService(service.NewChatClient(cfg.AI), eventRepo, metrics, validate, logr, cfg.AI)
	if cfg.AI.APIKey == "" {
		logr.Warn("GROQ_API_KEY not set, broadcast generation will fail")
	}
	exportSvc := service.NewExportService(eventRepo, service.ExportConfig{}, logr)

	router := newRouter(cfg, logr, routeDeps{
		auth:      authSvc,
		audit:     auditRepo,
		metrics:   metrics,
		db:        db,
		events:    handler.NewEventHandler(eventSvc),
		prokers:   handler.NewProkerHandler(prokerSvc),
		adminUser: handler.NewAdminUserHandler(adminSvc),
		authH:     handler.NewAuthHandler(authSvc),
		jarkoman:  handler.NewJarkomanHandler(jarkomanSvc),
		export:    handler.NewExportHandler(exportSvc),
		files:     handler.NewFileHandler(blobSvc, blobs),
		stream:    handler.NewStreamHandler(hub, metrics, cfg.Realtime.Heartbeat),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// changePublisher fans writes out through Redis when it is configured so
// every instance hears them, and straight into the local hub otherwise.
func changePublisher(ctx context.Context, cfg *config.Config, client *redis.Client, hub *realtime.Hub, logr *zap.Logger) service.ChangePublisher {
	if client == nil {
		return hub
	}
	broker := realtime.NewRedisBroker(client, cfg.Realtime.Channel, hub, logr)
	go func() {
		if err := broker.Run(ctx); err != nil {
			logr.Error("realtime bridge stopped", zap.Error(err))
		}
	}()
	return broker
}
