package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"urbaniq/backend/internal/api/handler"
	"urbaniq/backend/internal/blob"
	"urbaniq/backend/internal/config"
	"urbaniq/backend/internal/ingest"
	"urbaniq/backend/internal/media"
	"urbaniq/backend/internal/models"
	"urbaniq/backend/internal/notify"
	"urbaniq/backend/internal/storage"
	"urbaniq/backend/internal/track"
)

func setupDependencies(cfg *config.Config, log *zap.Logger) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect PostgreSQL", zap.Error(err))
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Department{},
		&models.AuthorityProfile{},
		&models.Complaint{},
		&models.ComplaintImage{},
		&models.ComplaintVideo{},
		&models.ResolutionProofImage{},
	)
	if err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		// The service degrades without Redis: no rate limiting, no
		// live tracking feed.
		log.Warn("redis unavailable, continuing without it", zap.Error(err))
		rdb = nil
	}

	return db, rdb
}

func buildDispatcher(cfg *config.Config, log *zap.Logger) *notify.Dispatcher {
	var mailer notify.Mailer
	if cfg.Notify.SMTPConfigured() {
		mailer = notify.NewSMTPMailer(cfg.Notify)
	}

	var telegram *notify.TelegramChannel
	if cfg.Notify.TelegramToken != "" {
		var err error
		telegram, err = notify.NewTelegramChannel(cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID, log)
		if err != nil {
			log.Warn("telegram channel disabled", zap.Error(err))
			telegram = nil
		}
	}

	return notify.NewDispatcher(cfg.Notify, mailer, notify.NewDNSResolver(), telegram, log)
}

func buildBlobStore(cfg *config.Config, log *zap.Logger) blob.Store {
	if cfg.Blob.S3Enabled {
		store, err := blob.NewS3Store(cfg.Blob)
		if err != nil {
			log.Fatal("s3 blob store misconfigured", zap.Error(err))
		}
		return store
	}
	return blob.NewLocalStore(cfg.Blob.LocalDir)
}

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	db, rdb := setupDependencies(cfg, log)
	s := storage.NewStorageService(db, rdb)

	if err := s.SeedDepartments(models.SeedDepartments); err != nil {
		log.Fatal("failed to seed departments", zap.Error(err))
	}

	normalizer := media.NewNormalizer(cfg.Media, log)
	blobs := buildBlobStore(cfg, log)
	dispatcher := buildDispatcher(cfg, log)
	ingestSvc := ingest.NewService(s, normalizer, blobs, dispatcher, log)

	hub := track.NewHub(rdb, log)
	go hub.Run(context.Background())

	h := handler.NewHandler(ingestSvc, s, hub, cfg.JWTSecret, log)

	r := gin.Default()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)

	authed := r.Group("/api", h.RequireAuth())
	authed.GET("/user/me", h.Me)
	authed.GET("/reports", h.ListReports)
	authed.POST("/reports", h.CreateReport)
	authed.GET("/reports/mine", h.MyReports)
	authed.GET("/reports/:id", h.ReportDetail)
	authed.PATCH("/reports/:id", h.PatchReport)
	authed.DELETE("/reports/:id", h.DeleteReport)
	authed.GET("/reports/track/:trackingId", h.TrackReport)
	authed.GET("/reports/track/:trackingId/watch", h.WatchReport)
	authed.GET("/departments", h.ListDepartments)

	if !cfg.Blob.S3Enabled {
		r.Static("/uploads", cfg.Blob.LocalDir)
	}

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Info("starting UrbanIQ backend", zap.String("addr", cfg.HTTPAddr))
	if err := server.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
