package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sambafall/teranga/internal/auth"
	"github.com/sambafall/teranga/internal/category"
	"github.com/sambafall/teranga/internal/config"
	"github.com/sambafall/teranga/internal/dashboard"
	"github.com/sambafall/teranga/internal/offer"
	"github.com/sambafall/teranga/internal/server"
	"github.com/sambafall/teranga/internal/settings"
	"github.com/sambafall/teranga/internal/storage"
	"github.com/sambafall/teranga/internal/whatsapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer dbPool.Close()

	if err := storage.Migrate(ctx, cfg.Postgres); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}

	if err := storage.EnsureBucket(ctx, minioClient, cfg.MinIO.Bucket, cfg.MinIO.Region); err != nil {
		log.Fatalf("ensure bucket: %v", err)
	}

	authService := auth.NewService(auth.NewRepository(dbPool), cfg.Auth)

	imageStore := offer.NewMinIOImageStore(minioClient, cfg.MinIO.Bucket, cfg.MinIO.PublicBaseURL)
	offerService := offer.NewService(offer.NewRepository(dbPool), imageStore, cfg.Search)

	categoryService := category.NewService(category.NewRepository(dbPool))
	settingsService := settings.NewService(settings.NewRepository(dbPool))
	whatsappService := whatsapp.NewService(offerService, settingsService, cfg.WhatsApp.DefaultPhone)

	router := server.NewRouter(server.Dependencies{
		Config:          cfg,
		DB:              dbPool,
		ObjectStore:     minioClient,
		AuthService:     authService,
		OfferService:    offerService,
		CategoryService: categoryService,
		SettingsService: settingsService,
		DashboardSource: dashboard.NewRepository(dbPool),
		WhatsAppService: whatsappService,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Teranga API listening on %s", cfg.Server.Address())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("shutting down gracefully...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
