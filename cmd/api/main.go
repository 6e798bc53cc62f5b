package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/votacion-api/internal/config"
	"github.com/gravadigital/votacion-api/internal/domain/candidate"
	"github.com/gravadigital/votacion-api/internal/domain/eligibility"
	"github.com/gravadigital/votacion-api/internal/domain/vote"
	"github.com/gravadigital/votacion-api/internal/lock"
	"github.com/gravadigital/votacion-api/internal/logger"
	"github.com/gravadigital/votacion-api/internal/media"
	"github.com/gravadigital/votacion-api/internal/realtime"
	"github.com/gravadigital/votacion-api/internal/server"
	"github.com/gravadigital/votacion-api/internal/services"
	"github.com/gravadigital/votacion-api/internal/storage"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.LogLevel)
	log := logger.Get()

	log.Info("Starting Votacion API", "environment", cfg.Environment, "storage", cfg.Storage.Backend)

	ctx := context.Background()

	storageType, err := storage.ValidateStorageType(cfg.Storage.Backend)
	if err != nil {
		log.Fatal("Invalid storage backend", "error", err)
	}

	store, err := storage.NewFactory(storageType).CreateContainer(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "error", err)
	}

	var locker lock.Locker
	var redisLock *lock.Redis
	if cfg.Redis.URL != "" {
		redisLock, err = lock.NewRedis(ctx, cfg.Redis.URL, cfg.Redis.LockTTL, cfg.Redis.LockWait)
		if err != nil {
			log.Fatal("Failed to connect to redis", "error", err)
		}
		locker = redisLock
		log.Info("Using redis vote locks")
	} else {
		locker = lock.NewLocal(cfg.Redis.LockWait)
		log.Info("Using in-process vote locks")
	}

	images, err := media.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize image storage", "error", err)
	}

	registry := candidate.NewRegistry(store.Candidates())
	ledger := vote.NewLedger(store.Votes(), registry, locker, vote.Options{
		BatchSize:      cfg.Storage.BatchSize,
		NormalizeEmail: cfg.Election.NormalizeEmail,
	})
	hub := realtime.NewHub(registry)

	election := services.NewElectionService(registry, ledger, hub, services.Policy{
		InstitutionalDomains:      cfg.Election.InstitutionalDomains,
		RequireInstitutionalEmail: cfg.Election.RequireInstitutionalEmail,
		RequireGeofence:           cfg.Election.RequireGeofence,
		Campus: eligibility.Geofence{
			Center:       eligibility.Point{Lat: cfg.Campus.Latitude, Lng: cfg.Campus.Longitude},
			RadiusMeters: cfg.Campus.RadiusMeters,
		},
	})

	srv := server.New(cfg, server.Dependencies{
		Store:    store,
		Registry: registry,
		Election: election,
		Hub:      hub,
		Images:   images,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub.Close()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if redisLock != nil {
		if err := redisLock.Close(); err != nil {
			log.Error("Failed to close redis", "error", err)
		}
	}

	if err := store.Close(); err != nil {
		log.Error("Failed to close storage", "error", err)
	}

	log.Info("Server exited")
}
