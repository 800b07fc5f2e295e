package main

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/device-sync/internal/config"
	"github.com/MKhiriev/device-sync/internal/handler"
	"github.com/MKhiriev/device-sync/internal/logger"
	"github.com/MKhiriev/device-sync/internal/notify"
	"github.com/MKhiriev/device-sync/internal/server"
	"github.com/MKhiriev/device-sync/internal/service"
	"github.com/MKhiriev/device-sync/internal/store"
	"github.com/MKhiriev/device-sync/internal/telemetry"
	"github.com/MKhiriev/device-sync/internal/workers"
	"github.com/MKhiriev/device-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("device-sync-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	log = log.WithLevel(cfg.App.LogLevel)

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, buildVersion, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error setting up telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Err(err).Msg("error flushing telemetry")
		}
	}()

	metrics, err := telemetry.NewSyncMetrics(telemetry.Meter())
	if err != nil {
		log.Fatal().Err(err).Msg("error creating sync metrics")
	}

	db, err := store.NewConnect(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}
	storages := store.NewStorages(db, log)

	hub := notify.NewHub(cfg.Notify.SendBuffer, log)

	var background []workers.Worker
	var pusher *notify.FCMPusher
	if cfg.Notify.FCMEnabled() {
		tokens, err := notify.NewFCMTokenSource(ctx, cfg.Notify.FCMCredentialsFile)
		if err != nil {
			log.Fatal().Err(err).Msg("error loading push credentials")
		}
		pusher = notify.NewFCMPusher(cfg.Notify, tokens, metrics, log)
		background = append(background, pusher)
	}
	dispatcher := notify.NewDispatcher(hub, pusher, metrics, log)

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, dispatcher, metrics, *cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, hub, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, workers.NewWorkers(background...), hub, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
