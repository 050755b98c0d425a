package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/api"
	"laundry-queue-backend/internal/db"
	"laundry-queue-backend/internal/notification"
	"laundry-queue-backend/internal/realtime"
	"laundry-queue-backend/internal/reconcile"
	"laundry-queue-backend/internal/reservation"
	"laundry-queue-backend/internal/status"
	"laundry-queue-backend/internal/store"
)

func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load configuration")
	}

	logger := newLogger(cfg.Log)
	log.Logger = logger
	logger.Info().Str("path", configPath).Msg("configuration loaded")

	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	} else {
		logger.Warn().Msg("VAPID keys are not configured, web push is disabled")
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	machines := store.NewMachineStore(gormDB)
	sessions := store.NewSessionStore(gormDB)
	queue := store.NewQueueStore(gormDB)
	subs := store.NewSubscriptionStore(gormDB)

	projector := status.NewProjector(machines, sessions, queue)
	hub := realtime.NewHub(cfg.Server.AllowedOrigins, logger)

	workerPool := notification.NewWorkerPool(cfg.WorkerPool, notification.Deps{
		Status:        projector,
		Queue:         queue,
		Subscriptions: subs,
		Hub:           hub,
	}, webpushOptions, logger)
	workerPool.Start(ctx)

	orch := reservation.New(machines, sessions, queue, cfg.Reservation, logger, reservation.WithPublisher(workerPool))

	scheduler := reconcile.NewScheduler(cfg.Reconcile, orch, logger)
	go scheduler.Run(ctx)

	handler := api.NewHandler(orch, projector, subs, hub, webpushOptions, logger)
	router := api.NewRouter(handler, cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server Shutdown")
	}

	logger.Info().Msg("server gracefully stopped")
}
