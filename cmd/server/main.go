package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/api"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/infrastructure/config"
	mongodb "github.com/thapelomagqazana/appointment-scheduling-backend/internal/infrastructure/db/mongo"
	redisdb "github.com/thapelomagqazana/appointment-scheduling-backend/internal/infrastructure/db/redis"
	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/infrastructure/notification"
	"github.com/thapelomagqazana/appointment-scheduling-backend/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	apptRepo := mongodb.NewAppointmentRepository(db)
	availRepo := mongodb.NewAvailabilityRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":               userRepo.EnsureIndexes,
		"appointments":        apptRepo.EnsureIndexes,
		"doctor_availability": availRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Notifications ---
	mailer := notification.NewSMTPMailer(notification.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		SSL:      cfg.SMTP.SSL,
	})
	dispatcher := notification.NewDispatcher(0, mailer, logger.For("dispatcher"))
	dispatcher.Start(ctx)

	marker := redisdb.NewReminderMarker(rdb, cfg.Reminder.Lookahead)
	sweeper := notification.NewReminderSweeper(
		apptRepo, userRepo, dispatcher, marker,
		cfg.Reminder.Interval, cfg.Reminder.Lookahead,
		logger.For("reminder"),
	)
	sweeper.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, dispatcher, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
