// Command server runs the attendance portal API.
//
// @title        Attendance Portal API
// @version      1.0
// @description  Mentor and parent attendance portal: roster imports, scoped student access, polled chat.
//
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorlink/attendance-portal/internal/api"
	"github.com/mentorlink/attendance-portal/internal/infrastructure/db/mongo"
	"github.com/mentorlink/attendance-portal/internal/infrastructure/db/redis"
	"github.com/mentorlink/attendance-portal/internal/infrastructure/notify"
	"github.com/mentorlink/attendance-portal/internal/pkg/config"
	"github.com/mentorlink/attendance-portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	ensureIndexes(ctx, db, log)

	// --- Alert delivery pipeline ---
	dispatcher := notify.NewDispatcher(cfg.AlertWorkers, notify.NewLogNotifier(log), log)
	dispatcher.Start(ctx)

	// --- HTTP ---
	e := api.NewRouter(db, rdb, dispatcher, cfg.JWTSecret, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
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

// ensureIndexes creates the collection indexes at startup. Index creation is
// idempotent; a failure is logged but does not prevent serving.
func ensureIndexes(ctx context.Context, db *mongodriver.Database, log zerolog.Logger) {
	for name, repo := range map[string]interface {
		EnsureIndexes(context.Context) error
	}{
		"users":    mongo.NewUserRepository(db),
		"students": mongo.NewStudentRepository(db),
		"messages": mongo.NewMessageRepository(db),
	} {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}
}
