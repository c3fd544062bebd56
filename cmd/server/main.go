package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/codedocs/snippets-api/internal/api"
	"github.com/codedocs/snippets-api/internal/infrastructure/config"
	mongodb "github.com/codedocs/snippets-api/internal/infrastructure/db/mongo"
	redisdb "github.com/codedocs/snippets-api/internal/infrastructure/db/redis"
	"github.com/codedocs/snippets-api/internal/realtime"
	"github.com/codedocs/snippets-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        Snippets API
// @version      1.0
// @description  Auth, realtime presence, and the book/chapter/section/snippet content tree.
// @BasePath     /
func main() {
	// A missing .env is fine; containers pass real environment variables.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index provisioning failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	hub := realtime.NewHub(
		ctx,
		redisdb.NewPresenceStore(rdb),
		redisdb.NewPresenceBroadcaster(rdb),
		logger.For("realtime"),
	)
	go hub.Run()

	e := api.NewRouter(db, rdb, cfg, hub, logger.For("http"))

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Stopping the hub drops remaining websocket clients and clears
	// the presence flags this instance owns.
	hub.Stop()

	log.Info().Msg("shutdown complete")
}
