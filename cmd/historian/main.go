// cmd/historian/main.go is the asynchronous historian service: it pops finished
// games from the Redis results queue and persists them to PostgreSQL.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/quizparty/internal/cache"
	"github.com/jason-s-yu/quizparty/internal/config"
	"github.com/jason-s-yu/quizparty/internal/database"
	"github.com/jason-s-yu/quizparty/internal/historian"
	"github.com/jason-s-yu/quizparty/internal/models"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	rdb, err := cache.ConnectRedis(ctx, redisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	store := historian.StoreFunc(func(ctx context.Context, recs []models.GameRecord) error {
		return database.RecordGames(ctx, pool, recs)
	})
	hs := historian.NewHistorianService(cache.NewResultsQueue(rdb, cfg.ResultsQueue), store, historian.Options{
		BatchSize:  cfg.HistorianBatchSize,
		FlushDelay: cfg.HistorianFlush,
	})

	log.WithField("queue", cfg.ResultsQueue).Info("quizparty-historian service started")
	hs.Run(ctx)
	log.Info("Historian shutdown complete.")
}
