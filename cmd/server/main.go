// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/quizparty/internal/cache"
	"github.com/jason-s-yu/quizparty/internal/config"
	"github.com/jason-s-yu/quizparty/internal/database"
	"github.com/jason-s-yu/quizparty/internal/handlers"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/questions"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	// packages log through the standard logger
	logrus.SetLevel(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bank, err := loadQuestionBank(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("question bank: %v", err)
	}
	corpus := questions.NewCorpus(bank, nil)
	logger.Infof("question bank ready with %d questions", corpus.Len())

	qs := handlers.NewQuizServer(cfg, corpus)
	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.Warnf("results archive disabled: %v", err)
		} else {
			defer rdb.Close()
			qs.SetArchiver(cache.NewResultsQueue(rdb, cfg.ResultsQueue))
			logger.Infof("archiving results to redis list %s", cfg.ResultsQueue)
		}
	}

	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		qs.Run(loopCtx)
		close(loopDone)
	}()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(logger, cfg, qs),
	}
	go func() {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Server shutting down")

	qs.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	stopLoop()
	<-loopDone
	logger.Info("Server stopped")
}

// loadQuestionBank returns the built-in corpus, or the Postgres bank when
// QUESTION_SOURCE=postgres. An empty Postgres bank is seeded from the built-in one.
func loadQuestionBank(ctx context.Context, cfg config.Config, logger *logrus.Logger) ([]models.Question, error) {
	if cfg.QuestionSource != "postgres" {
		return questions.Builtin(), nil
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("QUESTION_SOURCE=postgres requires DATABASE_URL")
	}
	if err := database.Migrate(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	pool, err := database.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	defer pool.Close()

	bank, err := database.LoadQuestions(ctx, pool)
	if err != nil {
		return nil, err
	}
	if len(bank) > 0 {
		return bank, nil
	}
	logger.Info("question bank is empty, seeding built-in questions")
	if _, err := database.SeedQuestions(ctx, pool, questions.Builtin()); err != nil {
		return nil, err
	}
	return database.LoadQuestions(ctx, pool)
}
