// cmd/server/router.go
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jason-s-yu/quizparty/internal/config"
	"github.com/jason-s-yu/quizparty/internal/handlers"
	"github.com/jason-s-yu/quizparty/internal/middleware"
	"github.com/sirupsen/logrus"
)

const banner = "Quiz Game Server Running"

func newRouter(logger *logrus.Logger, cfg config.Config, qs *handlers.QuizServer) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.LogMiddleware(logger))
	r.Use(chimw.Recoverer)

	r.Use(chimw.Heartbeat("/ping"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(banner))
	})
	r.Get("/ws", handlers.QuizWSHandler(logger, qs))

	return r
}
