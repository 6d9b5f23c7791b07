// cmd/server/router_test.go
package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jason-s-yu/quizparty/internal/config"
	"github.com/jason-s-yu/quizparty/internal/handlers"
	"github.com/jason-s-yu/quizparty/internal/questions"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func testRouter() http.Handler {
	logger, _ := test.NewNullLogger()
	cfg := config.Default()
	qs := handlers.NewQuizServer(cfg, questions.NewCorpus(questions.Builtin(), nil))
	return newRouter(logger, cfg, qs)
}

func TestBanner(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, banner, w.Body.String())
}

func TestHeartbeat(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestWSRequiresUpgrade(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusUpgradeRequired, w.Code)
}
