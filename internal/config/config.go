// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	// load .env before any Load call reads the environment
	_ "github.com/joho/godotenv/autoload"
)

// Config holds every tunable of the server and the historian.
type Config struct {
	Port     string
	LogLevel string

	// game shape
	QuestionCount int
	MaxCapacity   int
	OptionCount   int

	// phase and lifecycle timers
	InputPhase      time.Duration
	OptionsPhase    time.Duration
	ResultsDelay    time.Duration
	AutoStartDelay  time.Duration
	PostGameDelay   time.Duration
	RematchIdle     time.Duration
	PartyIdleTTL    time.Duration
	SweepInterval   time.Duration
	DisconnectGrace time.Duration

	// inbound rate limit per connection
	RateLimit float64
	RateBurst int

	// question source: "builtin" or "postgres"
	QuestionSource string
	DatabaseURL    string

	// results archive
	RedisAddr          string
	RedisDB            int
	ResultsQueue       string
	HistorianBatchSize int
	HistorianFlush     time.Duration

	AllowedOrigins []string
}

// Default returns the configuration used when no environment overrides are set.
func Default() Config {
	return Config{
		Port:     "8080",
		LogLevel: "debug",

		QuestionCount: 10,
		MaxCapacity:   12,
		OptionCount:   4,

		InputPhase:      10 * time.Second,
		OptionsPhase:    10 * time.Second,
		ResultsDelay:    3 * time.Second,
		AutoStartDelay:  5 * time.Minute,
		PostGameDelay:   30 * time.Second,
		RematchIdle:     60 * time.Second,
		PartyIdleTTL:    6 * time.Minute,
		SweepInterval:   60 * time.Second,
		DisconnectGrace: 30 * time.Second,

		RateLimit: 5,
		RateBurst: 10,

		QuestionSource: "builtin",

		ResultsQueue:       "quizparty_results",
		HistorianBatchSize: 20,
		HistorianFlush:     500 * time.Millisecond,

		AllowedOrigins: []string{"*"},
	}
}

// Load reads the environment on top of Default.
func Load() Config {
	d := Default()
	c := Config{
		Port:     getEnv("PORT", d.Port),
		LogLevel: getEnv("LOG_LEVEL", d.LogLevel),

		QuestionCount: getEnvInt("QUESTION_COUNT", d.QuestionCount),
		MaxCapacity:   getEnvInt("MAX_CAPACITY", d.MaxCapacity),
		OptionCount:   getEnvInt("OPTION_COUNT", d.OptionCount),

		InputPhase:      getEnvDuration("INPUT_PHASE", d.InputPhase),
		OptionsPhase:    getEnvDuration("OPTIONS_PHASE", d.OptionsPhase),
		ResultsDelay:    getEnvDuration("RESULTS_DELAY", d.ResultsDelay),
		AutoStartDelay:  getEnvDuration("AUTO_START_DELAY", d.AutoStartDelay),
		PostGameDelay:   getEnvDuration("POST_GAME_DELAY", d.PostGameDelay),
		RematchIdle:     getEnvDuration("REMATCH_IDLE", d.RematchIdle),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", d.SweepInterval),
		DisconnectGrace: getEnvDuration("DISCONNECT_GRACE", d.DisconnectGrace),

		RateLimit: getEnvFloat("RATE_LIMIT", d.RateLimit),
		RateBurst: getEnvInt("RATE_BURST", d.RateBurst),

		QuestionSource: getEnv("QUESTION_SOURCE", d.QuestionSource),
		DatabaseURL:    getEnv("DATABASE_URL", d.DatabaseURL),

		RedisAddr:          getEnv("REDIS_ADDR", d.RedisAddr),
		RedisDB:            getEnvInt("REDIS_DB", d.RedisDB),
		ResultsQueue:       getEnv("RESULTS_QUEUE_NAME", d.ResultsQueue),
		HistorianBatchSize: getEnvInt("HISTORIAN_BATCH_SIZE", d.HistorianBatchSize),
		HistorianFlush:     time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", int(d.HistorianFlush/time.Millisecond))) * time.Millisecond,

		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", d.AllowedOrigins),
	}

	// the sweep must never reclaim a lobby before its auto-start timer fires
	c.PartyIdleTTL = getEnvDuration("PARTY_IDLE_TTL", c.AutoStartDelay+c.SweepInterval)
	if c.PartyIdleTTL < c.AutoStartDelay {
		c.PartyIdleTTL = c.AutoStartDelay + c.SweepInterval
	}
	if c.OptionCount < 4 || c.OptionCount > 5 {
		c.OptionCount = d.OptionCount
	}
	if c.QuestionCount < 1 {
		c.QuestionCount = d.QuestionCount
	}
	if c.MaxCapacity < 1 {
		c.MaxCapacity = d.MaxCapacity
	}
	return c
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration accepts Go duration strings ("10s", "5m").
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getEnvList(key string, def []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
