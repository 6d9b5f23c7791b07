// internal/handlers/quiz_server.go
package handlers

import (
	"context"

	"github.com/jason-s-yu/quizparty/internal/broadcast"
	"github.com/jason-s-yu/quizparty/internal/config"
	"github.com/jason-s-yu/quizparty/internal/game"
	"github.com/jason-s-yu/quizparty/internal/party"
	"github.com/jason-s-yu/quizparty/internal/practice"
	"github.com/jason-s-yu/quizparty/internal/questions"
	"github.com/jason-s-yu/quizparty/internal/router"
	"github.com/jason-s-yu/quizparty/internal/schedule"
	log "github.com/sirupsen/logrus"
)

// loopBuffer is how many tasks may queue on the loop before posters block.
const loopBuffer = 1024

// QuizServer wires the in-memory game state to its event loop. Everything but
// Loop itself must only be touched from tasks running on Loop.
type QuizServer struct {
	Loop     *schedule.Loop
	Registry *party.Registry
	Engine   *game.Engine
	Practice *practice.Manager
	Router   *router.Router
	Gateway  *broadcast.Gateway

	origins []string
	base    context.Context
	stop    context.CancelFunc
}

func NewQuizServer(cfg config.Config, qp questions.Provider) *QuizServer {
	loop := schedule.NewLoop(loopBuffer)

	reg := party.NewRegistry(loop, party.Options{
		MaxCapacity:    cfg.MaxCapacity,
		IdleTTL:        cfg.PartyIdleTTL,
		AutoStartDelay: cfg.AutoStartDelay,
		RematchIdle:    cfg.RematchIdle,
		SweepInterval:  cfg.SweepInterval,
	})
	gw := broadcast.NewGateway(reg)
	eng := game.NewEngine(loop, reg, gw, qp, game.Options{
		QuestionCount: cfg.QuestionCount,
		OptionCount:   cfg.OptionCount,
		InputPhase:    cfg.InputPhase,
		OptionsPhase:  cfg.OptionsPhase,
		ResultsDelay:  cfg.ResultsDelay,
		PostGameDelay: cfg.PostGameDelay,
	})
	reg.AutoStart = eng.AutoStart

	pm := practice.NewManager(loop, gw, qp, practice.Options{
		QuestionCount: cfg.QuestionCount,
		RevealDelay:   cfg.InputPhase,
		ResultsDelay:  cfg.ResultsDelay,
	})
	rt := router.New(loop, reg, eng, pm, gw, router.Options{
		RateLimit:       cfg.RateLimit,
		RateBurst:       cfg.RateBurst,
		DisconnectGrace: cfg.DisconnectGrace,
	})

	base, stop := context.WithCancel(context.Background())
	return &QuizServer{
		Loop:     loop,
		Registry: reg,
		Engine:   eng,
		Practice: pm,
		Router:   rt,
		Gateway:  gw,
		origins:  cfg.AllowedOrigins,
		base:     base,
		stop:     stop,
	}
}

// SetArchiver forwards finished games to a.
func (s *QuizServer) SetArchiver(a game.Archiver) {
	s.Loop.Post(func() { s.Engine.SetArchiver(a) })
}

// Run starts the idle sweeper and drives the loop until ctx is done.
func (s *QuizServer) Run(ctx context.Context) {
	s.Loop.Post(s.Registry.StartSweeper)
	log.Info("quiz loop running")
	s.Loop.Run(ctx)
	log.Info("quiz loop stopped")
}

// Close tells every open socket the server is going away.
func (s *QuizServer) Close() {
	s.stop()
}
