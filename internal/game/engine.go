// internal/game/engine.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/quizparty/internal/broadcast"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/party"
	"github.com/jason-s-yu/quizparty/internal/protocol"
	"github.com/jason-s-yu/quizparty/internal/questions"
	"github.com/jason-s-yu/quizparty/internal/schedule"
	log "github.com/sirupsen/logrus"
)

// Archiver receives the summary of every finished game. Archive runs off the
// scheduler's sequence and may block on I/O.
type Archiver interface {
	Archive(ctx context.Context, rec models.GameRecord) error
}

// Options are the engine's timings and game shape.
type Options struct {
	QuestionCount int
	OptionCount   int
	InputPhase    time.Duration
	OptionsPhase  time.Duration
	ResultsDelay  time.Duration
	PostGameDelay time.Duration
}

// Engine runs the question cycle of every playing party. Like the registry it
// is confined to the scheduler's sequence.
type Engine struct {
	sched     schedule.Scheduler
	parties   *party.Registry
	gw        *broadcast.Gateway
	questions questions.Provider
	opts      Options
	rng       *rand.Rand

	archiver       Archiver
	archiveTimeout time.Duration
}

func NewEngine(sched schedule.Scheduler, parties *party.Registry, gw *broadcast.Gateway, qp questions.Provider, opts Options) *Engine {
	return &Engine{
		sched:          sched,
		parties:        parties,
		gw:             gw,
		questions:      qp,
		opts:           opts,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
		archiveTimeout: 5 * time.Second,
	}
}

// SetRand replaces the random source used to shuffle options.
func (e *Engine) SetRand(rng *rand.Rand) {
	e.rng = rng
}

// SetArchiver registers a sink for finished games.
func (e *Engine) SetArchiver(a Archiver) {
	e.archiver = a
}

// AutoStart force-starts a waiting party. It is the registry's auto-start hook.
func (e *Engine) AutoStart(code string) {
	if err := e.Start(code, "", true); err != nil {
		log.WithField("party", code).Warnf("auto-start failed: %v", err)
	}
}

// Start moves a waiting party into play. A non-empty requestedBy must be the
// host. Without force at least two players are required.
func (e *Engine) Start(code, requestedBy string, force bool) error {
	p, ok := e.parties.Get(code)
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrNotFound, code)
	}
	if p.Status != models.StatusWaiting {
		return fmt.Errorf("%w: party is %s", models.ErrInvalidState, p.Status)
	}
	if requestedBy != "" && requestedBy != p.HostID {
		return fmt.Errorf("%w: only the host can start the game", models.ErrInvalidState)
	}
	if len(p.Players) == 0 || (!force && len(p.Players) < 2) {
		return fmt.Errorf("%w: need at least 2 players", models.ErrInvalidState)
	}

	qs := e.questions.Questions(p.Settings, e.opts.QuestionCount)
	if len(qs) == 0 {
		return fmt.Errorf("%w: no questions for %s/%s", models.ErrInvalidState, p.Settings.Language, p.Settings.Category)
	}

	for _, pl := range p.Players {
		pl.ResetStats()
	}
	p.Game = models.NewGame(qs, e.sched.Now())
	p.Status = models.StatusPlaying

	view := p.View()
	e.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypeGameStarted, Payload: protocol.GameStarted{
		GameID:   p.Game.ID.String(),
		Total:    len(qs),
		Settings: p.Settings,
		Players:  view.Players,
	}})
	log.WithFields(log.Fields{
		"party":     p.Code,
		"game":      p.Game.ID,
		"players":   len(p.Players),
		"questions": len(qs),
		"forced":    force,
	}).Info("game started")

	e.beginInput(p)
	return nil
}

// SubmitAnswer records a free-text answer. The first correct submission of a
// question scores; later ones only replace the stored text. Outside the input
// phase it is a no-op.
func (e *Engine) SubmitAnswer(code, playerID, text string) error {
	p, pl, err := e.member(code, playerID)
	if err != nil {
		return err
	}
	g := p.Game
	if p.Status != models.StatusPlaying || g == nil || g.Phase != models.PhaseInput {
		return nil
	}
	q := g.Current()
	r := g.Response(playerID)
	r.Text = text
	if r.InputCorrect {
		return nil
	}
	if guess := Normalize(text); guess == "" || guess != Normalize(q.Answer) {
		return nil
	}

	pts := InputPoints(q.Difficulty, pl.Streak)
	r.InputCorrect = true
	r.Points += pts
	pl.Score += pts
	pl.CorrectCount++
	pl.Streak++
	log.WithFields(log.Fields{"party": code, "player": playerID, "points": pts}).Debug("correct answer")
	return nil
}

// SelectOption records a multiple-choice pick. Only the first pick counts, and
// it scores only for players who missed the question in the input phase.
func (e *Engine) SelectOption(code, playerID string, index int) error {
	p, pl, err := e.member(code, playerID)
	if err != nil {
		return err
	}
	g := p.Game
	if p.Status != models.StatusPlaying || g == nil || g.Phase != models.PhaseOptions {
		return nil
	}
	q := g.Current()
	if index < 0 || index >= len(q.Options) {
		return fmt.Errorf("%w: option %d out of range", models.ErrValidation, index)
	}
	r := g.Response(playerID)
	if r.OptionIndex >= 0 {
		return nil
	}
	r.OptionIndex = index
	if Normalize(q.Options[index]) != Normalize(q.Answer) {
		return nil
	}
	r.OptionCorrect = true
	if r.InputCorrect {
		return nil
	}
	pts := q.Difficulty.OptionReward()
	r.Points += pts
	pl.Score += pts
	pl.CorrectCount++
	return nil
}

func (e *Engine) member(code, playerID string) (*models.Party, *models.Player, error) {
	p, ok := e.parties.Get(code)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", models.ErrNotFound, code)
	}
	pl := p.Player(playerID)
	if pl == nil {
		return nil, nil, fmt.Errorf("%w: player %s not in party", models.ErrNotFound, playerID)
	}
	return p, pl, nil
}

// after schedules next to run once d has elapsed, provided the party is still
// on the same game, question and phase.
func (e *Engine) after(p *models.Party, d time.Duration, next func(*models.Party)) {
	code := p.Code
	partyID := p.ID
	gameID := p.Game.ID
	index := p.Game.Index
	phase := p.Game.Phase

	e.sched.After(d, func() {
		cur, ok := e.parties.Get(code)
		if !ok || cur.ID != partyID || cur.Game == nil || cur.Game.ID != gameID ||
			cur.Game.Index != index || cur.Game.Phase != phase {
			log.WithFields(log.Fields{"party": code, "index": index, "phase": phase}).Debug("stale phase timer ignored")
			return
		}
		next(cur)
	})
}

func (e *Engine) beginInput(p *models.Party) {
	g := p.Game
	g.Phase = models.PhaseInput
	g.Answers = make(map[string]*models.Response)

	e.broadcastQuestion(p, e.opts.InputPhase)
	e.after(p, e.opts.InputPhase, e.beginOptions)
}

func (e *Engine) beginOptions(p *models.Party) {
	g := p.Game
	for _, pl := range p.Players {
		if r, ok := g.Answers[pl.ID]; !ok || !r.InputCorrect {
			pl.Streak = 0
		}
	}

	q := g.Current()
	q.Options = BuildOptions(p, g, e.opts.OptionCount, e.optionPool(p.Settings), e.rng)
	g.Phase = models.PhaseOptions

	e.broadcastQuestion(p, e.opts.OptionsPhase)
	e.after(p, e.opts.OptionsPhase, e.showResults)
}

// optionPool is a sample of answers from the party's question filter.
func (e *Engine) optionPool(settings models.Settings) []string {
	qs := e.questions.Questions(settings, 2*e.opts.OptionCount)
	pool := make([]string, 0, len(qs))
	for _, q := range qs {
		pool = append(pool, q.Answer)
	}
	return pool
}

func (e *Engine) broadcastQuestion(p *models.Party, d time.Duration) {
	g := p.Game
	e.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypeQuestionUpdate, Payload: protocol.QuestionUpdate{
		Index:      g.Index,
		Total:      len(g.Questions),
		Phase:      g.Phase,
		Question:   protocol.QuestionOf(g.Current(), g.Phase == models.PhaseOptions),
		DurationMs: d.Milliseconds(),
	}})
}

func (e *Engine) showResults(p *models.Party) {
	g := p.Game
	g.Phase = models.PhaseResults
	q := g.Current()

	results := make([]protocol.PlayerResult, 0, len(p.Players))
	for _, pl := range p.Players {
		res := protocol.PlayerResult{
			PlayerID:    pl.ID,
			DisplayName: pl.DisplayName,
			Total:       pl.Score,
			Streak:      pl.Streak,
		}
		if r, ok := g.Answers[pl.ID]; ok {
			res.Answer = r.Text
			if r.OptionIndex >= 0 && r.OptionIndex < len(q.Options) {
				res.Option = q.Options[r.OptionIndex]
			}
			res.Correct = r.InputCorrect || r.OptionCorrect
			res.PointsGained = r.Points
		}
		results = append(results, res)
	}

	e.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypeQuestionResults, Payload: protocol.QuestionResults{
		Index:         g.Index,
		Total:         len(g.Questions),
		CorrectAnswer: q.Answer,
		Results:       results,
	}})
	e.after(p, e.opts.ResultsDelay, e.advance)
}

func (e *Engine) advance(p *models.Party) {
	g := p.Game
	g.Index++
	if g.Index < len(g.Questions) {
		e.beginInput(p)
		return
	}
	e.finish(p)
}

func (e *Engine) finish(p *models.Party) {
	g := p.Game
	standings := Standings(p.Players)

	p.Status = models.StatusFinished
	p.Game = nil

	e.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypeGameEnded, Payload: protocol.GameEnded{
		GameID:    g.ID.String(),
		Standings: standings,
	}})
	log.WithFields(log.Fields{"party": p.Code, "game": g.ID, "questions": g.Index}).Info("game finished")

	e.archive(models.GameRecord{
		GameID:     g.ID,
		PartyID:    p.ID,
		PartyCode:  p.Code,
		Settings:   p.Settings,
		Questions:  len(g.Questions),
		Standings:  standings,
		StartedAt:  g.StartedAt,
		FinishedAt: e.sched.Now(),
	})

	code, id := p.Code, p.ID
	e.sched.After(e.opts.PostGameDelay, func() { e.rotate(code, id) })
}

func (e *Engine) rotate(code string, id uuid.UUID) {
	p, ok := e.parties.Get(code)
	if !ok || p.ID != id || p.Status != models.StatusFinished {
		return
	}
	newCode, err := e.parties.RotateCode(code)
	if err != nil {
		log.WithField("party", code).Errorf("rotate failed: %v", err)
		return
	}
	e.gw.BroadcastParty(p, protocol.Envelope{Type: protocol.TypePartyRegenerated, Payload: p.View()})
	log.WithFields(log.Fields{"old": code, "new": newCode}).Info("rematch lobby ready")
}

func (e *Engine) archive(rec models.GameRecord) {
	if e.archiver == nil {
		return
	}
	a, timeout := e.archiver, e.archiveTimeout
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := a.Archive(ctx, rec); err != nil {
			log.WithField("game", rec.GameID).Warnf("archive failed: %v", err)
		}
	}()
}
