// internal/practice/practice.go
package practice

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/quizparty/internal/broadcast"
	"github.com/jason-s-yu/quizparty/internal/game"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/protocol"
	"github.com/jason-s-yu/quizparty/internal/questions"
	"github.com/jason-s-yu/quizparty/internal/schedule"
	log "github.com/sirupsen/logrus"
)

// Options are the practice timings.
type Options struct {
	QuestionCount int
	RevealDelay   time.Duration // text-only window before options are shown
	ResultsDelay  time.Duration // pause after an answer before the next question
}

type session struct {
	id        uuid.UUID
	ch        models.Channel
	questions []models.Question
	index     int
	score     int
	answered  bool
}

// Manager runs single-player practice runs, one per channel. Confined to the
// scheduler's sequence.
type Manager struct {
	sched     schedule.Scheduler
	gw        *broadcast.Gateway
	questions questions.Provider
	opts      Options
	sessions  map[string]*session
	rng       *rand.Rand
}

const practiceOptionCount = 4

func NewManager(sched schedule.Scheduler, gw *broadcast.Gateway, qp questions.Provider, opts Options) *Manager {
	return &Manager{
		sched:     sched,
		gw:        gw,
		questions: qp,
		opts:      opts,
		sessions:  make(map[string]*session),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start begins a practice run on ch, replacing any run already in progress there.
func (m *Manager) Start(ch models.Channel, settings models.Settings) {
	qs := m.questions.Questions(settings, m.opts.QuestionCount)
	for i := range qs {
		qs[i].Options = m.practiceOptions(qs, i)
	}
	s := &session{id: uuid.New(), ch: ch, questions: qs}
	m.sessions[ch.ID()] = s
	log.WithFields(log.Fields{"conn": ch.ID(), "questions": len(qs)}).Info("practice started")
	m.ask(s)
}

// Answer scores free text or an option's text against the current question.
// Reports false when the channel has no practice run.
func (m *Manager) Answer(ch models.Channel, text string) bool {
	s, ok := m.sessions[ch.ID()]
	if !ok || s.index >= len(s.questions) {
		return false
	}
	if s.answered {
		return true
	}
	q := &s.questions[s.index]
	correct := game.Normalize(text) != "" && game.Normalize(text) == game.Normalize(q.Answer)
	if correct {
		s.score += q.Difficulty.InputReward()
	}
	s.answered = true

	m.gw.Send(s.ch, protocol.Envelope{Type: protocol.TypePracticeResult, Payload: protocol.PracticeResult{
		Correct:       correct,
		CorrectAnswer: q.Answer,
		Score:         s.score,
		Difficulty:    q.Difficulty,
	}})

	id, index := s.id, s.index
	m.sched.After(m.opts.ResultsDelay, func() {
		cur, ok := m.sessions[ch.ID()]
		if !ok || cur.id != id || cur.index != index {
			return
		}
		cur.index++
		m.ask(cur)
	})
	return true
}

// Stop drops the run bound to ch. Pending timers become no-ops.
func (m *Manager) Stop(ch models.Channel) {
	delete(m.sessions, ch.ID())
}

// Active reports whether ch has a practice run.
func (m *Manager) Active(ch models.Channel) bool {
	_, ok := m.sessions[ch.ID()]
	return ok
}

func (m *Manager) ask(s *session) {
	if s.index >= len(s.questions) {
		m.gw.Send(s.ch, protocol.Envelope{Type: protocol.TypePracticeEnded, Payload: protocol.PracticeEnded{
			Score: s.score,
			Total: len(s.questions),
		}})
		delete(m.sessions, s.ch.ID())
		return
	}
	s.answered = false
	m.sendQuestion(s, false)

	id, index := s.id, s.index
	m.sched.After(m.opts.RevealDelay, func() {
		cur, ok := m.sessions[s.ch.ID()]
		if !ok || cur.id != id || cur.index != index || cur.answered {
			return
		}
		m.sendQuestion(cur, true)
	})
}

func (m *Manager) sendQuestion(s *session, withOptions bool) {
	m.gw.Send(s.ch, protocol.Envelope{Type: protocol.TypePracticeQuestion, Payload: protocol.PracticeQuestion{
		Number:   s.index + 1,
		Total:    len(s.questions),
		Question: protocol.QuestionOf(&s.questions[s.index], withOptions),
	}})
}

// practiceOptions is the answer plus the question's distractors, padded with
// the run's other answers and then generic options.
func (m *Manager) practiceOptions(qs []models.Question, i int) []string {
	q := qs[i]
	var others []string
	for j, other := range qs {
		if j != i {
			others = append(others, other.Answer)
		}
	}
	return game.FillOptions(q.Answer, practiceOptionCount, m.rng, q.Distractors, others, game.GenericOptions(q.Language))
}
