// internal/game/engine_test.go
package game

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jason-s-yu/quizparty/internal/broadcast"
	"github.com/jason-s-yu/quizparty/internal/chantest"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/party"
	"github.com/jason-s-yu/quizparty/internal/protocol"
	"github.com/jason-s-yu/quizparty/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	inputPhase   = 10 * time.Second
	optionsPhase = 10 * time.Second
	resultsDelay = 3 * time.Second
	postGame     = 30 * time.Second
	rematchIdle  = time.Minute
	autoStart    = 5 * time.Minute
)

// fixedDeck serves the same questions to every game.
type fixedDeck []models.Question

func (d fixedDeck) Questions(_ models.Settings, count int) []models.Question {
	out := make([]models.Question, 0, len(d))
	for i, q := range d {
		if i >= count {
			break
		}
		q.Distractors = append([]string(nil), q.Distractors...)
		out = append(out, q)
	}
	return out
}

// recordingArchiver hands archived records to the test over a channel.
type recordingArchiver struct {
	records chan models.GameRecord
}

func (a *recordingArchiver) Archive(_ context.Context, rec models.GameRecord) error {
	a.records <- rec
	return nil
}

type harness struct {
	clock *schedule.Manual
	reg   *party.Registry
	eng   *Engine
	chans map[string]*chantest.Recorder
}

func newHarness(t *testing.T, deck fixedDeck) *harness {
	t.Helper()
	clock := schedule.NewManual(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	reg := party.NewRegistry(clock, party.Options{
		MaxCapacity:    8,
		IdleTTL:        autoStart + time.Minute,
		AutoStartDelay: autoStart,
		RematchIdle:    rematchIdle,
		SweepInterval:  time.Minute,
	})
	eng := NewEngine(clock, reg, broadcast.NewGateway(reg), deck, Options{
		QuestionCount: 10,
		OptionCount:   4,
		InputPhase:    inputPhase,
		OptionsPhase:  optionsPhase,
		ResultsDelay:  resultsDelay,
		PostGameDelay: postGame,
	})
	eng.SetRand(rand.New(rand.NewSource(7)))
	reg.AutoStart = eng.AutoStart
	return &harness{clock: clock, reg: reg, eng: eng, chans: make(map[string]*chantest.Recorder)}
}

// newParty creates a party hosted by the first id and joins the rest.
func (h *harness) newParty(t *testing.T, ids ...string) *models.Party {
	t.Helper()
	h.chans[ids[0]] = chantest.New(ids[0])
	p, err := h.reg.Create(ids[0], "Player "+ids[0], 4, models.Settings{}, h.chans[ids[0]])
	require.NoError(t, err)
	for _, id := range ids[1:] {
		h.chans[id] = chantest.New(id)
		_, err := h.reg.Join(p.Code, id, "Player "+id, h.chans[id])
		require.NoError(t, err)
	}
	return p
}

// question runs one full input/options/results cycle.
func (h *harness) question() {
	h.clock.Advance(inputPhase + optionsPhase + resultsDelay)
}

func easy(text, answer string, distractors ...string) models.Question {
	return models.Question{Text: text, Answer: answer, Difficulty: models.DifficultyEasy, Distractors: distractors}
}

var paris = easy("What is the capital of France?", "Paris", "London", "Berlin", "Madrid")

func TestParisScenario(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H", "P2")

	require.NoError(t, h.eng.Start(p.Code, "", true))
	assert.Equal(t, models.StatusPlaying, p.Status)
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "P2", "paris"))

	h.clock.Advance(inputPhase + optionsPhase)
	var res protocol.QuestionResults
	require.True(t, h.chans["H"].Last(protocol.TypeQuestionResults, &res))
	assert.Equal(t, "Paris", res.CorrectAnswer)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "H", res.Results[0].PlayerID)
	assert.False(t, res.Results[0].Correct)
	assert.Equal(t, "P2", res.Results[1].PlayerID)
	assert.True(t, res.Results[1].Correct)
	assert.Equal(t, 5, res.Results[1].PointsGained)

	h.clock.Advance(resultsDelay)
	var ended protocol.GameEnded
	require.True(t, h.chans["P2"].Last(protocol.TypeGameEnded, &ended))
	require.Len(t, ended.Standings, 2)
	assert.Equal(t, "P2", ended.Standings[0].PlayerID)
	assert.Equal(t, 1, ended.Standings[0].Rank)
	assert.Equal(t, models.StatusFinished, p.Status)
	assert.Nil(t, p.Game)
}

func TestMessageSequence(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")

	require.NoError(t, h.eng.Start(p.Code, "H", true))
	h.question()

	assert.Equal(t, []string{
		protocol.TypeGameStarted,
		protocol.TypeQuestionUpdate,
		protocol.TypeQuestionUpdate,
		protocol.TypeQuestionResults,
		protocol.TypeGameEnded,
	}, h.chans["H"].Types())
}

func TestIndexAdvancesOncePerQuestion(t *testing.T) {
	deck := fixedDeck{easy("q0", "a0"), easy("q1", "a1"), easy("q2", "a2")}
	h := newHarness(t, deck)
	p := h.newParty(t, "H", "P")

	require.NoError(t, h.eng.Start(p.Code, "", false))

	var inputIndexes []int
	for i := 0; i < len(deck); i++ {
		require.Equal(t, i, p.Game.Index)
		assert.Equal(t, models.PhaseInput, p.Game.Phase)
		var upd protocol.QuestionUpdate
		require.True(t, h.chans["H"].Last(protocol.TypeQuestionUpdate, &upd))
		inputIndexes = append(inputIndexes, upd.Index)
		h.question()
	}

	assert.Equal(t, []int{0, 1, 2}, inputIndexes)
	assert.Equal(t, models.StatusFinished, p.Status)
	assert.Equal(t, 3, h.chans["H"].Count(protocol.TypeQuestionResults))
	assert.Equal(t, 1, h.chans["H"].Count(protocol.TypeGameEnded))
}

func TestIdlePartyCompletesOnSchedule(t *testing.T) {
	h := newHarness(t, fixedDeck{easy("q0", "a0"), easy("q1", "a1")})
	p := h.newParty(t, "H", "P")

	require.NoError(t, h.eng.Start(p.Code, "", false))
	h.clock.Advance(2 * (inputPhase + optionsPhase + resultsDelay))

	assert.Equal(t, models.StatusFinished, p.Status)
	for _, pl := range p.Players {
		assert.Zero(t, pl.Score)
	}
}

func TestStreakScaling(t *testing.T) {
	deck := fixedDeck{easy("q0", "a"), easy("q1", "a"), easy("q2", "a"), easy("q3", "a")}
	h := newHarness(t, deck)
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	host := p.Player("H")
	var totals []int
	for range deck {
		require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "A"))
		totals = append(totals, host.Score)
		h.question()
	}
	// streak 0,1,2,3 -> 5,5,6,6
	assert.Equal(t, []int{5, 10, 16, 22}, totals)
	assert.Equal(t, 4, host.CorrectCount)
}

func TestInputPoints(t *testing.T) {
	assert.Equal(t, 5, InputPoints(models.DifficultyEasy, 0))
	assert.Equal(t, 6, InputPoints(models.DifficultyEasy, 3))
	assert.Equal(t, 7, InputPoints(models.DifficultyHard, 0))
	assert.Equal(t, 8, InputPoints(models.DifficultyHard, 2))
	assert.Equal(t, 13, InputPoints(models.DifficultyImpossible, 5))
}

func TestStreakThreeAwardsSix(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	p.Player("H").Streak = 3
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "Paris"))
	assert.Equal(t, 6, p.Player("H").Score)
	assert.Equal(t, 4, p.Player("H").Streak)
}

func TestDuplicateSubmissionsDoNotDoubleAward(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "Paris"))
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "  PARIS "))
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "Lyon"))

	host := p.Player("H")
	assert.Equal(t, 5, host.Score)
	assert.Equal(t, 1, host.CorrectCount)
	assert.Equal(t, "Lyon", p.Game.Answers["H"].Text)
	assert.True(t, p.Game.Answers["H"].InputCorrect)
}

func optionIndex(q *models.Question, text string) int {
	for i, o := range q.Options {
		if o == text {
			return i
		}
	}
	return -1
}

func TestNoOptionsCreditAfterCorrectInput(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "paris"))
	h.clock.Advance(inputPhase)
	require.Equal(t, models.PhaseOptions, p.Game.Phase)

	q := p.Game.Current()
	require.NoError(t, h.eng.SelectOption(p.Code, "H", optionIndex(q, "Paris")))
	assert.Equal(t, 5, p.Player("H").Score)
	assert.Equal(t, 1, p.Player("H").CorrectCount)
}

func TestOptionsRewardForMissedInput(t *testing.T) {
	h := newHarness(t, fixedDeck{paris, easy("q1", "a1")})
	p := h.newParty(t, "H", "P")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	guest := p.Player("P")
	guest.Streak = 2
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "P", "Lyon"))
	h.clock.Advance(inputPhase)
	assert.Zero(t, guest.Streak, "a miss in the input phase resets the streak")

	q := p.Game.Current()
	require.NoError(t, h.eng.SelectOption(p.Code, "P", optionIndex(q, "Paris")))
	// the first pick locks
	require.NoError(t, h.eng.SelectOption(p.Code, "P", optionIndex(q, "Lyon")))

	assert.Equal(t, 3, guest.Score)
	assert.Equal(t, 1, guest.CorrectCount)
	assert.Zero(t, guest.Streak)

	h.clock.Advance(optionsPhase)
	var res protocol.QuestionResults
	require.True(t, h.chans["P"].Last(protocol.TypeQuestionResults, &res))
	assert.True(t, res.Results[1].Correct)
	assert.Equal(t, "Lyon", res.Results[1].Answer)
	assert.Equal(t, "Paris", res.Results[1].Option)
	assert.Equal(t, 3, res.Results[1].PointsGained)
}

func TestWrongOptionScoresNothing(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))
	h.clock.Advance(inputPhase)

	q := p.Game.Current()
	require.NoError(t, h.eng.SelectOption(p.Code, "H", optionIndex(q, "London")))
	assert.Zero(t, p.Player("H").Score)
	assert.Equal(t, optionIndex(q, "London"), p.Game.Answers["H"].OptionIndex)
}

func TestOutOfPhaseActionsAreNoops(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H", "P")

	// waiting
	assert.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "Paris"))
	assert.NoError(t, h.eng.SelectOption(p.Code, "H", 0))
	assert.Zero(t, p.Player("H").Score)

	require.NoError(t, h.eng.Start(p.Code, "", true))

	// option during input
	assert.NoError(t, h.eng.SelectOption(p.Code, "H", 0))
	assert.NotContains(t, p.Game.Answers, "H")

	// answer during options
	h.clock.Advance(inputPhase)
	assert.NoError(t, h.eng.SubmitAnswer(p.Code, "P", "Paris"))
	assert.Zero(t, p.Player("P").Score)

	assert.ErrorIs(t, h.eng.SelectOption(p.Code, "P", 99), models.ErrValidation)
	assert.ErrorIs(t, h.eng.SubmitAnswer("NOPE00", "P", "x"), models.ErrNotFound)
	assert.ErrorIs(t, h.eng.SubmitAnswer(p.Code, "ghost", "x"), models.ErrNotFound)
}

func TestStartErrors(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})

	assert.ErrorIs(t, h.eng.Start("NOPE00", "", false), models.ErrNotFound)

	solo := h.newParty(t, "S")
	assert.ErrorIs(t, h.eng.Start(solo.Code, "S", false), models.ErrInvalidState)
	assert.Equal(t, models.StatusWaiting, solo.Status)

	duo := h.newParty(t, "H", "G")
	assert.ErrorIs(t, h.eng.Start(duo.Code, "G", false), models.ErrInvalidState, "only the host starts")
	require.NoError(t, h.eng.Start(duo.Code, "H", false))
	assert.ErrorIs(t, h.eng.Start(duo.Code, "H", false), models.ErrInvalidState)

	empty := newHarness(t, fixedDeck{})
	p := empty.newParty(t, "H", "G")
	assert.ErrorIs(t, empty.eng.Start(p.Code, "", true), models.ErrInvalidState)
}

func TestStartResetsCounters(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H", "G")
	p.Player("G").Score = 40
	p.Player("G").Streak = 4

	require.NoError(t, h.eng.Start(p.Code, "", false))
	assert.Zero(t, p.Player("G").Score)
	assert.Zero(t, p.Player("G").Streak)
}

func TestAutoStartRunsSoloGame(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")

	h.clock.Advance(autoStart)
	require.Equal(t, models.StatusPlaying, p.Status)

	h.question()
	assert.Equal(t, models.StatusFinished, p.Status)
	assert.Equal(t, 1, h.chans["H"].Count(protocol.TypeGameEnded))
}

func TestAutoStartIgnoredAfterManualStart(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H", "G")
	require.NoError(t, h.eng.Start(p.Code, "H", false))

	h.clock.Advance(autoStart)
	assert.Equal(t, 1, h.chans["H"].Count(protocol.TypeGameStarted))
}

func TestRotationAfterGame(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H", "G")
	id := p.ID
	oldCode := p.Code

	require.NoError(t, h.eng.Start(p.Code, "", false))
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "G", "Paris"))
	h.question()
	require.Equal(t, models.StatusFinished, p.Status)
	assert.Equal(t, 5, p.Player("G").Score)

	h.clock.Advance(postGame)
	assert.Equal(t, models.StatusWaiting, p.Status)
	assert.NotEqual(t, oldCode, p.Code)
	assert.Equal(t, id, p.ID)
	assert.Zero(t, p.Player("G").Score)
	assert.Zero(t, p.Player("G").CorrectCount)

	var view models.PartyView
	require.True(t, h.chans["G"].Last(protocol.TypePartyRegenerated, &view))
	assert.Equal(t, p.Code, view.Code)
	assert.Len(t, view.Players, 2)

	// the rematch lobby can be played again
	require.NoError(t, h.eng.Start(p.Code, "H", false))
	assert.Equal(t, models.StatusPlaying, p.Status)
}

func TestRematchLobbyExpires(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))
	h.question()
	h.clock.Advance(postGame)
	code := p.Code

	h.clock.Advance(rematchIdle)
	_, ok := h.reg.Get(code)
	assert.False(t, ok)
}

func TestTimersAfterPartyDeletedAreNoops(t *testing.T) {
	h := newHarness(t, fixedDeck{paris, easy("q1", "a1")})
	p := h.newParty(t, "H", "G")
	require.NoError(t, h.eng.Start(p.Code, "", false))

	_, _, err := h.reg.Leave(p.Code, "H")
	require.NoError(t, err)
	_, deleted, err := h.reg.Leave(p.Code, "G")
	require.NoError(t, err)
	require.True(t, deleted)

	h.chans["H"].Reset()
	assert.NotPanics(t, func() { h.clock.Advance(time.Hour) })
	assert.Empty(t, h.chans["H"].Frames())
	assert.Zero(t, h.reg.Len())
}

func TestLeaveMidGameKeepsCycleRunning(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H", "G")
	require.NoError(t, h.eng.Start(p.Code, "", false))

	_, _, err := h.reg.Leave(p.Code, "H")
	require.NoError(t, err)
	assert.Equal(t, "G", p.HostID)

	h.question()
	var ended protocol.GameEnded
	require.True(t, h.chans["G"].Last(protocol.TypeGameEnded, &ended))
	assert.Len(t, ended.Standings, 1)
}

func TestArchiverReceivesRecord(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	arch := &recordingArchiver{records: make(chan models.GameRecord, 1)}
	h.eng.SetArchiver(arch)

	p := h.newParty(t, "H", "G")
	require.NoError(t, h.eng.Start(p.Code, "", false))
	require.NoError(t, h.eng.SubmitAnswer(p.Code, "H", "Paris"))
	h.question()

	select {
	case rec := <-arch.records:
		assert.Equal(t, p.ID, rec.PartyID)
		assert.Equal(t, 1, rec.Questions)
		require.Len(t, rec.Standings, 2)
		assert.Equal(t, "H", rec.Standings[0].PlayerID)
	case <-time.After(time.Second):
		t.Fatal("archiver not called")
	}
}

func TestQuestionUpdateHidesAnswerUntilResults(t *testing.T) {
	h := newHarness(t, fixedDeck{paris})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	var upd protocol.QuestionUpdate
	require.True(t, h.chans["H"].Last(protocol.TypeQuestionUpdate, &upd))
	assert.Equal(t, models.PhaseInput, upd.Phase)
	assert.Empty(t, upd.Question.Options)
	assert.Equal(t, inputPhase.Milliseconds(), upd.DurationMs)

	h.clock.Advance(inputPhase)
	require.True(t, h.chans["H"].Last(protocol.TypeQuestionUpdate, &upd))
	assert.Equal(t, models.PhaseOptions, upd.Phase)
	assert.Len(t, upd.Question.Options, 4)
	assert.Contains(t, upd.Question.Options, "Paris")
}

func TestSparseDeckStillOffersFullOptionSet(t *testing.T) {
	h := newHarness(t, fixedDeck{easy("What is the capital of France?", "Paris")})
	p := h.newParty(t, "H")
	require.NoError(t, h.eng.Start(p.Code, "", true))

	h.clock.Advance(inputPhase)
	var upd protocol.QuestionUpdate
	require.True(t, h.chans["H"].Last(protocol.TypeQuestionUpdate, &upd))
	require.Equal(t, models.PhaseOptions, upd.Phase)
	assert.Len(t, upd.Question.Options, 4)
	assert.Contains(t, upd.Question.Options, "Paris")
}
