// internal/models/game.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Phase is the sub-state of a game for the current question.
type Phase string

const (
	PhaseInput   Phase = "input"
	PhaseOptions Phase = "options"
	PhaseResults Phase = "results"
)

// Question is one trivia item. Distractors are the wrong choices shipped with
// the question; Options is filled in when the options phase begins.
type Question struct {
	Text        string     `json:"text"`
	Answer      string     `json:"answer"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	Language    string     `json:"language"`
	Distractors []string   `json:"distractors,omitempty"`
	Options     []string   `json:"options,omitempty"`
}

// Response is one player's activity on the current question.
type Response struct {
	Text          string
	InputCorrect  bool
	OptionIndex   int // -1 until a selection is made
	OptionCorrect bool
	Points        int
}

// Game is the question sequence and per-question state of a playing party.
type Game struct {
	ID        uuid.UUID
	Questions []Question
	Index     int
	Phase     Phase
	Answers   map[string]*Response
	StartedAt time.Time
}

// NewGame creates a game positioned before its first question.
func NewGame(questions []Question, now time.Time) *Game {
	return &Game{
		ID:        uuid.New(),
		Questions: questions,
		Answers:   make(map[string]*Response),
		StartedAt: now,
	}
}

// Current returns the active question, or nil once the sequence is exhausted.
func (g *Game) Current() *Question {
	if g.Index < 0 || g.Index >= len(g.Questions) {
		return nil
	}
	return &g.Questions[g.Index]
}

// Response returns the player's response for the current question, creating it on first use.
func (g *Game) Response(playerID string) *Response {
	r, ok := g.Answers[playerID]
	if !ok {
		r = &Response{OptionIndex: -1}
		g.Answers[playerID] = r
	}
	return r
}
