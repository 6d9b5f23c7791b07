// internal/models/record.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Standing is one line of the final leaderboard.
type Standing struct {
	Rank         int    `json:"rank"`
	PlayerID     string `json:"playerId"`
	DisplayName  string `json:"displayName"`
	Score        int    `json:"score"`
	CorrectCount int    `json:"correctCount"`
}

// GameRecord is the archived summary of a finished game. It is what the
// results queue carries and what the historian persists.
type GameRecord struct {
	GameID     uuid.UUID  `json:"game_id"`
	PartyID    uuid.UUID  `json:"party_id"`
	PartyCode  string     `json:"party_code"`
	Settings   Settings   `json:"settings"`
	Questions  int        `json:"questions"`
	Standings  []Standing `json:"standings"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}
