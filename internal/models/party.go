// internal/models/party.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a party.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Party is a game room. Code is the registry key and changes on rotation;
// ID stays fixed for the life of the session.
type Party struct {
	ID        uuid.UUID
	Code      string
	HostID    string
	Capacity  int
	Settings  Settings
	Players   []*Player // join order
	Status    Status
	CreatedAt time.Time
	ExpiresAt time.Time

	// Game is non-nil iff Status == StatusPlaying.
	Game *Game
}

// Player returns the member with the given id, or nil.
func (p *Party) Player(id string) *Player {
	for _, pl := range p.Players {
		if pl.ID == id {
			return pl
		}
	}
	return nil
}

// IndexOf returns the join position of the member with the given id, or -1.
func (p *Party) IndexOf(id string) int {
	for i, pl := range p.Players {
		if pl.ID == id {
			return i
		}
	}
	return -1
}

// Full reports whether another player can be admitted.
func (p *Party) Full() bool {
	return len(p.Players) >= p.Capacity
}

// PlayerView is the public shape of a member in membership snapshots.
type PlayerView struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Avatar      string `json:"avatar,omitempty"`
	Device      string `json:"device,omitempty"`
	IsHost      bool   `json:"isHost"`
	Score       int    `json:"score"`
	Connected   bool   `json:"connected"`
}

// PartyView is the payload of partyCreated, partyUpdate and partyRegenerated.
type PartyView struct {
	Code     string       `json:"code"`
	Host     string       `json:"host"`
	Capacity int          `json:"capacity"`
	Status   Status       `json:"status"`
	Settings Settings     `json:"settings"`
	Players  []PlayerView `json:"players"`
}

// View builds the membership snapshot sent to clients.
func (p *Party) View() PartyView {
	v := PartyView{
		Code:     p.Code,
		Host:     p.HostID,
		Capacity: p.Capacity,
		Status:   p.Status,
		Settings: p.Settings,
		Players:  make([]PlayerView, 0, len(p.Players)),
	}
	for _, pl := range p.Players {
		v.Players = append(v.Players, PlayerView{
			ID:          pl.ID,
			DisplayName: pl.DisplayName,
			Avatar:      pl.Avatar,
			Device:      pl.Device,
			IsHost:      pl.IsHost,
			Score:       pl.Score,
			Connected:   pl.Connected(),
		})
	}
	return v
}
