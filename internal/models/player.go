// internal/models/player.go
package models

import "time"

// Player is a party member. Membership is keyed by ID; the channel is nullable
// so a dropped connection can be reattached under the same ID.
type Player struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"displayName"`
	Avatar       string    `json:"avatar"`
	Device       string    `json:"device"`
	Channel      Channel   `json:"-"`
	IsHost       bool      `json:"isHost"`
	Score        int       `json:"score"`
	CorrectCount int       `json:"correctCount"`
	Streak       int       `json:"streak"`
	JoinedAt     time.Time `json:"-"`
	Detaches     int       `json:"-"` // channel losses so far; grace timers match on it
}

const (
	DefaultAvatar = "👤"
	DefaultDevice = "💻"
)

// SetProfile records the client-supplied avatar and device. Blank values keep
// what the player already has, or the defaults on first join.
func (p *Player) SetProfile(avatar, device string) {
	switch {
	case avatar != "":
		p.Avatar = avatar
	case p.Avatar == "":
		p.Avatar = DefaultAvatar
	}
	switch {
	case device != "":
		p.Device = device
	case p.Device == "":
		p.Device = DefaultDevice
	}
}

// Connected reports whether the player currently has a usable channel.
func (p *Player) Connected() bool {
	return p.Channel != nil && p.Channel.Open()
}

// ResetStats zeroes the per-game counters.
func (p *Player) ResetStats() {
	p.Score = 0
	p.CorrectCount = 0
	p.Streak = 0
}
