// internal/models/models_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDifficultyRewards(t *testing.T) {
	assert.Equal(t, 5, DifficultyEasy.InputReward())
	assert.Equal(t, 7, DifficultyHard.InputReward())
	assert.Equal(t, 9, DifficultyImpossible.InputReward())

	assert.Equal(t, 3, DifficultyEasy.OptionReward())
	assert.Equal(t, 4, DifficultyHard.OptionReward())
	assert.Equal(t, 5, DifficultyImpossible.OptionReward())
}

func TestSettingsWithDefaults(t *testing.T) {
	s := Settings{Difficulty: "nonsense"}.WithDefaults()
	assert.Equal(t, DefaultCategory, s.Category)
	assert.Equal(t, DefaultLanguage, s.Language)
	assert.Equal(t, DifficultyRandom, s.Difficulty)

	s = Settings{Category: "science", Difficulty: DifficultyHard, Language: "ar"}.WithDefaults()
	assert.Equal(t, Settings{Category: "science", Difficulty: DifficultyHard, Language: "ar"}, s)
}

type stubChannel struct{ open bool }

func (c *stubChannel) ID() string          { return "stub" }
func (c *stubChannel) Send(_ []byte) error { return nil }
func (c *stubChannel) Open() bool          { return c.open }

func TestPartyViewAndLookup(t *testing.T) {
	p := &Party{
		Code:     "ABC123",
		HostID:   "h",
		Capacity: 2,
		Status:   StatusWaiting,
		Players: []*Player{
			{ID: "h", DisplayName: "Host", IsHost: true, Channel: &stubChannel{open: true}},
			{ID: "p", DisplayName: "Guest", Channel: &stubChannel{open: false}},
		},
	}

	assert.True(t, p.Full())
	assert.Equal(t, 1, p.IndexOf("p"))
	assert.Equal(t, -1, p.IndexOf("x"))
	assert.Nil(t, p.Player("x"))

	v := p.View()
	assert.Equal(t, "ABC123", v.Code)
	assert.Len(t, v.Players, 2)
	assert.True(t, v.Players[0].Connected)
	assert.False(t, v.Players[1].Connected)
}

func TestGameCurrentAndResponse(t *testing.T) {
	g := NewGame([]Question{{Text: "q1"}, {Text: "q2"}}, time.Now())
	assert.Equal(t, "q1", g.Current().Text)

	r := g.Response("a")
	assert.Equal(t, -1, r.OptionIndex)
	assert.Same(t, r, g.Response("a"))

	g.Index = 2
	assert.Nil(t, g.Current())
}

func TestSetProfileDefaultsAndKeeps(t *testing.T) {
	pl := &Player{ID: "p"}
	pl.SetProfile("", "")
	assert.Equal(t, DefaultAvatar, pl.Avatar)
	assert.Equal(t, DefaultDevice, pl.Device)

	pl.SetProfile("🦊", "")
	assert.Equal(t, "🦊", pl.Avatar)
	assert.Equal(t, DefaultDevice, pl.Device)

	pl.SetProfile("", "📱")
	assert.Equal(t, "🦊", pl.Avatar)
	assert.Equal(t, "📱", pl.Device)
}
