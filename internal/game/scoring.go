// internal/game/scoring.go
package game

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/jason-s-yu/quizparty/internal/models"
)

// Normalize lower-cases s and collapses runs of whitespace, so "  New   York" and
// "new york" compare equal.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// InputPoints is floor(base * (1 + streak/10)), computed in integers.
func InputPoints(d models.Difficulty, streak int) int {
	return d.InputReward() * (10 + streak) / 10
}

// genericOptions pad a choice set once every real source is exhausted.
var genericOptions = map[string][]string{
	"en": {"None of the above", "All of the above", "I don't know", "Something else", "Nobody knows"},
	"ar": {"لا شيء مما سبق", "كل ما سبق", "لا أعرف", "شيء آخر", "لا أحد يعرف"},
}

// GenericOptions returns the padding list for language, falling back to English.
func GenericOptions(language string) []string {
	if opts, ok := genericOptions[language]; ok {
		return opts
	}
	return genericOptions[models.DefaultLanguage]
}

// FillOptions returns answer plus candidates drawn from sources in order until
// size entries are collected. Blank entries and duplicates (after Normalize)
// are skipped. The result is shuffled with rng.
func FillOptions(answer string, size int, rng *rand.Rand, sources ...[]string) []string {
	opts := make([]string, 0, size)
	seen := make(map[string]bool)

	add := func(s string) {
		s = strings.TrimSpace(s)
		key := Normalize(s)
		if key == "" || seen[key] || len(opts) >= size {
			return
		}
		seen[key] = true
		opts = append(opts, s)
	}

	add(answer)
	for _, src := range sources {
		for _, s := range src {
			add(s)
		}
	}

	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

// BuildOptions assembles the multiple-choice set for the current question.
// The correct answer goes in first, then other players' wrong free-text answers
// in join order, then the question's own distractors, then answers to the other
// questions in the deck, then pool, then the generic options for the party's
// language.
func BuildOptions(p *models.Party, g *models.Game, size int, pool []string, rng *rand.Rand) []string {
	q := g.Current()

	var wrong []string
	for _, pl := range p.Players {
		if r, ok := g.Answers[pl.ID]; ok && !r.InputCorrect {
			wrong = append(wrong, r.Text)
		}
	}
	var deck []string
	for i, other := range g.Questions {
		if i != g.Index {
			deck = append(deck, other.Answer)
		}
	}

	return FillOptions(q.Answer, size, rng, wrong, q.Distractors, deck, pool, GenericOptions(p.Settings.Language))
}

// Standings ranks players by score, highest first. Ties keep join order.
func Standings(players []*models.Player) []models.Standing {
	ranked := append([]*models.Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	out := make([]models.Standing, len(ranked))
	for i, pl := range ranked {
		out[i] = models.Standing{
			Rank:         i + 1,
			PlayerID:     pl.ID,
			DisplayName:  pl.DisplayName,
			Score:        pl.Score,
			CorrectCount: pl.CorrectCount,
		}
	}
	return out
}
