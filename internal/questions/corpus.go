// internal/questions/corpus.go
package questions

import (
	"math/rand"
	"sync"
	"time"

	"github.com/jason-s-yu/quizparty/internal/models"
)

// Provider hands out a fresh random selection of questions for a party's settings.
type Provider interface {
	Questions(settings models.Settings, count int) []models.Question
}

// Corpus is an in-memory Provider indexed by language and category.
type Corpus struct {
	mu    sync.Mutex
	rng   *rand.Rand
	index map[string]map[string][]models.Question
	size  int
}

// NewCorpus indexes qs. A nil rng is seeded from the clock.
func NewCorpus(qs []models.Question, rng *rand.Rand) *Corpus {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c := &Corpus{
		rng:   rng,
		index: make(map[string]map[string][]models.Question),
	}
	for _, q := range qs {
		byCat, ok := c.index[q.Language]
		if !ok {
			byCat = make(map[string][]models.Question)
			c.index[q.Language] = byCat
		}
		byCat[q.Category] = append(byCat[q.Category], q)
		c.size++
	}
	return c
}

// Len is the total number of indexed questions.
func (c *Corpus) Len() int {
	return c.size
}

// Questions returns up to count questions. An unknown language falls back to
// English and an unknown category to general; a difficulty filter that matches
// nothing is dropped. Returned questions are copies the caller may mutate.
func (c *Corpus) Questions(settings models.Settings, count int) []models.Question {
	settings = settings.WithDefaults()

	byCat, ok := c.index[settings.Language]
	if !ok {
		byCat = c.index[models.DefaultLanguage]
	}
	pool, ok := byCat[settings.Category]
	if !ok {
		pool = byCat[models.DefaultCategory]
	}

	if settings.Difficulty != models.DifficultyRandom {
		var filtered []models.Question
		for _, q := range pool {
			if q.Difficulty == settings.Difficulty {
				filtered = append(filtered, q)
			}
		}
		if len(filtered) > 0 {
			pool = filtered
		}
	}

	picked := make([]models.Question, len(pool))
	for i, q := range pool {
		picked[i] = q
		picked[i].Distractors = append([]string(nil), q.Distractors...)
		picked[i].Options = nil
	}

	c.mu.Lock()
	c.rng.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	c.mu.Unlock()

	if count < len(picked) {
		picked = picked[:count]
	}
	return picked
}

// Categories lists the categories known for a language.
func (c *Corpus) Categories(lang string) []string {
	var out []string
	for cat := range c.index[lang] {
		out = append(out, cat)
	}
	return out
}
