// internal/models/settings.go
package models

// Difficulty is the tier of a question, or "random" when used as a party filter.
type Difficulty string

const (
	DifficultyEasy       Difficulty = "easy"
	DifficultyHard       Difficulty = "hard"
	DifficultyImpossible Difficulty = "impossible"
	DifficultyRandom     Difficulty = "random"
)

// InputReward is the base reward for a correct free-text answer, before the streak multiplier.
func (d Difficulty) InputReward() int {
	switch d {
	case DifficultyHard:
		return 7
	case DifficultyImpossible:
		return 9
	default:
		return 5
	}
}

// OptionReward is the flat reward for a correct multiple-choice selection.
func (d Difficulty) OptionReward() int {
	switch d {
	case DifficultyHard:
		return 4
	case DifficultyImpossible:
		return 5
	default:
		return 3
	}
}

// Valid reports whether d can be used as a party filter.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyHard, DifficultyImpossible, DifficultyRandom:
		return true
	}
	return false
}

const (
	DefaultCategory = "general"
	DefaultLanguage = "en"
)

// Settings captures the question filter chosen by the host at creation.
// Immutable once the party exists.
type Settings struct {
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Language   string     `json:"language"`
}

// WithDefaults fills any blank field with its default.
func (s Settings) WithDefaults() Settings {
	if s.Category == "" {
		s.Category = DefaultCategory
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}
	if !s.Difficulty.Valid() {
		s.Difficulty = DifficultyRandom
	}
	return s
}
