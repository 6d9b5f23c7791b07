// internal/protocol/payloads.go
package protocol

import "github.com/jason-s-yu/quizparty/internal/models"

// ---- inbound ----

type CreateParty struct {
	HostID      string          `json:"hostId" validate:"required,max=64"`
	DisplayName string          `json:"displayName" validate:"required,displayname"`
	Avatar      string          `json:"avatar,omitempty" validate:"max=16"`
	Device      string          `json:"device,omitempty" validate:"max=16"`
	Capacity    int             `json:"capacity" validate:"gte=1"`
	Settings    models.Settings `json:"settings"`
}

type JoinParty struct {
	Code        string `json:"code" validate:"required"`
	PlayerID    string `json:"playerId" validate:"required,max=64"`
	DisplayName string `json:"displayName" validate:"required,displayname"`
	Avatar      string `json:"avatar,omitempty" validate:"max=16"`
	Device      string `json:"device,omitempty" validate:"max=16"`
}

type LeaveParty struct {
	Code     string `json:"code" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
}

// StartGame is sent by the host. PlayerID falls back to the player bound to the connection.
type StartGame struct {
	Code     string `json:"code" validate:"required"`
	PlayerID string `json:"playerId"`
}

type SubmitAnswer struct {
	Code     string `json:"code" validate:"required"`
	PlayerID string `json:"playerId" validate:"required"`
	Text     string `json:"text" validate:"max=200"`
}

type SelectOption struct {
	Code        string `json:"code" validate:"required"`
	PlayerID    string `json:"playerId" validate:"required"`
	OptionIndex *int   `json:"optionIndex" validate:"required,gte=0"`
}

type Ping struct {
	Timestamp int64 `json:"timestamp"`
}

type StartPractice struct {
	Category   string            `json:"category"`
	Difficulty models.Difficulty `json:"difficulty"`
	Language   string            `json:"language"`
}

// PracticeAnswer carries either free text or the text of a chosen option.
type PracticeAnswer struct {
	Text   string `json:"text" validate:"max=200"`
	Option string `json:"option" validate:"max=200"`
}

// ---- outbound ----

type ErrorPayload struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type QuestionView struct {
	Text       string            `json:"text"`
	Difficulty models.Difficulty `json:"difficulty"`
	Category   string            `json:"category,omitempty"`
	Options    []string          `json:"options,omitempty"`
}

type GameStarted struct {
	GameID   string              `json:"gameId"`
	Total    int                 `json:"total"`
	Settings models.Settings     `json:"settings"`
	Players  []models.PlayerView `json:"players"`
}

type QuestionUpdate struct {
	Index      int          `json:"index"`
	Total      int          `json:"total"`
	Phase      models.Phase `json:"phase"`
	Question   QuestionView `json:"question"`
	DurationMs int64        `json:"durationMs"`
}

type PlayerResult struct {
	PlayerID     string `json:"playerId"`
	DisplayName  string `json:"displayName"`
	Answer       string `json:"answer,omitempty"`
	Option       string `json:"option,omitempty"`
	Correct      bool   `json:"correct"`
	PointsGained int    `json:"pointsGained"`
	Total        int    `json:"total"`
	Streak       int    `json:"streak"`
}

type QuestionResults struct {
	Index         int            `json:"index"`
	Total         int            `json:"total"`
	CorrectAnswer string         `json:"correctAnswer"`
	Results       []PlayerResult `json:"results"`
}

type GameEnded struct {
	GameID    string            `json:"gameId"`
	Standings []models.Standing `json:"standings"`
}

type Pong struct {
	Timestamp int64 `json:"timestamp"`
}

type PracticeQuestion struct {
	Number   int          `json:"number"`
	Total    int          `json:"total"`
	Question QuestionView `json:"question"`
}

type PracticeResult struct {
	Correct       bool              `json:"correct"`
	CorrectAnswer string            `json:"correctAnswer"`
	Score         int               `json:"score"`
	Difficulty    models.Difficulty `json:"difficulty"`
}

type PracticeEnded struct {
	Score int `json:"score"`
	Total int `json:"total"`
}
