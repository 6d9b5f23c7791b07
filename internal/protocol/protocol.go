// internal/protocol/protocol.go
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/validate"
)

// Inbound message types.
const (
	TypeCreateParty    = "createParty"
	TypeJoinParty      = "joinParty"
	TypeLeaveParty     = "leaveParty"
	TypeStartGame      = "startGame"
	TypeSubmitAnswer   = "submitAnswer"
	TypeSelectOption   = "selectOption"
	TypePing           = "ping"
	TypeStartPractice  = "startPractice"
	TypePracticeAnswer = "practiceAnswer"
)

// Outbound message types.
const (
	TypePartyCreated     = "partyCreated"
	TypePartyUpdate      = "partyUpdate"
	TypePartyRegenerated = "partyRegenerated"
	TypeGameStarted      = "gameStarted"
	TypeQuestionUpdate   = "questionUpdate"
	TypeQuestionResults  = "questionResults"
	TypeGameEnded        = "gameEnded"
	TypePong             = "pong"
	TypePracticeQuestion = "practiceQuestion"
	TypePracticeResult   = "practiceResult"
	TypePracticeEnded    = "practiceEnded"
	TypeError            = "error"
)

// ErrMalformed wraps every decode or payload validation failure.
var ErrMalformed = errors.New("malformed message")

// Envelope is the outbound frame.
type Envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Inbound is a decoded frame whose payload has not been bound yet.
type Inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Decode parses a raw frame. The payload is left undecoded.
func Decode(data []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if in.Type == "" {
		return in, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return in, nil
}

// Bind decodes the payload into v and runs struct validation. A rejected
// display name wraps models.ErrValidation; any other failure wraps ErrMalformed.
func (in Inbound) Bind(v any) error {
	if len(in.Payload) == 0 || string(in.Payload) == "null" {
		return fmt.Errorf("%w: missing payload", ErrMalformed)
	}
	if err := json.Unmarshal(in.Payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) {
			for _, fe := range fields {
				if fe.Tag() == "displayname" {
					return fmt.Errorf("%w: %v", models.ErrValidation, validate.DisplayName(fmt.Sprint(fe.Value())))
				}
			}
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// Error builds an error frame.
func Error(reason, message string) Envelope {
	return Envelope{Type: TypeError, Payload: ErrorPayload{Reason: reason, Message: message}}
}

// QuestionOf strips the answer from q. Options are included only when withOptions is set.
func QuestionOf(q *models.Question, withOptions bool) QuestionView {
	v := QuestionView{
		Text:       q.Text,
		Difficulty: q.Difficulty,
		Category:   q.Category,
	}
	if withOptions {
		v.Options = append([]string(nil), q.Options...)
	}
	return v
}
