// internal/router/errors.go
package router

import (
	"fmt"

	"github.com/jason-s-yu/quizparty/internal/models"
	"github.com/jason-s-yu/quizparty/internal/protocol"
)

var (
	errAnonymousStart = fmt.Errorf("%w: only the host can start the game", models.ErrInvalidState)
	errNoPractice     = fmt.Errorf("%w: no practice run on this connection", models.ErrInvalidState)
)

func errUnknownType(typ string) error {
	return fmt.Errorf("%w: unknown message type %q", protocol.ErrMalformed, typ)
}
