// internal/handlers/quiz_ws.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/quizparty/internal/middleware"
	"github.com/sirupsen/logrus"
)

const (
	readLimit    = 8 << 10
	pingInterval = 30 * time.Second
	writeTimeout = 5 * time.Second
)

// QuizWSHandler upgrades to a websocket and feeds its frames to the router.
// The "quiz" subprotocol is offered but not required.
func QuizWSHandler(logger *logrus.Logger, qs *QuizServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"quiz"},
			OriginPatterns: qs.origins,
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")
		c.SetReadLimit(readLimit)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		ch := newWSChannel(cancel)

		// close the socket when the server shuts down
		stopShutdownWatch := context.AfterFunc(qs.base, func() {
			c.Close(ServerShutdownCode, "server shutting down")
		})
		defer stopShutdownWatch()

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)
		qs.Loop.Post(func() { qs.Router.Connect(ch) })

		go writePump(ctx, c, ch, logger)
		readErr := readPump(ctx, c, ch, qs, logger)

		ch.Close()
		qs.Loop.Post(func() { qs.Router.Disconnect(ch) })

		if ch.overflowed.Load() {
			c.Close(SlowConsumerError, "outbound queue overflow")
		} else {
			c.Close(websocket.StatusNormalClosure, "")
		}
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// readPump posts every text frame onto the loop until the socket closes.
// A normal close returns nil.
func readPump(ctx context.Context, c *websocket.Conn, ch *wsChannel, qs *QuizServer, logger *logrus.Logger) error {
	for {
		typ, msg, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			logger.Warnf("conn %s: ignoring non-text frame type %d", ch.ID(), typ)
			continue
		}
		qs.Loop.Post(func() { qs.Router.Handle(ch, msg) })
	}
}

// writePump drains the channel's outbox onto the socket and pings the peer.
func writePump(ctx context.Context, c *websocket.Conn, ch *wsChannel, logger *logrus.Logger) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer ch.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-ch.OutChan:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Debugf("conn %s: write failed: %v", ch.ID(), err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Debugf("conn %s: ping failed: %v", ch.ID(), err)
				return
			}
		}
	}
}
