// internal/handlers/ws_channel.go
package handlers

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
)

// outboxSize bounds the frames queued for one socket before it counts as stuck.
const outboxSize = 64

var (
	errChannelClosed = errors.New("connection closed")
	errOutboxFull    = errors.New("outbound queue full")
)

// wsChannel adapts one websocket connection to models.Channel. Send never
// blocks; frames are handed to the write pump through OutChan.
type wsChannel struct {
	id      string
	OutChan chan []byte
	closed  atomic.Bool
	cancel  context.CancelFunc

	// overflowed is set when a frame was dropped on a full outbox
	overflowed atomic.Bool
}

func newWSChannel(cancel context.CancelFunc) *wsChannel {
	return &wsChannel{
		id:      uuid.NewString(),
		OutChan: make(chan []byte, outboxSize),
		cancel:  cancel,
	}
}

func (c *wsChannel) ID() string { return c.id }

func (c *wsChannel) Open() bool { return !c.closed.Load() }

// Send queues data for the write pump. A peer that cannot keep up is cut off.
func (c *wsChannel) Send(data []byte) error {
	if c.closed.Load() {
		return errChannelClosed
	}
	select {
	case c.OutChan <- data:
		return nil
	default:
		c.overflowed.Store(true)
		c.Close()
		return errOutboxFull
	}
}

// Close marks the channel closed and stops both pumps. Safe to call repeatedly.
func (c *wsChannel) Close() {
	if c.closed.Swap(true) {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
}
