// internal/chantest/recorder.go
//
// Package chantest provides an in-memory models.Channel that records frames.
package chantest

import (
	"encoding/json"
	"errors"
	"sync"
)

// ErrClosed is returned by Send on a closed recorder.
var ErrClosed = errors.New("chantest: channel closed")

// Frame is a recorded envelope with its payload left raw.
type Frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Recorder collects frames instead of writing them to a socket.
type Recorder struct {
	mu     sync.Mutex
	id     string
	closed bool
	frames []Frame
}

func New(id string) *Recorder {
	return &Recorder{id: id}
}

func (r *Recorder) ID() string { return r.id }

func (r *Recorder) Send(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *Recorder) Open() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.closed
}

// Close makes the recorder report itself as closed.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// Frames returns a copy of everything received.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

// Types lists received frame types in order.
func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		out = append(out, f.Type)
	}
	return out
}

// Last decodes the payload of the most recent frame of the given type into v.
// Reports false when no such frame was received.
func (r *Recorder) Last(typ string, v any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.frames) - 1; i >= 0; i-- {
		if r.frames[i].Type == typ {
			if v != nil {
				_ = json.Unmarshal(r.frames[i].Payload, v)
			}
			return true
		}
	}
	return false
}

// Count is the number of frames of the given type.
func (r *Recorder) Count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.frames {
		if f.Type == typ {
			n++
		}
	}
	return n
}

// Reset discards recorded frames.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}
