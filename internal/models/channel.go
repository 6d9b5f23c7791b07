// internal/models/channel.go
package models

// Channel is a bidirectional message pipe bound to one client.
// Implementations must not block in Send.
type Channel interface {
	// ID identifies the underlying connection for logging and per-connection state.
	ID() string
	// Send queues an encoded frame for delivery.
	Send(data []byte) error
	// Open reports whether the channel can still deliver frames.
	Open() bool
}
