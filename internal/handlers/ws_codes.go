// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the quiz handler.
// These provide more specific reasons for closure than standard codes.
const (
	SlowConsumerError  = 3000 // Client did not drain its outbound queue in time.
	ServerShutdownCode = 3001 // Server is stopping; clients may reconnect elsewhere.
)
