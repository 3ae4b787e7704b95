// Package push provides transports for delivering notification payloads to
// connected clients. The engine only depends on the Pusher capability; any
// transport (WebSocket, SSE, message queue) can stand in for these.
package push

import (
	"context"
	"log/slog"
)

// LogTransport is a development transport that writes every payload to the
// structured log instead of a client connection.
type LogTransport struct{}

// NewLogTransport creates a new LogTransport.
func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

// Push logs the payload for the recipient and always succeeds.
func (t *LogTransport) Push(ctx context.Context, userID string, payload []byte) error {
	slog.Info("push notification",
		"recipient_id", userID,
		"payload", string(payload),
	)
	return nil
}
