package service

import (
	"context"
	"errors"
	"time"

	ws "github.com/jatinbhagat/decipherworld-backend/internal/websocket"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotJoinable       = errors.New("session is not joinable")
	ErrInvalidTransition = errors.New("invalid session status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrRateLimited       = errors.New("rate limit exceeded")
)

// Cache is the slice of the redis client the services need. A nil Cache is
// tolerated everywhere: caching is an optimization, not a source of truth.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Broadcaster pushes fire-and-forget updates to clients watching a session.
type Broadcaster interface {
	Broadcast(sessionCode string, msgType ws.MessageType, payload any)
}

// Publisher hands events to the message broker.
type Publisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}
