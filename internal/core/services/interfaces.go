package services

import (
	"context"
	"errors"
	"time"

	"skillbook/internal/core/domain"
)

// Event is a domain event handed to the EventPublisher
type Event struct {
	Name       string         `json:"name"`
	OccurredAt time.Time      `json:"occurredAt"`
	Payload    map[string]any `json:"payload"`
}

// EventPublisher delivers domain events to a broker or log
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// ErrSessionNotFound is returned for unknown or expired sessions
var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state behind a session_id cookie
type Session struct {
	UserID    uint        `json:"userId"`
	Username  string      `json:"username"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SessionStore keeps login sessions with a TTL
type SessionStore interface {
	Create(ctx context.Context, session Session, ttl time.Duration) (string, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// PhotoStore keeps profile photo bytes by object key
type PhotoStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, string, error)
	Delete(ctx context.Context, key string) error
}
