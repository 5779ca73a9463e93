// Package analytics enriches facts into data-layer events and fans them out to
// the configured sinks.
package analytics

import (
	"context"
	"time"

	"github.com/angelmondragon/storefront/internal/facts"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Event is an enriched fact as pushed to the data layer.
type Event struct {
	Name      string         `json:"name"`
	UserID    string         `json:"user_id"`
	SessionID string         `json:"session_id"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   map[string]any `json:"payload"`
}

// Sink receives every tracked event.
type Sink interface {
	Name() string
	Write(ctx context.Context, ev Event) error
}

// Tracker is the fire-and-forget entry point used by the storefront.
type Tracker interface {
	Track(ctx context.Context, name string, props map[string]any)
	Emit(ctx context.Context, fs ...facts.Fact)
}

type sessionKey struct{}

// WithSession tags ctx with the session scope events are attributed to.
func WithSession(ctx context.Context, scope string) context.Context {
	return context.WithValue(ctx, sessionKey{}, scope)
}

func SessionFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(sessionKey{}).(string)
	return v
}

// enrich lays the base fields down first so props may override them.
func enrich(name, userID, sessionID string, at time.Time, props map[string]any) Event {
	payload := make(map[string]any, len(props)+4)
	payload["event"] = name
	payload["user_id"] = userID
	payload["session_id"] = sessionID
	payload["timestamp"] = at.UTC().Format(timestampLayout)
	for k, v := range props {
		payload[k] = v
	}
	return Event{
		Name:      name,
		UserID:    userID,
		SessionID: sessionID,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}
