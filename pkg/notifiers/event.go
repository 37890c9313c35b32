package notifiers

import (
	"time"

	"github.com/google/uuid"
)

// EventSessionInvalidated is emitted after a 401 envelope flips the stored session.
const EventSessionInvalidated = "session.invalidated"

// Event represents the payload sent to notifiers.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	SessionKey string    `json:"session_key"`
	Method     string    `json:"method"`
	URL        string    `json:"url"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSessionInvalidated constructs the event for a request that hit a 401 envelope.
func NewSessionInvalidated(sessionKey, method, url string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       EventSessionInvalidated,
		SessionKey: sessionKey,
		Method:     method,
		URL:        url,
		OccurredAt: time.Now().UTC(),
	}
}

// attributes are the non-empty string attributes queue/topic notifiers
// attach to messages.
func (e Event) attributes() map[string]string {
	attrs := make(map[string]string, 2)
	if e.Type != "" {
		attrs["event_type"] = e.Type
	}
	if e.SessionKey != "" {
		attrs["session_key"] = e.SessionKey
	}
	return attrs
}
