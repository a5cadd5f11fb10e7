package diag

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is the NATS subject resolution events are published to.
const DefaultSubject = "stubreg.event.unstub"

// Event is the wire format for one resolution attempt.
type Event struct {
	ID         string    `json:"id"`
	Slot       string    `json:"slot"`
	Op         string    `json:"op"`
	Caller     string    `json:"caller"`
	Depth      int       `json:"depth"`
	External   bool      `json:"external"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS float64   `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher emits resolution events to NATS.
type EventPublisher struct {
	nc      *nats.Conn
	subject string
}

// NewEventPublisher creates a publisher on an existing connection. The
// connection's lifecycle belongs to the caller. nc may be nil; publishing
// is then skipped.
func NewEventPublisher(nc *nats.Conn, subject string) *EventPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &EventPublisher{nc: nc, subject: subject}
}

// Publish emits one event. Missing IDs and timestamps are filled in.
func (p *EventPublisher) Publish(ev Event) error {
	if p == nil || p.nc == nil {
		return nil // Skip publishing if no NATS connection (graceful degradation)
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish event to %s: %w", p.subject, err)
	}
	return nil
}

// Subject returns the subject events are published to.
func (p *EventPublisher) Subject() string {
	if p == nil {
		return ""
	}
	return p.subject
}
