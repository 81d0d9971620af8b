package notify

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventPendingCountUpdated    EventType = "pending_count_updated"
	EventVacationRequestCreated EventType = "vacation_request_created"
	EventVacationRequestDecided EventType = "vacation_request_decided"
)

// Event is a real-time message for the managers audience.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	CreatedAt time.Time   `json:"created_at"`
	Payload   interface{} `json:"payload"`
}

type PendingCount struct {
	Count int64 `json:"count"`
}

// RequestSummary describes a vacation request in created and decided events.
type RequestSummary struct {
	ID        uint   `json:"id"`
	User      string `json:"user"`
	From      string `json:"from"`
	To        string `json:"to"`
	Status    string `json:"status,omitempty"`
	DecidedBy string `json:"decided_by,omitempty"`
}

func NewEvent(t EventType, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		CreatedAt: time.Now().UTC(),
		Payload:   payload,
	}
}
