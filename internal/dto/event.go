package dto

import (
	"encoding/json"
	"time"

	"github.com/finlytics/ledger-core/internal/core/domain"
)

// SubmitEventRequest is the inbound contract for recording a domain event.
// Payload is opaque here; the posting rules engine interprets it.
type SubmitEventRequest struct {
	StreamType string          `json:"streamType"`
	EventType  string          `json:"eventType" binding:"required"`
	Payload    json.RawMessage `json:"payload"`
}

// EventResponse describes an event and its processing outcome.
type EventResponse struct {
	EventID       string          `json:"eventID"`
	TenantID      string          `json:"tenantID"`
	StreamType    string          `json:"streamType"`
	EventType     string          `json:"eventType"`
	Payload       json.RawMessage `json:"payload"`
	Status        string          `json:"status"`
	FailureReason string          `json:"failureReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToEventResponse maps a domain event to its API representation.
func ToEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		EventID:       e.EventID,
		TenantID:      e.TenantID,
		StreamType:    e.StreamType,
		EventType:     e.EventType,
		Payload:       e.Payload,
		Status:        string(e.Status),
		FailureReason: e.FailureReason,
		CreatedAt:     e.CreatedAt,
	}
}

// ToEventResponses maps a slice of domain events.
func ToEventResponses(events []domain.Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = ToEventResponse(&events[i])
	}
	return out
}
