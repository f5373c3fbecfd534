package domain

import (
	"encoding/json"
	"time"
)

// EventStatus is the processing state of a recorded domain event.
// Transitions are monotonic: PENDING -> PROCESSED or PENDING -> FAILED.
type EventStatus string

const (
	EventPending   EventStatus = "PENDING"
	EventProcessed EventStatus = "PROCESSED"
	EventFailed    EventStatus = "FAILED"
)

// IsTerminal reports whether s is a final processing state.
func (s EventStatus) IsTerminal() bool {
	return s == EventProcessed || s == EventFailed
}

// Event is one immutable business occurrence recorded in the event store.
// The payload schema varies by EventType and is interpreted only by the
// posting rules engine; the store itself never looks inside it.
type Event struct {
	EventID       string          `json:"eventID"`    // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`   // Owning tenant (Not Null)
	StreamType    string          `json:"streamType"` // Category tag, e.g. "orders"
	EventType     string          `json:"eventType"`  // Rule key, e.g. "OrderCreated"
	Payload       json.RawMessage `json:"payload"`
	Status        EventStatus     `json:"status"`
	FailureReason string          `json:"failureReason,omitempty"` // Set when Status is FAILED
	CreatedAt     time.Time       `json:"createdAt"`
}
