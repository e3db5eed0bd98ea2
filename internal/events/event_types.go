package events

import (
	"time"

	"github.com/spec-kit/civic-complaints/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintRegistered    EventType = "complaint_registered"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintDeleted       EventType = "complaint_deleted"
	EventUserSignedUp           EventType = "user_signed_up"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintRegisteredPayload payload.
type ComplaintRegisteredPayload struct {
	Department  string `json:"department"`
	Title       string `json:"title"`
	SubmitterID string `json:"submitter_id"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// ComplaintDeletedPayload payload.
type ComplaintDeletedPayload struct {
	Department string `json:"department"`
}

// UserSignedUpPayload payload.
type UserSignedUpPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
