package events

import (
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp     EventType = "user_signed_up"
	EventUserLoggedIn     EventType = "user_logged_in"
	EventUserLoggedOut    EventType = "user_logged_out"
	EventAuthFailed       EventType = "auth_failed"
	EventSessionRequired  EventType = "session_required"
	EventValidationFailed EventType = "validation_failed"
	EventTicketCreated    EventType = "ticket_created"
	EventTicketUpdated    EventType = "ticket_updated"
	EventTicketDeleted    EventType = "ticket_deleted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ClientID string  `json:"client_id"`
	UserID   *string `json:"user_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserPayload describes an account event.
type UserPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// AuthFailedPayload describes a rejected signup or login.
type AuthFailedPayload struct {
	Operation string `json:"operation"`
	Title     string `json:"title"`
	Message   string `json:"message"`
}

// ValidationFailedPayload carries field errors of a rejected form.
type ValidationFailedPayload struct {
	Form   string            `json:"form"`
	Fields map[string]string `json:"fields"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title  string              `json:"title"`
	Status domain.TicketStatus `json:"status"`
}

// TicketUpdatedPayload payload.
type TicketUpdatedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Title      string `json:"title"`
	WasEditing bool   `json:"was_editing"`
}
