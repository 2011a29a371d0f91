package dto

import (
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/view"
)

// TicketRequest is the create and edit form.
type TicketRequest struct {
	Title       string `json:"title"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

// Payload converts the request to the domain payload.
func (r TicketRequest) Payload() domain.TicketPayload {
	return domain.TicketPayload{
		Title:       r.Title,
		Status:      domain.TicketStatus(r.Status),
		Priority:    r.Priority,
		Description: r.Description,
	}
}

// FilterRequest selects the board subset.
type FilterRequest struct {
	Status string `json:"status"`
}

// TicketMutationResponse carries the changed ticket and the views re-rendered after it.
type TicketMutationResponse struct {
	Ticket    *view.Card          `json:"ticket,omitempty"`
	Board     view.BoardView      `json:"board"`
	Dashboard *view.DashboardView `json:"dashboard,omitempty"`
}
