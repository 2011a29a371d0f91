// Package state holds the pure ticket state transitions. Every function returns a new
// TicketsState and leaves its input untouched, so callers can persist or render the result
// without hidden shared mutation.
package state

import (
	"slices"
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// TicketsState is the in-memory view of one client's ticket board.
type TicketsState struct {
	Tickets   []domain.Ticket
	Filter    domain.Filter
	EditingID string
}

// New returns a state with the default filter.
func New(tickets []domain.Ticket) TicketsState {
	return TicketsState{Tickets: tickets, Filter: domain.FilterAll}
}

// Create prepends ticket so the collection stays newest-first.
func Create(s TicketsState, ticket domain.Ticket) TicketsState {
	next := make([]domain.Ticket, 0, len(s.Tickets)+1)
	next = append(next, ticket)
	next = append(next, s.Tickets...)
	s.Tickets = next
	return s
}

// Update overwrites the mutable fields of the ticket with id and stamps UpdatedAt.
// The second result is false when no ticket matched, in which case the state is unchanged.
func Update(s TicketsState, id string, payload domain.TicketPayload, now time.Time) (TicketsState, bool) {
	idx := slices.IndexFunc(s.Tickets, func(t domain.Ticket) bool { return t.ID == id })
	if idx < 0 {
		return s, false
	}
	next := slices.Clone(s.Tickets)
	updated := payload.Apply(next[idx])
	stamp := now
	updated.UpdatedAt = &stamp
	next[idx] = updated
	s.Tickets = next
	return s, true
}

// Delete removes the ticket with id. Deleting the ticket being edited clears the edit state.
func Delete(s TicketsState, id string) (TicketsState, bool) {
	next := slices.DeleteFunc(slices.Clone(s.Tickets), func(t domain.Ticket) bool { return t.ID == id })
	if len(next) == len(s.Tickets) {
		return s, false
	}
	s.Tickets = next
	if s.EditingID == id {
		s.EditingID = ""
	}
	return s, true
}

// SetFilter changes the presented subset only.
func SetFilter(s TicketsState, filter domain.Filter) TicketsState {
	if filter == "" {
		filter = domain.FilterAll
	}
	s.Filter = filter
	return s
}

// StartEdit marks id as being edited if it exists.
func StartEdit(s TicketsState, id string) (TicketsState, bool) {
	if _, ok := Find(s.Tickets, id); !ok {
		return s, false
	}
	s.EditingID = id
	return s, true
}

// CancelEdit returns the edit view to its empty state.
func CancelEdit(s TicketsState) TicketsState {
	s.EditingID = ""
	return s
}

// Editing returns the ticket currently being edited.
func Editing(s TicketsState) (domain.Ticket, bool) {
	if s.EditingID == "" {
		return domain.Ticket{}, false
	}
	return Find(s.Tickets, s.EditingID)
}

// Find looks a ticket up by id.
func Find(tickets []domain.Ticket, id string) (domain.Ticket, bool) {
	idx := slices.IndexFunc(tickets, func(t domain.Ticket) bool { return t.ID == id })
	if idx < 0 {
		return domain.Ticket{}, false
	}
	return tickets[idx], true
}

// Filter returns the tickets passing filter, in stored order. Stored data is never modified.
func Filter(tickets []domain.Ticket, filter domain.Filter) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
