package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every valid status in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Label is the human-readable form, e.g. "in progress".
func (s TicketStatus) Label() string {
	return strings.Replace(string(s), "_", " ", 1)
}

// Filter is a view predicate over tickets: FilterAll or a concrete status.
type Filter string

// FilterAll matches every ticket.
const FilterAll Filter = "all"

// ParseFilter accepts "all" or a valid status. Anything else falls back to FilterAll.
func ParseFilter(raw string) (Filter, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == string(FilterAll) {
		return FilterAll, true
	}
	if TicketStatus(raw).Valid() {
		return Filter(raw), true
	}
	return FilterAll, false
}

// Matches reports whether the ticket passes the filter.
func (f Filter) Matches(t Ticket) bool {
	return f == FilterAll || f == "" || TicketStatus(f) == t.Status
}

// Ticket is a unit of work with a lifecycle status.
type Ticket struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Status      TicketStatus `json:"status" yaml:"status"`
	Priority    string       `json:"priority" yaml:"priority,omitempty"`
	Description string       `json:"description" yaml:"description,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   *time.Time   `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// TicketPayload carries the mutable ticket fields submitted by a form.
type TicketPayload struct {
	Title       string       `json:"title"`
	Status      TicketStatus `json:"status"`
	Priority    string       `json:"priority"`
	Description string       `json:"description"`
}

// Apply overwrites the mutable fields of t.
func (p TicketPayload) Apply(t Ticket) Ticket {
	t.Title = p.Title
	t.Status = p.Status
	t.Priority = p.Priority
	t.Description = p.Description
	return t
}
