// Package view derives presentation models from ticket state. Nothing here touches storage;
// every model is recomputed from the full collection on each call.
package view

import (
	"bytes"
	"time"

	"github.com/yuin/goldmark"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/state"
)

// Card is one rendered ticket.
type Card struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	Status          domain.TicketStatus `json:"status"`
	StatusLabel     string              `json:"statusLabel"`
	Priority        string              `json:"priority,omitempty"`
	Description     string              `json:"description,omitempty"`
	DescriptionHTML string              `json:"descriptionHtml,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       *time.Time          `json:"updatedAt,omitempty"`
}

// DashboardView is the dashboard page model.
type DashboardView struct {
	FirstName        string `json:"firstName"`
	Stats            Stats  `json:"stats"`
	CompletionRate   int    `json:"completionRate"`
	ProgressGradient string `json:"progressGradient"`
	Recent           []Card `json:"recent"`
	RecentEmpty      bool   `json:"recentEmpty"`
}

// FilterOption is one filter toggle.
type FilterOption struct {
	Value  domain.Filter `json:"value"`
	Label  string        `json:"label"`
	Active bool          `json:"active"`
}

// EditForm is the edit panel. Hidden means the empty state is shown instead.
type EditForm struct {
	Hidden      bool                `json:"hidden"`
	ID          string              `json:"id,omitempty"`
	Title       string              `json:"title,omitempty"`
	Status      domain.TicketStatus `json:"status,omitempty"`
	Priority    string              `json:"priority,omitempty"`
	Description string              `json:"description,omitempty"`
}

// BoardView is the tickets page model.
type BoardView struct {
	Filter  domain.Filter  `json:"filter"`
	Filters []FilterOption `json:"filters"`
	Count   int            `json:"count"`
	Empty   bool           `json:"empty"`
	Tickets []Card         `json:"tickets"`
	Edit    EditForm       `json:"edit"`
}

// HeaderView reports which auth controls the page header shows.
type HeaderView struct {
	Authenticated bool `json:"authenticated"`
	ShowLogin     bool `json:"showLogin"`
	ShowLogout    bool `json:"showLogout"`
}

// Renderer builds view models. It is safe for concurrent use.
type Renderer struct {
	markdown goldmark.Markdown
}

// NewRenderer uses goldmark's default, HTML-escaping configuration for descriptions.
func NewRenderer() *Renderer {
	return &Renderer{markdown: goldmark.New()}
}

// Card renders a single ticket.
func (r *Renderer) Card(t domain.Ticket) Card {
	return Card{
		ID:              t.ID,
		Title:           t.Title,
		Status:          t.Status,
		StatusLabel:     t.Status.Label(),
		Priority:        t.Priority,
		Description:     t.Description,
		DescriptionHTML: r.descriptionHTML(t.Description),
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func (r *Renderer) descriptionHTML(description string) string {
	if description == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(description), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// Cards renders tickets in the given order.
func (r *Renderer) Cards(tickets []domain.Ticket) []Card {
	cards := make([]Card, 0, len(tickets))
	for _, t := range tickets {
		cards = append(cards, r.Card(t))
	}
	return cards
}

// Dashboard renders stats and the recent projection for the signed-in user.
func (r *Renderer) Dashboard(user domain.SessionUser, tickets []domain.Ticket) DashboardView {
	stats := ComputeStats(tickets)
	rate := CompletionRate(stats)
	recent := r.Cards(Recent(tickets, RecentLimit))
	return DashboardView{
		FirstName:        user.FirstName(),
		Stats:            stats,
		CompletionRate:   rate,
		ProgressGradient: ProgressGradient(rate),
		Recent:           recent,
		RecentEmpty:      len(recent) == 0,
	}
}

// Board renders the filtered list and edit panel.
func (r *Renderer) Board(s state.TicketsState) BoardView {
	filter := s.Filter
	if filter == "" {
		filter = domain.FilterAll
	}
	list := r.Cards(List(s.Tickets, filter))
	return BoardView{
		Filter:  filter,
		Filters: filterOptions(filter),
		Count:   len(list),
		Empty:   len(list) == 0,
		Tickets: list,
		Edit:    editForm(s),
	}
}

// Header renders the header auth controls.
func Header(authenticated bool) HeaderView {
	return HeaderView{Authenticated: authenticated, ShowLogin: !authenticated, ShowLogout: authenticated}
}

func filterOptions(active domain.Filter) []FilterOption {
	opts := []FilterOption{{Value: domain.FilterAll, Label: "All", Active: active == domain.FilterAll}}
	for _, status := range domain.TicketStatuses {
		f := domain.Filter(status)
		opts = append(opts, FilterOption{Value: f, Label: status.Label(), Active: active == f})
	}
	return opts
}

func editForm(s state.TicketsState) EditForm {
	ticket, ok := state.Editing(s)
	if !ok {
		return EditForm{Hidden: true}
	}
	return EditForm{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Description: ticket.Description,
	}
}
