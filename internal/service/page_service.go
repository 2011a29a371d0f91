package service

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/view"
)

// PageState is what a page load attaches: header controls, guard outcome and page data.
type PageState struct {
	Page      view.PageID         `json:"page"`
	Header    view.HeaderView     `json:"header"`
	Allowed   bool                `json:"allowed"`
	Redirect  string              `json:"redirect,omitempty"`
	Dashboard *view.DashboardView `json:"dashboard,omitempty"`
	Board     *view.BoardView     `json:"board,omitempty"`
}

// PageService runs the page bootstrap routine.
type PageService struct {
	auth    *AuthService
	tickets *TicketService
}

// NewPageService wires the bootstrap routine.
func NewPageService(authService *AuthService, ticketService *TicketService) *PageService {
	return &PageService{auth: authService, tickets: ticketService}
}

// Bootstrap models a fresh load of page: view state resets, the header reflects the session
// and the page's guard decides whether its data is rendered.
func (p *PageService) Bootstrap(ctx context.Context, clientID string, page view.PageID) (PageState, error) {
	p.tickets.ResetView(clientID)

	current, err := p.auth.CurrentSession(ctx, clientID)
	if err != nil {
		return PageState{}, err
	}
	result := PageState{Page: page, Header: view.Header(current != nil), Allowed: true}

	switch {
	case page.RequiresAuth():
		ok, err := p.auth.EnsureAuth(ctx, clientID)
		if err != nil {
			return PageState{}, err
		}
		if !ok || current == nil {
			result.Allowed = false
			result.Redirect = view.PathLogin
			result.Header = view.Header(false)
			return result, nil
		}
		dashboard := p.tickets.Dashboard(ctx, clientID, current.User)
		result.Dashboard = &dashboard
		if page == view.PageTickets {
			board := p.tickets.Board(ctx, clientID)
			result.Board = &board
		}
	case page.RequiresGuest():
		ok, err := p.auth.EnsureGuest(ctx, clientID)
		if err != nil {
			return PageState{}, err
		}
		if !ok {
			result.Allowed = false
			result.Redirect = view.PathDashboard
		}
	}
	return result, nil
}
