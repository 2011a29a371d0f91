package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/state"
	"github.com/spec-kit/ticketdesk/internal/validation"
	"github.com/spec-kit/ticketdesk/internal/view"
	"github.com/spec-kit/ticketdesk/internal/workspace"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// DeletePrompt is the confirmation text shown before a ticket is removed.
func DeletePrompt(title string) string {
	return fmt.Sprintf("Delete “%s”? This cannot be undone.", title)
}

// TicketService coordinates ticket workflows. Every mutation rewrites the full collection.
type TicketService struct {
	tickets    repository.TicketRepository
	workspaces *workspace.Registry
	renderer   *view.Renderer
	dispatcher events.Dispatcher
	now        func() time.Time
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Workspaces *workspace.Registry
	Renderer   *view.Renderer
	Dispatcher events.Dispatcher
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	renderer := deps.Renderer
	if renderer == nil {
		renderer = view.NewRenderer()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		workspaces: deps.Workspaces,
		renderer:   renderer,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// List returns the stored collection in stored order.
func (s *TicketService) List(ctx context.Context, clientID string) []domain.Ticket {
	return s.tickets.List(ctx, clientID)
}

// Board renders the tickets page for the client's current filter and edit state.
func (s *TicketService) Board(ctx context.Context, clientID string) view.BoardView {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()
	return s.renderer.Board(s.snapshot(ctx, ws))
}

// Dashboard renders stats and recent tickets for user.
func (s *TicketService) Dashboard(ctx context.Context, clientID string, user domain.SessionUser) view.DashboardView {
	return s.renderer.Dashboard(user, s.tickets.List(ctx, clientID))
}

// Create validates payload and prepends a new ticket.
func (s *TicketService) Create(ctx context.Context, clientID string, payload domain.TicketPayload) (*domain.Ticket, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	payload, err := s.validate(ctx, clientID, "create", payload)
	if err != nil {
		return nil, err
	}

	current, err := s.load(ctx, ws)
	if err != nil {
		return nil, err
	}
	ticket := payload.Apply(domain.Ticket{ID: uuid.NewString(), CreatedAt: s.now().UTC()})
	next := state.Create(current, ticket)
	if err := s.persist(ctx, ws, next); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, clientID, events.EventTicketCreated, ticket.ID, events.TicketCreatedPayload{
		Title:  ticket.Title,
		Status: ticket.Status,
	})
	return &ticket, nil
}

// Update overwrites the mutable fields of ticket id. The bool is false, and nothing is
// written, when no ticket has that id.
func (s *TicketService) Update(ctx context.Context, clientID, id string, payload domain.TicketPayload) (*domain.Ticket, bool, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	payload, err := s.validate(ctx, clientID, "edit", payload)
	if err != nil {
		return nil, false, err
	}

	current, err := s.load(ctx, ws)
	if err != nil {
		return nil, false, err
	}
	before, ok := state.Find(current.Tickets, id)
	if !ok {
		return nil, false, nil
	}
	next, _ := state.Update(current, id, payload, s.now().UTC())
	if err := s.persist(ctx, ws, next); err != nil {
		return nil, false, err
	}

	updated, _ := state.Find(next.Tickets, id)
	s.publishEvent(ctx, clientID, events.EventTicketUpdated, id, events.TicketUpdatedPayload{
		OldStatus: before.Status,
		NewStatus: updated.Status,
	})
	return &updated, true, nil
}

// Delete removes ticket id once confirm approves the prompt. Declining, or an unknown id,
// leaves everything unchanged and reports false.
func (s *TicketService) Delete(ctx context.Context, clientID, id string, confirm Confirmer) (bool, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	current, err := s.load(ctx, ws)
	if err != nil {
		return false, err
	}
	ticket, ok := state.Find(current.Tickets, id)
	if !ok {
		return false, nil
	}

	approved, err := confirm.Confirm(ctx, DeletePrompt(ticket.Title))
	if err != nil || !approved {
		return false, err
	}

	wasEditing := current.EditingID == id
	next, _ := state.Delete(current, id)
	if err := s.persist(ctx, ws, next); err != nil {
		return false, err
	}

	s.publishEvent(ctx, clientID, events.EventTicketDeleted, id, events.TicketDeletedPayload{
		Title:      ticket.Title,
		WasEditing: wasEditing,
	})
	return true, nil
}

// SetFilter changes which subset the board presents.
func (s *TicketService) SetFilter(ctx context.Context, clientID, raw string) (view.BoardView, error) {
	filter, ok := domain.ParseFilter(raw)
	if !ok {
		return view.BoardView{}, apperrors.NewFieldErrors("unknown filter", map[string]string{"status": "Unknown filter."})
	}

	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	next := state.SetFilter(s.snapshot(ctx, ws), filter)
	ws.Filter = next.Filter
	return s.renderer.Board(next), nil
}

// StartEdit opens the edit form for ticket id.
func (s *TicketService) StartEdit(ctx context.Context, clientID, id string) (view.BoardView, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	current, err := s.load(ctx, ws)
	if err != nil {
		return view.BoardView{}, err
	}
	next, ok := state.StartEdit(current, id)
	if !ok {
		return view.BoardView{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	ws.EditingID = next.EditingID
	return s.renderer.Board(next), nil
}

// CancelEdit closes the edit form.
func (s *TicketService) CancelEdit(ctx context.Context, clientID string) view.BoardView {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	next := state.CancelEdit(s.snapshot(ctx, ws))
	ws.EditingID = next.EditingID
	return s.renderer.Board(next)
}

// ResetView puts the filter and edit form back to their page-load defaults.
func (s *TicketService) ResetView(clientID string) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()
	ws.Reset()
}

func (s *TicketService) validate(ctx context.Context, clientID, form string, payload domain.TicketPayload) (domain.TicketPayload, error) {
	payload = validation.NormalizeTicket(payload)
	errs := validation.ValidateTicket(payload)
	if errs.Valid() {
		return payload, nil
	}
	s.publishEvent(ctx, clientID, events.EventValidationFailed, "", events.ValidationFailedPayload{Form: form, Fields: errs})
	return payload, apperrors.NewFieldErrors("ticket form is invalid", errs)
}

// load rebuilds the state from storage plus the workspace's view fields. Backend read
// failures are returned, never defaulted. Callers hold ws.
func (s *TicketService) load(ctx context.Context, ws *workspace.Workspace) (state.TicketsState, error) {
	tickets, err := s.tickets.Load(ctx, ws.ClientID)
	if err != nil {
		return state.TicketsState{}, fmt.Errorf("load tickets: %w", err)
	}
	return state.TicketsState{Tickets: tickets, Filter: ws.Filter, EditingID: ws.EditingID}, nil
}

// snapshot is load for rendering only; read failures degrade to an empty list.
func (s *TicketService) snapshot(ctx context.Context, ws *workspace.Workspace) state.TicketsState {
	return state.TicketsState{
		Tickets:   s.tickets.List(ctx, ws.ClientID),
		Filter:    ws.Filter,
		EditingID: ws.EditingID,
	}
}

// persist writes next and, only on success, adopts its view fields. Callers hold ws.
func (s *TicketService) persist(ctx context.Context, ws *workspace.Workspace, next state.TicketsState) error {
	if err := s.tickets.ReplaceAll(ctx, ws.ClientID, next.Tickets); err != nil {
		return fmt.Errorf("store tickets: %w", err)
	}
	ws.Filter = next.Filter
	ws.EditingID = next.EditingID
	return nil
}

func (s *TicketService) publishEvent(ctx context.Context, clientID string, eventType events.EventType, ticketID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     events.Actor{ClientID: clientID},
		Timestamp: s.now(),
		Payload:   payload,
	})
}
