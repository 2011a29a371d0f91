package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/notify"
	"github.com/spec-kit/ticketdesk/internal/workspace"
)

// NotificationService turns domain events into the client's transient notification.
type NotificationService struct {
	dispatcher events.Dispatcher
	workspaces *workspace.Registry
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, workspaces *workspace.Registry, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		workspaces: workspaces,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserSignedUp, n.handleUserSignedUp)
	n.dispatcher.Subscribe(events.EventUserLoggedIn, n.handleUserLoggedIn)
	n.dispatcher.Subscribe(events.EventUserLoggedOut, n.handleUserLoggedOut)
	n.dispatcher.Subscribe(events.EventAuthFailed, n.handleAuthFailed)
	n.dispatcher.Subscribe(events.EventSessionRequired, n.handleSessionRequired)
	n.dispatcher.Subscribe(events.EventValidationFailed, n.handleValidationFailed)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleTicketDeleted)
}

// Current returns the toast visible to clientID, if any.
func (n *NotificationService) Current(clientID string) (notify.Toast, bool) {
	return n.workspaces.Get(clientID).Notifier.Current()
}

// Dismiss clears the client's toast early.
func (n *NotificationService) Dismiss(clientID string) {
	n.workspaces.Get(clientID).Notifier.Dismiss()
}

func (n *NotificationService) handleUserSignedUp(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantSuccess, "Account created", "Welcome aboard! You are now signed in.")
	return nil
}

func (n *NotificationService) handleUserLoggedIn(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantSuccess, "Welcome back 👋", "You are now signed in.")
	return nil
}

func (n *NotificationService) handleUserLoggedOut(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantSuccess, "Signed out", "You have been logged out.")
	return nil
}

func (n *NotificationService) handleAuthFailed(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AuthFailedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.show(event, notify.VariantError, payload.Title, payload.Message)
	return nil
}

func (n *NotificationService) handleSessionRequired(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantError, "Session required", "Your session has expired — please log in again.")
	return nil
}

func (n *NotificationService) handleValidationFailed(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantError, "Check the form", "Please fix the highlighted fields.")
	return nil
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.show(event, notify.VariantSuccess, "Ticket created",
		fmt.Sprintf("“%s” is now %s.", payload.Title, payload.Status.Label()))
	return nil
}

func (n *NotificationService) handleTicketUpdated(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantSuccess, "Ticket updated", "Changes saved successfully.")
	return nil
}

func (n *NotificationService) handleTicketDeleted(_ context.Context, event events.Event) error {
	n.show(event, notify.VariantSuccess, "Ticket deleted", "The ticket has been removed.")
	return nil
}

func (n *NotificationService) show(event events.Event, variant notify.Variant, title, message string) {
	n.logger.Info(string(event.Type),
		zap.String("client_id", event.Actor.ClientID),
		zap.String("ticket_id", event.TicketID),
		zap.String("variant", string(variant)))
	n.workspaces.Get(event.Actor.ClientID).Notifier.Show(variant, title, message)
}
