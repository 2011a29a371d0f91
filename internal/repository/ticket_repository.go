package repository

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/storage"
)

// TicketRepository loads and rewrites the whole ticket collection. There are no partial updates.
type TicketRepository interface {
	List(ctx context.Context, clientID string) []domain.Ticket
	Load(ctx context.Context, clientID string) ([]domain.Ticket, error)
	ReplaceAll(ctx context.Context, clientID string, tickets []domain.Ticket) error
}

type ticketRepository struct {
	store *storage.Adapter
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(store *storage.Adapter) TicketRepository {
	return &ticketRepository{store: store}
}

func (r *ticketRepository) List(ctx context.Context, clientID string) []domain.Ticket {
	return storage.Read(ctx, r.store, clientID, storage.KeyTickets, []domain.Ticket{})
}

// Load is List for read-modify-write callers; a backend read failure is returned, not defaulted.
func (r *ticketRepository) Load(ctx context.Context, clientID string) ([]domain.Ticket, error) {
	return storage.Load(ctx, r.store, clientID, storage.KeyTickets, []domain.Ticket{})
}

func (r *ticketRepository) ReplaceAll(ctx context.Context, clientID string, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return r.store.Write(ctx, clientID, storage.KeyTickets, tickets)
}
