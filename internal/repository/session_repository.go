package repository

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/storage"
)

// SessionRepository stores the single session record of a client namespace.
type SessionRepository interface {
	Get(ctx context.Context, clientID string) *domain.Session
	Save(ctx context.Context, clientID string, session domain.Session) error
	Delete(ctx context.Context, clientID string) error
}

type sessionRepository struct {
	store *storage.Adapter
}

// NewSessionRepository returns a storage-backed implementation.
func NewSessionRepository(store *storage.Adapter) SessionRepository {
	return &sessionRepository{store: store}
}

func (r *sessionRepository) Get(ctx context.Context, clientID string) *domain.Session {
	return storage.Read[*domain.Session](ctx, r.store, clientID, storage.KeySession, nil)
}

// Save overwrites any prior session.
func (r *sessionRepository) Save(ctx context.Context, clientID string, session domain.Session) error {
	return r.store.Write(ctx, clientID, storage.KeySession, session)
}

func (r *sessionRepository) Delete(ctx context.Context, clientID string) error {
	return r.store.Remove(ctx, clientID, storage.KeySession)
}
