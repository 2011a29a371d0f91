package repository

import (
	"context"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/storage"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// UserRepository defines persistence access for accounts within a client namespace.
type UserRepository interface {
	List(ctx context.Context, clientID string) []domain.User
	Load(ctx context.Context, clientID string) ([]domain.User, error)
	Create(ctx context.Context, clientID string, user domain.User) error
	GetByID(ctx context.Context, clientID, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, clientID, email string) (*domain.User, error)
}

type userRepository struct {
	store *storage.Adapter
}

// NewUserRepository returns a storage-backed implementation.
func NewUserRepository(store *storage.Adapter) UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) List(ctx context.Context, clientID string) []domain.User {
	return storage.Read(ctx, r.store, clientID, storage.KeyUsers, []domain.User{})
}

// Create appends the user and rewrites the whole collection. Uniqueness is the caller's concern.
func (r *userRepository) Create(ctx context.Context, clientID string, user domain.User) error {
	users, err := r.Load(ctx, clientID)
	if err != nil {
		return err
	}
	return r.store.Write(ctx, clientID, storage.KeyUsers, append(users, user))
}

func (r *userRepository) Load(ctx context.Context, clientID string) ([]domain.User, error) {
	return storage.Load(ctx, r.store, clientID, storage.KeyUsers, []domain.User{})
}

func (r *userRepository) GetByID(ctx context.Context, clientID, id string) (*domain.User, error) {
	users, err := r.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	user, ok := domain.FindUserByID(users, id)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, clientID, email string) (*domain.User, error) {
	users, err := r.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	user, ok := domain.FindUserByEmail(users, email)
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}
