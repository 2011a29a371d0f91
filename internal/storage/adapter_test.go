package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

func TestRead_MissingKeyReturnsDefault(t *testing.T) {
	adapter := NewAdapter(NewMemoryStore(), zap.NewNop())

	users := Read(context.Background(), adapter, "ns", KeyUsers, []domain.User{})
	assert.NotNil(t, users)
	assert.Empty(t, users)

	session := Read[*domain.Session](context.Background(), adapter, "ns", KeySession, nil)
	assert.Nil(t, session)
}

func TestRead_CorruptValueReturnsDefaultAndLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := NewMemoryStore()
	adapter := NewAdapter(store, zap.New(core))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ns", KeyTickets, []byte(`{not json`)))

	tickets := Read(ctx, adapter, "ns", KeyTickets, []domain.Ticket{})
	assert.Empty(t, tickets)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to parse stored JSON", logs.All()[0].Message)
}

func TestRead_NullReturnsDefault(t *testing.T) {
	store := NewMemoryStore()
	adapter := NewAdapter(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ns", KeyUsers, []byte(`null`)))
	users := Read(ctx, adapter, "ns", KeyUsers, []domain.User{})
	assert.NotNil(t, users)
}

type unreadableStore struct {
	*MemoryStore
	err error
}

func (s unreadableStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, s.err
}

func TestLoad_BackendFailureIsReturned(t *testing.T) {
	ctx := context.Background()
	backendErr := errors.New("i/o timeout")
	adapter := NewAdapter(unreadableStore{MemoryStore: NewMemoryStore(), err: backendErr}, zap.NewNop())

	tickets, err := Load(ctx, adapter, "ns", KeyTickets, []domain.Ticket{})
	require.ErrorIs(t, err, backendErr)
	assert.Empty(t, tickets)

	core, logs := observer.New(zapcore.WarnLevel)
	adapter = NewAdapter(unreadableStore{MemoryStore: NewMemoryStore(), err: backendErr}, zap.New(core))
	assert.Empty(t, Read(ctx, adapter, "ns", KeyTickets, []domain.Ticket{}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "storage read failed", logs.All()[0].Message)
}

func TestLoad_MissingAndCorruptValuesYieldDefault(t *testing.T) {
	store := NewMemoryStore()
	adapter := NewAdapter(store, zap.NewNop())
	ctx := context.Background()

	users, err := Load(ctx, adapter, "ns", KeyUsers, []domain.User{})
	require.NoError(t, err)
	assert.NotNil(t, users)

	require.NoError(t, store.Set(ctx, "ns", KeyUsers, []byte(`[{"id":`)))
	users, err = Load(ctx, adapter, "ns", KeyUsers, []domain.User{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestWriteRead_TicketRoundTrip(t *testing.T) {
	adapter := NewAdapter(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	updated := created.Add(time.Hour)
	tickets := []domain.Ticket{
		{ID: "b", Title: "Second", Status: domain.TicketStatusClosed, Priority: "High", Description: "done", CreatedAt: created.Add(time.Minute), UpdatedAt: &updated},
		{ID: "a", Title: "First", Status: domain.TicketStatusOpen, CreatedAt: created},
	}

	require.NoError(t, adapter.Write(ctx, "ns", KeyTickets, tickets))
	got := Read(ctx, adapter, "ns", KeyTickets, []domain.Ticket{})

	require.Len(t, got, 2)
	for i := range tickets {
		assert.Equal(t, tickets[i].ID, got[i].ID)
		assert.Equal(t, tickets[i].Title, got[i].Title)
		assert.Equal(t, tickets[i].Status, got[i].Status)
		assert.Equal(t, tickets[i].Priority, got[i].Priority)
		assert.Equal(t, tickets[i].Description, got[i].Description)
		assert.True(t, tickets[i].CreatedAt.Equal(got[i].CreatedAt))
	}
	require.NotNil(t, got[0].UpdatedAt)
	assert.True(t, updated.Equal(*got[0].UpdatedAt))
	assert.Nil(t, got[1].UpdatedAt)
}

func TestRemove(t *testing.T) {
	adapter := NewAdapter(NewMemoryStore(), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, adapter.Write(ctx, "ns", KeySession, domain.Session{Token: "t", UserID: "u"}))
	require.NoError(t, adapter.Remove(ctx, "ns", KeySession))
	assert.Nil(t, Read[*domain.Session](ctx, adapter, "ns", KeySession, nil))
	assert.NoError(t, adapter.Remove(ctx, "ns", KeySession))
}
