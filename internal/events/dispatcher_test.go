package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_PublishesToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []EventType

	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventTicketDeleted, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventUserLoggedIn}))
	assert.Equal(t, []EventType{EventTicketCreated}, got)
}

func TestDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	calls := 0

	d.Subscribe(EventUserSignedUp, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(EventUserSignedUp, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventUserSignedUp})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}
