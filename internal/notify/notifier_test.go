package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_ShowAndAutoDismiss(t *testing.T) {
	n := NewNotifier(20 * time.Millisecond)

	toast := n.Success("Ticket created", "done")
	assert.Equal(t, VariantSuccess, toast.Variant)
	assert.Equal(t, 20*time.Millisecond, toast.ExpiresAt.Sub(toast.ShownAt))

	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "Ticket created", current.Title)

	assert.Eventually(t, func() bool {
		_, visible := n.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
}

func TestNotifier_NewerToastSupersedes(t *testing.T) {
	n := NewNotifier(50 * time.Millisecond)

	n.Error("first", "")
	time.Sleep(30 * time.Millisecond)
	n.Success("second", "")

	// The first toast's deadline passes; the second must survive it.
	time.Sleep(30 * time.Millisecond)
	current, ok := n.Current()
	require.True(t, ok)
	assert.Equal(t, "second", current.Title)

	assert.Eventually(t, func() bool {
		_, visible := n.Current()
		return !visible
	}, time.Second, 5*time.Millisecond)
}

func TestNotifier_DismissEarly(t *testing.T) {
	n := NewNotifier(time.Hour)
	n.Error("Login failed", "Invalid credentials. Please try again.")

	n.Dismiss()
	_, ok := n.Current()
	assert.False(t, ok)

	n.Dismiss()
}

func TestNewNotifier_DefaultDelay(t *testing.T) {
	n := NewNotifier(0)
	toast := n.Success("x", "y")
	assert.Equal(t, DefaultDismissAfter, toast.ExpiresAt.Sub(toast.ShownAt))
	n.Dismiss()
}
