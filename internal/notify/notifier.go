// Package notify holds transient notifications ("toasts"). One toast is visible at a time;
// a newer toast supersedes the current one and each toast clears itself after a fixed delay.
package notify

import (
	"sync"
	"time"
)

// Variant selects the toast styling.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
)

// DefaultDismissAfter is the auto-dismiss delay.
const DefaultDismissAfter = 4 * time.Second

// Toast is a visible notification.
type Toast struct {
	Variant   Variant   `json:"variant"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ShownAt   time.Time `json:"shownAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Notifier holds at most one toast.
type Notifier struct {
	mu           sync.Mutex
	dismissAfter time.Duration
	current      *Toast
	timer        *time.Timer
	generation   uint64
	now          func() time.Time
}

// NewNotifier returns a notifier that clears toasts after dismissAfter.
func NewNotifier(dismissAfter time.Duration) *Notifier {
	if dismissAfter <= 0 {
		dismissAfter = DefaultDismissAfter
	}
	return &Notifier{dismissAfter: dismissAfter, now: time.Now}
}

// Show replaces the current toast and re-arms the dismissal timer.
func (n *Notifier) Show(variant Variant, title, message string) Toast {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopTimerLocked()
	n.generation++
	gen := n.generation

	now := n.now()
	toast := Toast{
		Variant:   variant,
		Title:     title,
		Message:   message,
		ShownAt:   now,
		ExpiresAt: now.Add(n.dismissAfter),
	}
	n.current = &toast
	n.timer = time.AfterFunc(n.dismissAfter, func() { n.expire(gen) })
	return toast
}

// Success shows a success toast.
func (n *Notifier) Success(title, message string) Toast {
	return n.Show(VariantSuccess, title, message)
}

// Error shows an error toast.
func (n *Notifier) Error(title, message string) Toast {
	return n.Show(VariantError, title, message)
}

// Current returns the visible toast, if any.
func (n *Notifier) Current() (Toast, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Toast{}, false
	}
	return *n.current, true
}

// Dismiss clears the toast early and cancels its timer.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimerLocked()
	n.generation++
	n.current = nil
}

// expire clears the toast only if no newer toast replaced it.
func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.generation {
		return
	}
	n.current = nil
	n.timer = nil
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}
