// Package workspace keeps the per-client view state that is not persisted: the active
// filter, the ticket being edited and the visible notification.
package workspace

import (
	"sync"
	"time"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/notify"
)

// Workspace is one client's view state. Callers hold Lock for the duration of a handler,
// which serializes every action within a client namespace.
type Workspace struct {
	sync.Mutex

	ClientID  string
	Filter    domain.Filter
	EditingID string
	Notifier  *notify.Notifier
}

// Reset returns the view state to what a fresh page load shows. Callers hold the lock.
func (w *Workspace) Reset() {
	w.Filter = domain.FilterAll
	w.EditingID = ""
}

type entry struct {
	ws       *Workspace
	lastSeen time.Time
}

// Registry owns workspaces keyed by client namespace.
type Registry struct {
	mu           sync.Mutex
	items        map[string]*entry
	dismissAfter time.Duration
	now          func() time.Time
}

// NewRegistry creates an empty registry whose notifiers use dismissAfter.
func NewRegistry(dismissAfter time.Duration) *Registry {
	return &Registry{
		items:        make(map[string]*entry),
		dismissAfter: dismissAfter,
		now:          time.Now,
	}
}

// Get returns the workspace for clientID, creating it on first use.
func (r *Registry) Get(clientID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.items[clientID]
	if !ok {
		e = &entry{ws: &Workspace{
			ClientID: clientID,
			Filter:   domain.FilterAll,
			Notifier: notify.NewNotifier(r.dismissAfter),
		}}
		r.items[clientID] = e
	}
	e.lastSeen = r.now()
	return e.ws
}

// Sweep evicts workspaces unused for longer than idle and returns how many were removed.
// A workspace that is currently locked by a handler is kept.
func (r *Registry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, e := range r.items {
		if !e.lastSeen.Before(cutoff) {
			continue
		}
		if !e.ws.TryLock() {
			continue
		}
		e.ws.Notifier.Dismiss()
		delete(r.items, id)
		e.ws.Unlock()
		removed++
	}
	return removed
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
