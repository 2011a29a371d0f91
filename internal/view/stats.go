package view

import (
	"fmt"
	"math"
	"slices"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/state"
)

// RecentLimit is how many tickets the dashboard shows regardless of the active filter.
const RecentLimit = 3

// Stats aggregates ticket counts.
type Stats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Closed     int `json:"closed"`
}

// ComputeStats counts tickets per status.
func ComputeStats(tickets []domain.Ticket) Stats {
	stats := Stats{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case domain.TicketStatusOpen:
			stats.Open++
		case domain.TicketStatusInProgress:
			stats.InProgress++
		case domain.TicketStatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// CompletionRate is round(closed / total * 100), and 0 for an empty collection.
func CompletionRate(stats Stats) int {
	if stats.Total == 0 {
		return 0
	}
	return int(math.Round(float64(stats.Closed) / float64(stats.Total) * 100))
}

// ProgressGradient is the conic-gradient used by the dashboard progress circle.
func ProgressGradient(rate int) string {
	return fmt.Sprintf("conic-gradient(#4f5dff %d%%, rgba(79, 93, 255, 0.2) %d%% 100%%)", rate, rate)
}

// SortNewestFirst returns a copy ordered by CreatedAt descending.
func SortNewestFirst(tickets []domain.Ticket) []domain.Ticket {
	sorted := slices.Clone(tickets)
	slices.SortStableFunc(sorted, func(a, b domain.Ticket) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}

// Recent returns the n most recently created tickets.
func Recent(tickets []domain.Ticket, n int) []domain.Ticket {
	sorted := SortNewestFirst(tickets)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// List returns the filtered collection, newest first.
func List(tickets []domain.Ticket, filter domain.Filter) []domain.Ticket {
	return SortNewestFirst(state.Filter(tickets, filter))
}
