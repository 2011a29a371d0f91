package view

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/state"
)

var base = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

func ticketsWith(statuses ...domain.TicketStatus) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(statuses))
	for i, status := range statuses {
		tickets = append(tickets, domain.Ticket{
			ID:        fmt.Sprintf("t%d", i),
			Title:     fmt.Sprintf("Ticket %d", i),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return tickets
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(ComputeStats(nil)))

	allClosed := ticketsWith(domain.TicketStatusClosed, domain.TicketStatusClosed)
	assert.Equal(t, 100, CompletionRate(ComputeStats(allClosed)))

	mixed := ticketsWith(domain.TicketStatusClosed, domain.TicketStatusOpen, domain.TicketStatusInProgress)
	assert.Equal(t, 33, CompletionRate(ComputeStats(mixed)))

	twoOfThree := ticketsWith(domain.TicketStatusClosed, domain.TicketStatusClosed, domain.TicketStatusOpen)
	assert.Equal(t, 67, CompletionRate(ComputeStats(twoOfThree)))
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(ticketsWith(domain.TicketStatusOpen, domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusClosed))
	assert.Equal(t, Stats{Total: 4, Open: 2, InProgress: 1, Closed: 1}, stats)
}

func TestRecent_IgnoresFilterAndSortsNewestFirst(t *testing.T) {
	tickets := ticketsWith(domain.TicketStatusOpen, domain.TicketStatusClosed, domain.TicketStatusOpen, domain.TicketStatusInProgress)

	recent := Recent(tickets, RecentLimit)
	require.Len(t, recent, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{recent[0].ID, recent[1].ID, recent[2].ID})
}

func TestList_FiltersAndSorts(t *testing.T) {
	tickets := ticketsWith(domain.TicketStatusOpen, domain.TicketStatusClosed, domain.TicketStatusOpen)

	list := List(tickets, domain.Filter(domain.TicketStatusOpen))
	require.Len(t, list, 2)
	assert.Equal(t, "t2", list[0].ID)
	assert.Equal(t, "t0", list[1].ID)
	assert.Equal(t, "t0", tickets[0].ID, "source order untouched")
}

func TestRenderer_Dashboard(t *testing.T) {
	r := NewRenderer()

	empty := r.Dashboard(domain.SessionUser{Name: "Grace Hopper"}, nil)
	assert.Equal(t, "Grace", empty.FirstName)
	assert.True(t, empty.RecentEmpty)
	assert.Equal(t, 0, empty.CompletionRate)
	assert.Equal(t, "conic-gradient(#4f5dff 0%, rgba(79, 93, 255, 0.2) 0% 100%)", empty.ProgressGradient)

	full := r.Dashboard(domain.SessionUser{}, ticketsWith(domain.TicketStatusClosed))
	assert.Equal(t, "there", full.FirstName)
	assert.Equal(t, 100, full.CompletionRate)
	assert.Len(t, full.Recent, 1)
}

func TestRenderer_CardEscapesDescription(t *testing.T) {
	r := NewRenderer()
	card := r.Card(domain.Ticket{
		ID:          "x",
		Title:       "Title",
		Status:      domain.TicketStatusInProgress,
		Description: "**bold** <script>alert(1)</script>",
	})

	assert.Equal(t, "in progress", card.StatusLabel)
	assert.Contains(t, card.DescriptionHTML, "<strong>bold</strong>")
	assert.NotContains(t, card.DescriptionHTML, "<script>")

	assert.Empty(t, r.Card(domain.Ticket{Status: domain.TicketStatusOpen}).DescriptionHTML)
}

func TestRenderer_Board(t *testing.T) {
	r := NewRenderer()
	s := state.New(ticketsWith(domain.TicketStatusOpen, domain.TicketStatusClosed))

	board := r.Board(s)
	assert.Equal(t, domain.FilterAll, board.Filter)
	assert.Equal(t, 2, board.Count)
	assert.True(t, board.Edit.Hidden)
	require.Len(t, board.Filters, 4)
	assert.True(t, board.Filters[0].Active)

	s = state.SetFilter(s, domain.Filter(domain.TicketStatusInProgress))
	s, _ = state.StartEdit(s, "t1")
	board = r.Board(s)
	assert.True(t, board.Empty)
	assert.Equal(t, 0, board.Count)
	assert.False(t, board.Edit.Hidden)
	assert.Equal(t, "t1", board.Edit.ID)
	assert.True(t, board.Filters[2].Active)
}

func TestParsePageID(t *testing.T) {
	assert.Equal(t, PageTickets, ParsePageID("tickets"))
	assert.Equal(t, PageNone, ParsePageID("landing"))
	assert.True(t, PageDashboard.RequiresAuth())
	assert.True(t, PageSignup.RequiresGuest())
	assert.False(t, PageNone.RequiresAuth())
	assert.False(t, PageNone.RequiresGuest())
}

func TestHeader(t *testing.T) {
	assert.Equal(t, HeaderView{Authenticated: true, ShowLogout: true}, Header(true))
	assert.Equal(t, HeaderView{ShowLogin: true}, Header(false))
}
