package view

// PageID is the page identity a rendered page declares to the bootstrap routine.
type PageID string

const (
	PageNone      PageID = ""
	PageDashboard PageID = "dashboard"
	PageTickets   PageID = "tickets"
	PageLogin     PageID = "login"
	PageSignup    PageID = "signup"
)

// Redirect targets used by the auth guards.
const (
	PathHome      = "/"
	PathLogin     = "/auth/login"
	PathDashboard = "/dashboard"
)

// ParsePageID maps unknown identifiers to PageNone.
func ParsePageID(raw string) PageID {
	switch id := PageID(raw); id {
	case PageDashboard, PageTickets, PageLogin, PageSignup:
		return id
	default:
		return PageNone
	}
}

// RequiresAuth reports whether the page needs a session.
func (p PageID) RequiresAuth() bool {
	return p == PageDashboard || p == PageTickets
}

// RequiresGuest reports whether the page is only for signed-out clients.
func (p PageID) RequiresGuest() bool {
	return p == PageLogin || p == PageSignup
}
