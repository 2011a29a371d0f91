package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/api/http/handlers"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/observability"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/storage"
	"github.com/spec-kit/ticketdesk/internal/view"
	"github.com/spec-kit/ticketdesk/internal/workspace"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	store := storage.NewMemoryStore()
	adapter := storage.NewAdapter(store, logger)
	registry := workspace.NewRegistry(time.Minute)
	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(dispatcher, registry, logger)
	notifications.RegisterHandlers()

	renderer := view.NewRenderer()
	authService := service.NewAuthService(config.AuthConfig{BcryptCost: 4}, service.AuthDependencies{
		UserRepo:    repository.NewUserRepository(adapter),
		SessionRepo: repository.NewSessionRepository(adapter),
		Workspaces:  registry,
		Dispatcher:  dispatcher,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: repository.NewTicketRepository(adapter),
		Workspaces: registry,
		Renderer:   renderer,
		Dispatcher: dispatcher,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:        handlers.NewHealthHandler("ticketdesk", "test", config.DriverMemory, store, metrics),
		Pages:         handlers.NewPagesHandler("ticketdesk", "test", service.NewPageService(authService, ticketService)),
		Auth:          handlers.NewAuthHandler(authService),
		Tickets:       handlers.NewTicketsHandler(ticketService, renderer),
		Notifications: handlers.NewNotificationsHandler(notifications),
		Client:        auth.NewClientMiddleware(auth.NewTokenManager("test-secret", 60), "", false, logger),
		Sessions:      authService,
	})
	return app
}

func (c *client) do(method, path string, body any) (int, envelope, *stdhttp.Response) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(auth.ClientTokenHeader, c.token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	if issued := resp.Header.Get(auth.ClientTokenHeader); issued != "" {
		c.token = issued
	}

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(c.t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, resp
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func signup(c *client) {
	status, env, _ := c.do("POST", "/auth/signup", map[string]string{
		"name":            "Ada Lovelace",
		"email":           "a@x.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(c.t, stdhttp.StatusCreated, status, "%+v", env.Error)
}

func TestHealth(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	status, _, resp := c.do("GET", "/health/live", nil)
	assert.Equal(t, stdhttp.StatusOK, status)
	assert.Empty(t, resp.Header.Get(auth.ClientTokenHeader))

	status, _, _ = c.do("GET", "/health/ready", nil)
	assert.Equal(t, stdhttp.StatusOK, status)

	status, env, _ := c.do("GET", "/health/metrics", nil)
	assert.Equal(t, stdhttp.StatusOK, status)
	snap := decode[observability.Snapshot](t, env)
	assert.GreaterOrEqual(t, snap.TotalRequests, int64(2))
}

func TestUnknownPathRedirectsHome(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	status, _, resp := c.do("GET", "/about/team", nil)
	assert.Equal(t, stdhttp.StatusFound, status)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	status, env, _ := c.do("GET", "/dashboard", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_REQUIRED", env.Error.Code)
	assert.Equal(t, "/auth/login", env.Error.Details["redirect"])

	_, env, _ = c.do("GET", "/notifications/current", nil)
	toast := decode[map[string]any](t, env)
	assert.Equal(t, "Session required", toast["title"])

	status, _, _ = c.do("DELETE", "/notifications/current", nil)
	assert.Equal(t, stdhttp.StatusNoContent, status)
	_, env, _ = c.do("GET", "/notifications/current", nil)
	assert.Equal(t, "null", string(env.Data))
}

func TestAuthFlow(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	_, env, _ := c.do("GET", "/auth/session", nil)
	assert.Equal(t, "null", string(env.Data))

	status, env, _ := c.do("POST", "/auth/signup", map[string]string{"name": "Ada", "email": "a@x.com", "password": "1", "confirmPassword": "2"})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, status)
	assert.Equal(t, "Password must be at least 6 characters.", env.Error.Details["password"])

	signup(c)

	status, env, _ = c.do("POST", "/auth/login", map[string]string{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, stdhttp.StatusConflict, status)
	assert.Equal(t, "/dashboard", env.Error.Details["redirect"])

	_, env, _ = c.do("POST", "/auth/logout", nil)
	assert.Equal(t, "/", decode[map[string]string](t, env)["redirect"])

	status, env, _ = c.do("POST", "/auth/login", map[string]string{"email": "A@X.com", "password": "wrong1"})
	assert.Equal(t, stdhttp.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, env, _ = c.do("POST", "/auth/login", map[string]string{"email": "A@X.com", "password": "secret1"})
	require.Equal(t, stdhttp.StatusOK, status)
	type authResp struct {
		Session struct {
			User struct {
				Email string `json:"email"`
			} `json:"user"`
		} `json:"session"`
		Redirect string `json:"redirect"`
	}
	resp := decode[authResp](t, env)
	assert.Equal(t, "a@x.com", resp.Session.User.Email)
	assert.Equal(t, "/dashboard", resp.Redirect)

	status, env, _ = c.do("GET", "/dashboard", nil)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, "Ada", decode[view.DashboardView](t, env).FirstName)
}

func TestTicketFlow(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}
	signup(c)

	status, env, _ := c.do("POST", "/tickets", map[string]string{"title": "", "status": "open"})
	assert.Equal(t, stdhttp.StatusUnprocessableEntity, status)
	assert.Equal(t, "Title is required.", env.Error.Details["title"])

	status, env, _ = c.do("POST", "/tickets", map[string]string{"title": "Fix login", "status": "open", "description": "**now**"})
	require.Equal(t, stdhttp.StatusCreated, status)
	created := decode[struct {
		Ticket    view.Card          `json:"ticket"`
		Board     view.BoardView     `json:"board"`
		Dashboard view.DashboardView `json:"dashboard"`
	}](t, env)
	assert.Equal(t, 1, created.Board.Count)
	assert.Equal(t, 1, created.Dashboard.Stats.Open)
	assert.Contains(t, created.Ticket.DescriptionHTML, "<strong>now</strong>")
	id := created.Ticket.ID

	status, env, _ = c.do("POST", "/tickets/"+id+"/edit", nil)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, id, decode[view.BoardView](t, env).Edit.ID)

	status, env, _ = c.do("PUT", "/tickets/"+id, map[string]string{"title": "Fix login", "status": "closed"})
	require.Equal(t, stdhttp.StatusOK, status)
	updated := decode[struct {
		Ticket    view.Card          `json:"ticket"`
		Dashboard view.DashboardView `json:"dashboard"`
	}](t, env)
	require.NotNil(t, updated.Ticket.UpdatedAt)
	assert.False(t, updated.Ticket.UpdatedAt.Before(updated.Ticket.CreatedAt))
	assert.Equal(t, 100, updated.Dashboard.CompletionRate)

	status, _, _ = c.do("PUT", "/tickets/missing", map[string]string{"title": "x", "status": "open"})
	assert.Equal(t, stdhttp.StatusNotFound, status)

	status, env, _ = c.do("GET", "/tickets?status=open", nil)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.True(t, decode[view.BoardView](t, env).Empty)

	status, env, _ = c.do("PUT", "/tickets/filter", map[string]string{"status": "all"})
	require.Equal(t, stdhttp.StatusOK, status)
	assert.Equal(t, 1, decode[view.BoardView](t, env).Count)

	status, env, _ = c.do("DELETE", "/tickets/"+id, nil)
	assert.Equal(t, stdhttp.StatusConflict, status)
	assert.Equal(t, "CONFIRMATION_REQUIRED", env.Error.Code)
	assert.Equal(t, "Delete “Fix login”? This cannot be undone.", env.Error.Details["prompt"])

	status, env, _ = c.do("DELETE", "/tickets/"+id+"?confirm=true", nil)
	require.Equal(t, stdhttp.StatusOK, status)
	board := decode[struct {
		Board view.BoardView `json:"board"`
	}](t, env).Board
	assert.True(t, board.Empty)
	assert.True(t, board.Edit.Hidden)

	status, env, _ = c.do("DELETE", "/tickets/edit", nil)
	require.Equal(t, stdhttp.StatusOK, status)
	assert.True(t, decode[view.BoardView](t, env).Edit.Hidden)
}

func TestClientsAreIsolated(t *testing.T) {
	app := newTestApp(t)
	a := &client{t: t, app: app}
	b := &client{t: t, app: app}

	signup(a)
	status, _, _ := a.do("POST", "/tickets", map[string]string{"title": "mine", "status": "open"})
	require.Equal(t, stdhttp.StatusCreated, status)

	status, _, _ = b.do("GET", "/tickets", nil)
	assert.Equal(t, stdhttp.StatusUnauthorized, status)
	signup(b)
	_, env, _ := b.do("GET", "/tickets", nil)
	assert.True(t, decode[view.BoardView](t, env).Empty)
}

func TestPageBootstrap(t *testing.T) {
	c := &client{t: t, app: newTestApp(t)}

	status, env, _ := c.do("GET", "/pages/tickets", nil)
	require.Equal(t, stdhttp.StatusOK, status)
	page := decode[service.PageState](t, env)
	assert.False(t, page.Allowed)
	assert.Equal(t, "/auth/login", page.Redirect)

	signup(c)
	_, env, _ = c.do("GET", "/pages/tickets", nil)
	page = decode[service.PageState](t, env)
	assert.True(t, page.Allowed)
	require.NotNil(t, page.Board)
	require.NotNil(t, page.Dashboard)
}

func TestInvalidClientTokenIsReplaced(t *testing.T) {
	c := &client{t: t, app: newTestApp(t), token: "forged"}
	c.do("GET", "/auth/session", nil)
	assert.NotEqual(t, "forged", c.token)
	assert.NotEmpty(t, c.token)
}
