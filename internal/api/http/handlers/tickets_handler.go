package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/view"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// TicketsHandler manages the dashboard and ticket board endpoints.
type TicketsHandler struct {
	service  *service.TicketService
	renderer *view.Renderer
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, renderer *view.Renderer) *TicketsHandler {
	return &TicketsHandler{service: ticketService, renderer: renderer}
}

// Dashboard GET /dashboard.
func (h *TicketsHandler) Dashboard(c *fiber.Ctx) error {
	current, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	return c.JSON(fiber.Map{"data": h.service.Dashboard(c.UserContext(), auth.ClientIDFromContext(c), current.User)})
}

// Board GET /tickets. An optional status query sets the filter first.
func (h *TicketsHandler) Board(c *fiber.Ctx) error {
	clientID := auth.ClientIDFromContext(c)
	if status := c.Query("status"); status != "" {
		board, err := h.service.SetFilter(c.UserContext(), clientID, status)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": board})
	}
	return c.JSON(fiber.Map{"data": h.service.Board(c.UserContext(), clientID)})
}

// SetFilter PUT /tickets/filter.
func (h *TicketsHandler) SetFilter(c *fiber.Ctx) error {
	var req dto.FilterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	board, err := h.service.SetFilter(c.UserContext(), auth.ClientIDFromContext(c), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": board})
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Create(c.UserContext(), auth.ClientIDFromContext(c), req.Payload())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": h.mutation(c, ticket)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	id := c.Params("id")
	ticket, ok, err := h.service.Update(c.UserContext(), auth.ClientIDFromContext(c), id, req.Payload())
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": h.mutation(c, ticket)})
}

// StartEdit POST /tickets/:id/edit.
func (h *TicketsHandler) StartEdit(c *fiber.Ctx) error {
	board, err := h.service.StartEdit(c.UserContext(), auth.ClientIDFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": board})
}

// CancelEdit DELETE /tickets/edit.
func (h *TicketsHandler) CancelEdit(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.service.CancelEdit(c.UserContext(), auth.ClientIDFromContext(c))})
}

// DeleteTicket DELETE /tickets/:id. Without confirm=true the prompt is returned as a
// CONFIRMATION_REQUIRED error and nothing changes.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	id := c.Params("id")
	confirmed := c.QueryBool("confirm", false)

	deleted, err := h.service.Delete(c.UserContext(), auth.ClientIDFromContext(c), id,
		service.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
			if confirmed {
				return true, nil
			}
			return false, apperrors.NewConfirmationRequired(prompt, map[string]any{"id": id})
		}))
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return c.JSON(fiber.Map{"data": h.mutation(c, nil)})
}

func (h *TicketsHandler) mutation(c *fiber.Ctx, ticket *domain.Ticket) dto.TicketMutationResponse {
	clientID := auth.ClientIDFromContext(c)
	resp := dto.TicketMutationResponse{Board: h.service.Board(c.UserContext(), clientID)}
	if ticket != nil {
		card := h.renderer.Card(*ticket)
		resp.Ticket = &card
	}
	if current, ok := auth.SessionFromContext(c); ok {
		dashboard := h.service.Dashboard(c.UserContext(), clientID, current.User)
		resp.Dashboard = &dashboard
	}
	return resp
}
