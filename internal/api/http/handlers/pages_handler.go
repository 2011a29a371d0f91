package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/view"
)

// PagesHandler serves the landing banner and page bootstrap.
type PagesHandler struct {
	serviceName string
	version     string
	pages       *service.PageService
}

// NewPagesHandler constructs handler.
func NewPagesHandler(serviceName, version string, pages *service.PageService) *PagesHandler {
	return &PagesHandler{serviceName: serviceName, version: version, pages: pages}
}

// Home GET /.
func (h *PagesHandler) Home(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{
		"service": h.serviceName,
		"version": h.version,
		"pages":   []view.PageID{view.PageDashboard, view.PageTickets, view.PageLogin, view.PageSignup},
	}})
}

// Bootstrap GET /pages/:page.
func (h *PagesHandler) Bootstrap(c *fiber.Ctx) error {
	result, err := h.pages.Bootstrap(c.UserContext(), auth.ClientIDFromContext(c), view.ParsePageID(c.Params("page")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}
