package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/service"
)

// NotificationsHandler exposes the client's transient notification.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// Current GET /notifications/current. The data is null when nothing is showing.
func (h *NotificationsHandler) Current(c *fiber.Ctx) error {
	toast, ok := h.service.Current(auth.ClientIDFromContext(c))
	if !ok {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": toast})
}

// Dismiss DELETE /notifications/current.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	h.service.Dismiss(auth.ClientIDFromContext(c))
	return c.SendStatus(fiber.StatusNoContent)
}
