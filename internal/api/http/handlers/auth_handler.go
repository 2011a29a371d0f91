package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticketdesk/internal/api/dto"
	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/service"
	"github.com/spec-kit/ticketdesk/internal/view"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// AuthHandler serves signup, login, logout and session lookups.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Signup POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	current, err := h.service.Signup(c.UserContext(), auth.ClientIDFromContext(c), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AuthResponse{Session: current, Redirect: view.PathDashboard}})
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	current, err := h.service.Login(c.UserContext(), auth.ClientIDFromContext(c), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Session: current, Redirect: view.PathDashboard}})
}

// Logout POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), auth.ClientIDFromContext(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.RedirectResponse{Redirect: view.PathHome}})
}

// Session GET /auth/session. The data is null when signed out.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	current, err := h.service.CurrentSession(c.UserContext(), auth.ClientIDFromContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": current})
}
