package dto

import "github.com/spec-kit/ticketdesk/internal/domain"

// SignupRequest payload for new accounts.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Session  *domain.CurrentSession `json:"session"`
	Redirect string                 `json:"redirect"`
}

// RedirectResponse tells the client where to navigate next.
type RedirectResponse struct {
	Redirect string `json:"redirect"`
}
