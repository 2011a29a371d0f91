package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticketdesk/internal/auth"
	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/validation"
	"github.com/spec-kit/ticketdesk/internal/workspace"
	apperrors "github.com/spec-kit/ticketdesk/pkg/errorutil"
)

// Copy shown for rejected credentials. Unknown email and wrong password are indistinguishable.
const (
	msgInvalidCredentials = "Invalid credentials. Please try again."
	msgDuplicateEmail     = "An account with that email already exists."
)

// SignupInput is the signup form.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// LoginInput is the login form.
type LoginInput struct {
	Email    string
	Password string
}

// AuthService coordinates signup, login and the per-namespace session record.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	workspaces *workspace.Registry
	dispatcher events.Dispatcher
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Workspaces  *workspace.Registry
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		workspaces: deps.Workspaces,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// Signup registers a new account and signs it in.
func (s *AuthService) Signup(ctx context.Context, clientID string, input SignupInput) (*domain.CurrentSession, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	form := validation.NormalizeAuth(validation.AuthForm{
		Name:            input.Name,
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
	})
	errs := validation.ValidateAuth(form,
		validation.FieldName, validation.FieldEmail, validation.FieldPassword, validation.FieldConfirmPassword)
	if !errs.Valid() {
		s.publishEvent(ctx, clientID, nil, events.EventValidationFailed, events.ValidationFailedPayload{Form: "signup", Fields: errs})
		return nil, apperrors.NewFieldErrors("signup form is invalid", errs)
	}

	if _, err := s.users.GetByEmail(ctx, clientID, form.Email); err == nil {
		s.publishEvent(ctx, clientID, nil, events.EventAuthFailed, events.AuthFailedPayload{
			Operation: "signup",
			Title:     "Signup failed",
			Message:   msgDuplicateEmail,
		})
		return nil, apperrors.NewConflict(msgDuplicateEmail, map[string]any{validation.FieldEmail: msgDuplicateEmail})
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(form.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      form.Name,
		Email:     form.Email,
		Password:  hash,
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.Create(ctx, clientID, user); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}

	token, err := s.createSession(ctx, clientID, user)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, clientID, &user.ID, events.EventUserSignedUp, userPayload(user))
	return &domain.CurrentSession{Token: token, User: user.Projection()}, nil
}

// Login authenticates against the namespace's accounts and replaces any existing session.
func (s *AuthService) Login(ctx context.Context, clientID string, input LoginInput) (*domain.CurrentSession, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	form := validation.NormalizeAuth(validation.AuthForm{Email: input.Email, Password: input.Password})
	errs := validation.ValidateAuth(form, validation.FieldEmail, validation.FieldPassword)
	if !errs.Valid() {
		s.publishEvent(ctx, clientID, nil, events.EventValidationFailed, events.ValidationFailedPayload{Form: "login", Fields: errs})
		return nil, apperrors.NewFieldErrors("login form is invalid", errs)
	}

	user, err := s.users.GetByEmail(ctx, clientID, form.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if err != nil || auth.ComparePassword(user.Password, form.Password) != nil {
		s.publishEvent(ctx, clientID, nil, events.EventAuthFailed, events.AuthFailedPayload{
			Operation: "login",
			Title:     "Login failed",
			Message:   msgInvalidCredentials,
		})
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	token, err := s.createSession(ctx, clientID, *user)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, clientID, &user.ID, events.EventUserLoggedIn, userPayload(*user))
	return &domain.CurrentSession{Token: token, User: user.Projection()}, nil
}

// CreateSession writes a fresh session for user, overwriting any prior one.
func (s *AuthService) CreateSession(ctx context.Context, clientID string, user domain.User) (string, error) {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()
	return s.createSession(ctx, clientID, user)
}

func (s *AuthService) createSession(ctx context.Context, clientID string, user domain.User) (string, error) {
	now := s.now()
	token, err := auth.NewSessionToken(now)
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	session := domain.Session{Token: token, UserID: user.ID, CreatedAt: now.UTC()}
	if err := s.sessions.Save(ctx, clientID, session); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// CurrentSession resolves the stored session to its user. A session whose user no longer
// exists is deleted and reported as absent.
func (s *AuthService) CurrentSession(ctx context.Context, clientID string) (*domain.CurrentSession, error) {
	session := s.sessions.Get(ctx, clientID)
	if session == nil {
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, clientID, session.UserID)
	if errors.Is(err, apperrors.ErrNotFound) {
		if err := s.sessions.Delete(ctx, clientID); err != nil {
			return nil, fmt.Errorf("purge orphaned session: %w", err)
		}
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.CurrentSession{Token: session.Token, User: user.Projection()}, nil
}

// Logout removes the session whether or not one exists.
func (s *AuthService) Logout(ctx context.Context, clientID string) error {
	ws := s.workspaces.Get(clientID)
	ws.Lock()
	defer ws.Unlock()

	current, err := s.CurrentSession(ctx, clientID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}

	var userID *string
	if current != nil {
		userID = &current.User.ID
	}
	s.publishEvent(ctx, clientID, userID, events.EventUserLoggedOut, nil)
	return nil
}

// EnsureAuth reports whether a session exists. When it does not, a "Session required"
// notification is raised and the caller is expected to send the client to the login page.
func (s *AuthService) EnsureAuth(ctx context.Context, clientID string) (bool, error) {
	current, err := s.CurrentSession(ctx, clientID)
	if err != nil {
		return false, err
	}
	if current == nil {
		s.publishEvent(ctx, clientID, nil, events.EventSessionRequired, nil)
		return false, nil
	}
	return true, nil
}

// EnsureGuest reports whether no session exists.
func (s *AuthService) EnsureGuest(ctx context.Context, clientID string) (bool, error) {
	current, err := s.CurrentSession(ctx, clientID)
	if err != nil {
		return false, err
	}
	return current == nil, nil
}

func (s *AuthService) publishEvent(ctx context.Context, clientID string, userID *string, eventType events.EventType, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{ClientID: clientID, UserID: userID},
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func userPayload(user domain.User) events.UserPayload {
	return events.UserPayload{UserID: user.ID, Name: user.Name, Email: user.Email}
}
