// Package validation maps submitted form fields to human-readable, per-field error messages.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/ticketdesk/internal/domain"
)

// Auth form fields.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

// Ticket limits.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 500
	MaxPriorityLength    = 40
	MinPasswordLength    = 6
)

// Errors maps a field name to its message. A missing key means the field is valid.
type Errors map[string]string

// Valid reports whether no field failed.
func (e Errors) Valid() bool {
	return len(e) == 0
}

// AuthForm is the union of login and signup fields.
type AuthForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type ticketForm struct {
	Title       string              `json:"title" validate:"required,max=120"`
	Status      domain.TicketStatus `json:"status" validate:"oneof=open in_progress closed"`
	Priority    string              `json:"priority" validate:"max=40"`
	Description string              `json:"description" validate:"max=500"`
}

var messages = map[string]string{
	"name.required":            "Name is required.",
	"email.required":           "Email is required.",
	"password.required":        "Password is required.",
	"password.min":             "Password must be at least 6 characters.",
	"confirmPassword.required": "Confirm your password.",
	"confirmPassword.eqfield":  "Passwords do not match.",
	"title.required":           "Title is required.",
	"title.max":                "Title must be 120 characters or less.",
	"status.oneof":             "Status must be open, in progress, or closed.",
	"description.max":          "Description must not exceed 500 characters.",
	"priority.max":             "Priority label must not exceed 40 characters.",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// NormalizeAuth trims the identity fields. Passwords are compared verbatim.
func NormalizeAuth(form AuthForm) AuthForm {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	return form
}

// ValidateAuth checks only the requested fields of form.
func ValidateAuth(form AuthForm, fields ...string) Errors {
	requested := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		requested[field] = struct{}{}
	}

	all := collect(validate.Struct(NormalizeAuth(form)))
	errs := Errors{}
	for field, msg := range all {
		if _, ok := requested[field]; ok {
			errs[field] = msg
		}
	}
	return errs
}

// NormalizeTicket trims the free-text fields of a payload.
func NormalizeTicket(payload domain.TicketPayload) domain.TicketPayload {
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Priority = strings.TrimSpace(payload.Priority)
	payload.Description = strings.TrimSpace(payload.Description)
	return payload
}

// ValidateTicket checks a normalized ticket payload.
func ValidateTicket(payload domain.TicketPayload) Errors {
	payload = NormalizeTicket(payload)
	return collect(validate.Struct(ticketForm{
		Title:       payload.Title,
		Status:      payload.Status,
		Priority:    payload.Priority,
		Description: payload.Description,
	}))
}

func collect(err error) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["_form"] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		msg, ok := messages[field+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value."
		}
		errs[field] = msg
	}
	return errs
}
