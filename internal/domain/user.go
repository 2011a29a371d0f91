package domain

import (
	"strings"
	"time"
)

// User is an account created through signup. Records are never mutated.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// SessionUser is the public projection of a User exposed through a session.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Projection strips the password.
func (u User) Projection() SessionUser {
	return SessionUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// FirstName returns the first word of the name, or "there" when the name is blank.
func (u SessionUser) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}

// FindUserByEmail matches email case-insensitively.
func FindUserByEmail(users []User, email string) (User, bool) {
	for _, user := range users {
		if strings.EqualFold(user.Email, email) {
			return user, true
		}
	}
	return User{}, false
}

// FindUserByID looks a user up by identifier.
func FindUserByID(users []User, id string) (User, bool) {
	for _, user := range users {
		if user.ID == id {
			return user, true
		}
	}
	return User{}, false
}
