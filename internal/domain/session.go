package domain

import "time"

// Session binds one client namespace to a user. At most one exists per namespace.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CurrentSession is a resolved session whose user still exists.
type CurrentSession struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}
