package model

import "time"

// UserType distinguishes the two participant roles of the marketplace.
type UserType string

const (
	UserTypeClient     UserType = "client"
	UserTypeFreelancer UserType = "freelancer"
)

// User represents a registered marketplace participant.
type User struct {
	ID           string
	Login        string
	Name         string
	UserType     UserType
	PasswordHash string
	CreatedAt    time.Time
}

// SessionUser is the identity snapshot persisted alongside the auth token.
type SessionUser struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	UserType UserType `json:"userType"`
}

// Session is the locally persisted identity written at login and cleared at
// logout or on an authorization failure.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}
