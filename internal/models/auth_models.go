package models

import "time"

// LoginRequest is the credential payload for the dashboard login form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the authenticated operator profile shown in the dashboard header.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is issued after a successful login. Token is the locally minted
// JWT the dashboard presents on subsequent requests.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
