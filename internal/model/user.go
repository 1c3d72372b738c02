package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ClientType selects the refresh-secret delivery channel for a response.
// Web clients receive an HTTP-only cookie, mobile clients receive the raw
// secret in the response body. Exactly one channel is used per response.
type ClientType string

const (
	ClientWeb    ClientType = "web"
	ClientMobile ClientType = "mobile"
)

// Session is the result of a successful register, login or refresh flow.
// RefreshSecret carries the raw secret exactly once, for delivery; it is
// never persisted or logged.
type Session struct {
	AccessToken   string
	ExpiresIn     int64
	RefreshSecret string
	User          AuthUser
}
