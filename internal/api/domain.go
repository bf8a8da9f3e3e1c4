package api

import (
	"time"
)

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Message      string `json:"message"`
}

// RefreshRequest carries the refresh token issued at login.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserCredentials mirrors the users_credentials table. The schema is
// pinned: login, password_hash and is_blocked are fixed columns, not
// discovered by introspection.
type UserCredentials struct {
	UserID       int64  `json:"user_id"`
	Login        string `json:"login"`
	PasswordHash string `json:"-"`
	IsBlocked    bool   `json:"is_blocked"`
}

// CredentialsOverview is the admin view of one account.
type CredentialsOverview struct {
	UserID    int64  `json:"user_id"`
	Login     string `json:"login"`
	IsBlocked bool   `json:"is_blocked"`
}

// Session is one issued refresh token.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
