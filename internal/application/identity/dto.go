package identity

import "time"

// LoginInput contains the input for admin login
type LoginInput struct {
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
	User        AdminInfo `json:"user"`
}

// AdminInfo describes the signed-in administrator
type AdminInfo struct {
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// LoginRequest is the HTTP body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LogoutInput contains the input for admin logout
type LogoutInput struct {
	TokenJTI  string    // JWT ID for revocation, empty for external tokens
	ExpiresAt time.Time // Token expiry, bounds how long the revocation is kept
}
