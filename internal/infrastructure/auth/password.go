package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash suitable for auth.admin_password_hash
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// AdminCredentials checks a login against the configured admin account
type AdminCredentials struct {
	email        string
	passwordHash []byte
}

// NewAdminCredentials creates a checker for one admin account
func NewAdminCredentials(email, passwordHash string) *AdminCredentials {
	return &AdminCredentials{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
	}
}

// Check reports whether email and password match. The bcrypt comparison
// runs even for an unknown email so both failures take the same time.
func (a *AdminCredentials) Check(email, password string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := a.email != "" && subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	if len(a.passwordHash) == 0 {
		return false
	}
	pwErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	return emailOK && pwErr == nil
}

// Email returns the normalized admin email
func (a *AdminCredentials) Email() string {
	return a.email
}
