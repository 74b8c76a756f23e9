package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"google.golang.org/api/option"
)

// Principal is the authenticated administrator behind a bearer token
type Principal struct {
	Subject   string
	Email     string
	Provider  string
	TokenID   string
	ExpiresAt time.Time
}

// TokenVerifier validates bearer tokens on admin routes
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// JWTVerifier verifies locally issued tokens and consults the revocation list
type JWTVerifier struct {
	jwt     *JWTService
	revoked RevocationList
}

// NewJWTVerifier creates a verifier for local tokens
func NewJWTVerifier(jwt *JWTService, revoked RevocationList) *JWTVerifier {
	return &JWTVerifier{jwt: jwt, revoked: revoked}
}

// Verify validates the token and rejects revoked ones
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	claims, err := v.jwt.Validate(token)
	if err != nil {
		return nil, err
	}
	if v.revoked != nil {
		revoked, err := v.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	p := &Principal{
		Subject:  claims.Subject,
		Email:    claims.Email,
		Provider: config.AuthProviderLocal,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// idTokenVerifier is the part of the Firebase auth client the verifier needs
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// FirebaseVerifier accepts Firebase ID tokens. When adminEmail is set only
// that account is accepted.
type FirebaseVerifier struct {
	client     idTokenVerifier
	adminEmail string
}

// NewFirebaseVerifier initializes a Firebase app for the project
func NewFirebaseVerifier(ctx context.Context, fs config.FirestoreConfig, adminEmail string) (*FirebaseVerifier, error) {
	var opts []option.ClientOption
	if fs.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(fs.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: fs.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth: %w", err)
	}
	return newFirebaseVerifier(client, adminEmail), nil
}

func newFirebaseVerifier(client idTokenVerifier, adminEmail string) *FirebaseVerifier {
	return &FirebaseVerifier{
		client:     client,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
	}
}

// Verify checks the ID token signature, expiry and audience
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		if fbauth.IsIDTokenExpired(err) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	email, _ := t.Claims["email"].(string)
	if v.adminEmail != "" && !strings.EqualFold(email, v.adminEmail) {
		return nil, ErrNotAdmin
	}
	return &Principal{
		Subject:   t.UID,
		Email:     email,
		Provider:  config.AuthProviderFirebase,
		ExpiresAt: time.Unix(t.Expires, 0),
	}, nil
}

var (
	_ TokenVerifier = (*JWTVerifier)(nil)
	_ TokenVerifier = (*FirebaseVerifier)(nil)
)
