package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough-for-hs256",
		AccessTokenExpiration: time.Hour,
		Issuer:                "ha-design-test",
	})
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestJWTService()

	tok, err := svc.Issue("admin@hadesign.dz")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.NotEmpty(t, tok.Token)

	claims, err := svc.Validate(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@hadesign.dz", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.InDelta(t, time.Hour.Seconds(), svc.RemainingTTL(claims).Seconds(), 5)
}

func TestJWTService_Validate(t *testing.T) {
	svc := newTestJWTService()
	tok, err := svc.Issue("admin@hadesign.dz")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		expired := newTestJWTService()
		expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := expired.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "another-secret", Issuer: "ha-design-test"})
		_, err := other.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret: "test-secret-key-that-is-long-enough-for-hs256",
			Issuer: "someone-else",
		})
		_, err := other.Validate(tok.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{Issuer: "ha-design-test"},
			Email:            "admin@hadesign.dz",
			Role:             RoleAdmin,
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing role", func(t *testing.T) {
		raw := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "ha-design-test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Email: "admin@hadesign.dz",
		})
		s, err := raw.SignedString([]byte("test-secret-key-that-is-long-enough-for-hs256"))
		require.NoError(t, err)
		_, err = svc.Validate(s)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestAdminCredentials_Check(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	creds := NewAdminCredentials(" Admin@HaDesign.dz ", hash)
	assert.Equal(t, "admin@hadesign.dz", creds.Email())

	tests := []struct {
		name     string
		email    string
		password string
		want     bool
	}{
		{"valid", "admin@hadesign.dz", "s3cret-pass", true},
		{"email case and spaces ignored", "  ADMIN@hadesign.DZ", "s3cret-pass", true},
		{"wrong password", "admin@hadesign.dz", "nope", false},
		{"wrong email", "other@hadesign.dz", "s3cret-pass", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, creds.Check(tt.email, tt.password))
		})
	}

	t.Run("no hash configured", func(t *testing.T) {
		assert.False(t, NewAdminCredentials("admin@hadesign.dz", "").Check("admin@hadesign.dz", ""))
	})
}

func TestJWTVerifier(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService()
	revoked := NewInMemoryRevocationList()
	v := NewJWTVerifier(svc, revoked)

	tok, err := svc.Issue("admin@hadesign.dz")
	require.NoError(t, err)

	p, err := v.Verify(ctx, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@hadesign.dz", p.Email)
	assert.Equal(t, config.AuthProviderLocal, p.Provider)
	assert.NotEmpty(t, p.TokenID)

	require.NoError(t, revoked.Revoke(ctx, p.TokenID, time.Hour))
	_, err = v.Verify(ctx, tok.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestInMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	l := NewInMemoryRevocationList()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	require.NoError(t, l.Revoke(ctx, "a", time.Minute))
	require.NoError(t, l.Revoke(ctx, "b", 0))

	ok, err := l.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = l.IsRevoked(ctx, "b")
	assert.False(t, ok, "non-positive ttl is a no-op")

	now = now.Add(2 * time.Minute)
	ok, _ = l.IsRevoked(ctx, "a")
	assert.False(t, ok)

	require.NoError(t, l.Revoke(ctx, "c", time.Minute))
	assert.NotContains(t, l.entries, "a", "expired entries are pruned on write")
}

type stubIDTokenVerifier struct {
	token *fbauth.Token
	err   error
}

func (s stubIDTokenVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return s.token, s.err
}

func TestFirebaseVerifier(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Hour).Unix()
	token := &fbauth.Token{
		UID:     "uid-1",
		Expires: exp,
		Claims:  map[string]interface{}{"email": "Admin@HaDesign.dz"},
	}

	t.Run("admin accepted", func(t *testing.T) {
		v := newFirebaseVerifier(stubIDTokenVerifier{token: token}, "admin@hadesign.dz")
		p, err := v.Verify(ctx, "id-token")
		require.NoError(t, err)
		assert.Equal(t, "uid-1", p.Subject)
		assert.Equal(t, config.AuthProviderFirebase, p.Provider)
		assert.Equal(t, exp, p.ExpiresAt.Unix())
	})

	t.Run("other account rejected", func(t *testing.T) {
		v := newFirebaseVerifier(stubIDTokenVerifier{token: token}, "owner@hadesign.dz")
		_, err := v.Verify(ctx, "id-token")
		assert.ErrorIs(t, err, ErrNotAdmin)
	})

	t.Run("any account when no admin email", func(t *testing.T) {
		v := newFirebaseVerifier(stubIDTokenVerifier{token: token}, "")
		_, err := v.Verify(ctx, "id-token")
		assert.NoError(t, err)
	})

	t.Run("verification failure", func(t *testing.T) {
		v := newFirebaseVerifier(stubIDTokenVerifier{err: errors.New("bad signature")}, "")
		_, err := v.Verify(ctx, "id-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
