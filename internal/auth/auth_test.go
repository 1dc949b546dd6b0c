package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm0114/capacitor-push-prototype/internal/domain"
	models "github.com/dm0114/capacitor-push-prototype/internal/domain/models/workspace"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var testUser = &models.User{ID: "1", Email: "user@example.com", Name: "Test User"}

func TestSessionManager_RoundTrip(t *testing.T) {
	m, err := NewSessionManager([]byte("secret"), time.Hour, testLogger)
	require.NoError(t, err)

	token, err := m.Issue(testUser)
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.UserID())
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestSessionManager_Rejects(t *testing.T) {
	m, err := NewSessionManager([]byte("secret"), time.Hour, testLogger)
	require.NoError(t, err)
	other, err := NewSessionManager([]byte("other"), time.Hour, testLogger)
	require.NoError(t, err)

	foreign, err := other.Issue(testUser)
	require.NoError(t, err)

	expired, err := m.Issue(testUser)
	require.NoError(t, err)
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "1", Issuer: sessionIssuer}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": foreign,
		"expired":      expired,
		"alg none":     unsigned,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.VerifyToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNewSessionManager_EmptySecret(t *testing.T) {
	_, err := NewSessionManager(nil, time.Hour, testLogger)
	assert.Error(t, err)
}

func TestChain(t *testing.T) {
	a, _ := NewSessionManager([]byte("a"), time.Hour, testLogger)
	b, _ := NewSessionManager([]byte("b"), time.Hour, testLogger)
	token, err := b.Issue(testUser)
	require.NoError(t, err)

	claims, err := Chain{a, b}.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)

	_, err = Chain{a}.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = Chain{}.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestJWKSVerifier(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"kid": "test-key",
			"use": "sig",
			"alg": "RS256",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err := NewJWKSVerifier(ctx, srv.URL, testLogger)
	require.NoError(t, err)
	defer v.Close()

	sign := func(claims Claims) string {
		tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
		tok.Header["kid"] = "test-key"
		s, err := tok.SignedString(key)
		require.NoError(t, err)
		return s
	}

	claims, err := v.VerifyToken(sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ext-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		Email:            "ext@example.com",
	}))
	require.NoError(t, err)
	assert.Equal(t, "ext-1", claims.UserID())

	_, err = v.VerifyToken(sign(Claims{}))
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "missing subject")

	hs, _ := NewSessionManager([]byte("secret"), time.Hour, testLogger)
	token, _ := hs.Issue(testUser)
	_, err = v.VerifyToken(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "symmetric tokens rejected")
}

func TestNewJWKSVerifier_EmptyURL(t *testing.T) {
	_, err := NewJWKSVerifier(context.Background(), "", testLogger)
	assert.Error(t, err)
}
