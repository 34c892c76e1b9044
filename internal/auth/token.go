// Package auth issues and verifies session tokens.
//
// A session token is a signed, self-contained credential (HS256 JWT)
// carrying the user id and email plus an absolute expiry. Nothing is
// persisted server-side: validity is purely cryptographic and time-based,
// so a token stays valid until its expiry even after logout.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure: malformed
// input, bad signature, wrong signing method, and expiry. Callers must not
// be able to tell these apart.
var ErrInvalidToken = errors.New("invalid session token")

// Claims are the statements embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Identity is the verified subject of a session token.
type Identity struct {
	UserID int64
	Email  string
}

// TokenManager signs and verifies session tokens with a server-held secret.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager. The secret must be high-entropy
// and distinct per deployment; config.Validate enforces a minimum length.
func NewTokenManager(secret []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: secret, ttl: ttl}
}

// Issue mints a signed token for the given user, expiring ttl from now.
func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Email: email,
	})
	return token.SignedString(m.secret)
}

// Verify checks the token's signature and expiry and returns the embedded
// identity. Any failure yields ErrInvalidToken without further detail.
func (m *TokenManager) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, Email: claims.Email}, nil
}
