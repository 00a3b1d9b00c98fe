// Package auth provides session token generation and validation.
//
// SESSION FLOW:
// 1. Client POSTs /api/auth/register or /api/auth/login
// 2. Server verifies credentials, signs a JWT with the user ID as Subject
// 3. The JWT is stored in an HttpOnly cookie (SessionCookieName)
// 4. On subsequent requests, middleware reads the cookie, validates the JWT,
//    and sets the userID in the request context
//
// WHY JWT FOR SESSIONS?
// The token is stateless - no session table, no store to garbage-collect.
// Everything needed (userID, expiry) is inside the signed token, and the
// HMAC signature means nobody can mint or alter one without the secret.
// The trade-off is that logout is client-side only: clearing the cookie
// ends the session, but the token itself stays valid until it expires.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "makerburg_session"

// DefaultSessionTTL keeps a session alive for a week - these are browsing
// sessions for a content app, not short-lived API access tokens.
const DefaultSessionTTL = 7 * 24 * time.Hour

const tokenIssuer = "makerburg"

// TokenService signs and validates session tokens.
//
// It holds the HMAC secret used for both operations - the same secret must
// be used to sign and verify. Rotate it to invalidate all live sessions.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and session
// lifetime. The secret should be at least 32 bytes of random data in
// production (e.g. SESSION_SECRET=$(openssl rand -hex 32)). A zero ttl
// falls back to DefaultSessionTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured session lifetime, used by handlers to set the
// cookie MaxAge to match the token expiry.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// claims embeds jwt.RegisteredClaims; the user ID lives in "sub" (Subject),
// the standard claim for identifying who a token belongs to.
type claims struct {
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given userID.
//
// Signing algorithm: HS256 (HMAC-SHA256) - symmetric, fast, and fine for a
// single-server deployment where signer and verifier share the secret.
func (s *TokenService) Generate(userID string) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token string.
// Returns the userID (the "sub" claim) if the token is valid.
//
// jwt.WithValidMethods pins the algorithm to HS256 - without it, an
// attacker could submit a token claiming a different algorithm ("none",
// or RS256 with the public key as HMAC secret) and the library might
// accept it. Issuer and expiry are checked as well.
func (s *TokenService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
