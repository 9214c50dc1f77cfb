package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims is what the client can learn from a backend-issued ID token.
type Claims struct {
	UID       string
	Email     string
	ExpiresAt time.Time // zero when the token carries no exp
}

// Expired reports whether the token's exp is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type idTokenClaims struct {
	UserID string `json:"user_id"`
	UID    string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Inspect decodes the claims of a JWT without verifying its signature.
// The client never holds the signing key; the backend verifies tokens.
func Inspect(tokenStr string) (*Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}
	var c idTokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &c); err != nil {
		return nil, err
	}
	uid := c.UserID
	if uid == "" {
		uid = c.UID
	}
	if uid == "" {
		uid = c.Subject
	}
	if uid == "" {
		return nil, errors.New("invalid claims")
	}
	out := &Claims{UID: uid, Email: c.Email}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}

// BearerHeader formats an Authorization header value.
func BearerHeader(token string) string {
	return "Bearer " + token
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization header")
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", errors.New("empty bearer token")
	}
	return tok, nil
}
