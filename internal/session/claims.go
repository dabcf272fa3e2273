package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by InspectToken for opaque tokens.
var ErrNotJWT = errors.New("token is not a JWT")

// Claims are the parts of the token the client looks at. The signature is
// not verified here; the server remains the authority.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp
}

// Expired reports whether the token's exp is at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// InspectToken reads the claims of a JWT without verifying it.
func InspectToken(token string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Claims{}, ErrNotJWT
	}

	var c Claims
	if sub, err := claims.GetSubject(); err == nil {
		c.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	if role, ok := claims["role"].(string); ok {
		c.Role = role
	}
	return c, nil
}

// IsPlaceholder reports whether token is one of the junk values a broken
// storage layer can leave behind.
func IsPlaceholder(token string) bool {
	switch token {
	case "", "undefined", "null":
		return true
	}
	return false
}
