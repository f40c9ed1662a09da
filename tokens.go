package studioclient

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiresAt extracts the expiry timestamp from an auth token without
// verifying its signature. The token is opaque to the client; the server is
// the only party that validates it. This helper exists so the UI can prompt
// for re-login before a request is bound to fail with a 401.
func TokenExpiresAt(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("failed to parse token: %w", err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read expiry claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// TokenExpired reports whether the token's expiry claim is at or before now.
// Tokens that cannot be parsed or carry no expiry are treated as expired.
func TokenExpired(token string, now time.Time) bool {
	exp, err := TokenExpiresAt(token)
	if err != nil {
		return true
	}
	return !exp.After(now)
}
