// Package validate holds stateless input predicates applied before a
// request is allowed to reach the network.
package validate

import (
	"regexp"
	"strings"
)

// emailRe accepts anything of the shape local@domain.tld with no whitespace.
// Deliberately loose; the server performs the authoritative check.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether email has a plausible address shape.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// NormalizeEmail lowercases and trims an address the same way the backend
// does before lookup, so client-side validation sees what the server sees.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
