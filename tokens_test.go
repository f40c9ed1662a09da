package studioclient

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, exp *time.Time) string {
	t.Helper()

	claims := jwt.MapClaims{"sub": "user@example.com"}
	if exp != nil {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	return token
}

func TestTokenExpiresAt(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, &exp)

	got, err := TokenExpiresAt(token)
	if err != nil {
		t.Fatalf("TokenExpiresAt failed: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}
}

func TestTokenExpiresAtErrors(t *testing.T) {
	if _, err := TokenExpiresAt(""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty token: err = %v, want ErrNoToken", err)
	}
	if _, err := TokenExpiresAt("garbage"); err == nil {
		t.Error("garbage token: expected error")
	}
	if _, err := TokenExpiresAt(signedToken(t, nil)); !errors.Is(err, ErrNoExpiry) {
		t.Errorf("no expiry claim: err = %v, want ErrNoExpiry", err)
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	if TokenExpired(signedToken(t, &future), now) {
		t.Error("future token reported expired")
	}
	if !TokenExpired(signedToken(t, &past), now) {
		t.Error("past token reported valid")
	}
	if !TokenExpired("garbage", now) {
		t.Error("unparseable token must be treated as expired")
	}
	if !TokenExpired("", now) {
		t.Error("empty token must be treated as expired")
	}
}
