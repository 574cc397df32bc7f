package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/witcharon/salesconnfig/internal/platform/config"
)

func sign(t *testing.T, secret string, ttl time.Duration) string {
	t.Helper()
	claims := Claims{
		Email: "a@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestParseAccessToken(t *testing.T) {
	svc := NewTokenService(config.IdentityConfig{JWTSecret: "secret"})

	claims, err := svc.ParseAccessToken(sign(t, "secret", time.Hour))
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "a@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	svc := NewTokenService(config.IdentityConfig{JWTSecret: "secret"})

	if _, err := svc.ParseAccessToken(sign(t, "other-secret", time.Hour)); err == nil {
		t.Error("expected verification failure")
	}
}

func TestParseAccessToken_Expired(t *testing.T) {
	svc := NewTokenService(config.IdentityConfig{JWTSecret: "secret"})

	_, err := svc.ParseAccessToken(sign(t, "secret", -time.Minute))
	if err == nil {
		t.Fatal("expected expiry error")
	}
	if !IsExpired(err) {
		t.Errorf("expected IsExpired to report true, got %v", err)
	}
}
