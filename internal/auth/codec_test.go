package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-32-bytes-long"

func signToken(t *testing.T, secret, subject string, exp time.Time, roles []string) string {
	t.Helper()
	claims := tokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestDecodeAndVerify(t *testing.T) {
	codec := NewCodec(testSecret, nil)

	token := signToken(t, testSecret, "user-7", time.Now().Add(time.Hour), []string{"admin", "ops"})
	claims, err := codec.DecodeAndVerify(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Subject != "user-7" {
		t.Fatalf("subject = %q", claims.Subject)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "admin" {
		t.Fatalf("roles = %v", claims.Roles)
	}
	if claims.ExpiresAt.Before(time.Now()) {
		t.Fatalf("expiry in the past: %v", claims.ExpiresAt)
	}
}

func TestDecodeWrongKeyIsMalformed(t *testing.T) {
	codec := NewCodec(testSecret, nil)

	token := signToken(t, "another-secret-entirely-differe", "user-7", time.Now().Add(time.Hour), nil)
	_, err := codec.DecodeAndVerify(token)
	if !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestDecodeGarbageIsMalformed(t *testing.T) {
	codec := NewCodec(testSecret, nil)

	_, err := codec.DecodeAndVerify("not.a.token")
	if !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestDecodeExpired(t *testing.T) {
	codec := NewCodec(testSecret, nil)

	token := signToken(t, testSecret, "user-7", time.Now().Add(-time.Minute), nil)
	_, err := codec.DecodeAndVerify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	codec := NewCodec(testSecret, nil)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid", signToken(t, testSecret, "user-7", time.Now().Add(time.Hour), nil), true},
		{"wrong key", signToken(t, "another-secret-entirely-differe", "user-7", time.Now().Add(time.Hour), nil), false},
		{"expired", signToken(t, testSecret, "user-7", time.Now().Add(-time.Minute), nil), false},
		{"empty subject", signToken(t, testSecret, "", time.Now().Add(time.Hour), nil), false},
		{"garbage", "lol", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := codec.Validate(tt.token); got != tt.want {
				t.Fatalf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}
