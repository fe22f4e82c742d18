package auth

import (
	"errors"
	"fmt"
	"time"

	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken covers bad structure and bad signatures.
	ErrMalformedToken = errors.New("auth: malformed token")
	// ErrExpiredToken means the token verified but its expiry is in the past.
	ErrExpiredToken = errors.New("auth: token expired")
)

// Claims is the verified payload of a signed token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	Roles     []string
}

type tokenClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Codec verifies signed tokens against a shared HMAC secret. The key is
// loaded once at startup and never changes; verification is stateless.
type Codec struct {
	key    []byte
	logger *applogger.Logger
}

// NewCodec creates a codec for the given shared secret.
func NewCodec(secret string, l *applogger.Logger) *Codec {
	return &Codec{key: []byte(secret), logger: l}
}

// DecodeAndVerify parses and verifies a token, returning its claims.
// Structure and signature failures map to ErrMalformedToken; a verified
// token past its expiry maps to ErrExpiredToken.
func (c *Codec) DecodeAndVerify(token string) (*Claims, error) {
	var tc tokenClaims
	_, err := jwt.ParseWithClaims(token, &tc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrExpiredToken, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims := &Claims{
		Subject: tc.Subject,
		Roles:   tc.Roles,
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}

// Validate reports whether the token is well-formed, unexpired, and
// carries a non-empty subject. Any decode failure is converted to false;
// nothing escapes to the caller.
func (c *Codec) Validate(token string) bool {
	claims, err := c.DecodeAndVerify(token)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("token rejected", applogger.Error(err))
		}
		return false
	}
	return claims.Subject != ""
}
