package filter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/auth"
	"github.com/Ak47-369/bookticket-api-gateway/internal/identity"
	"github.com/Ak47-369/bookticket-api-gateway/internal/ratelimit"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "pipeline-test-secret-32-bytes-ok"

type fakeLimiter struct {
	dec    ratelimit.Decision
	gotKey string
}

func (f *fakeLimiter) CheckAndConsume(_ context.Context, key string, _ int) ratelimit.Decision {
	f.gotKey = key
	return f.dec
}

func (f *fakeLimiter) Inspect(context.Context, string) (ratelimit.BucketState, error) {
	return ratelimit.BucketState{}, nil
}

func (f *fakeLimiter) Reset(context.Context, string) error { return nil }

func signTestToken(t *testing.T, secret, subject string, roles []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if roles != nil {
		claims["roles"] = roles
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

// runPipeline executes the full chain against one request and reports
// whether the terminal handler ran.
func runPipeline(t *testing.T, lim ratelimit.Limiter, req *http.Request) (*httptest.ResponseRecorder, *http.Request, bool) {
	t.Helper()

	codec := auth.NewCodec(testSecret, nil)
	chain := NewChain(
		NewRateLimit(lim, nil, nil, nil),
		NewAuth(codec, []string{"/api"}, nil, nil, nil),
	)

	forwarded := false
	var seenReq *http.Request
	terminal := func(c echo.Context) error {
		forwarded = true
		seenReq = c.Request()
		return c.NoContent(http.StatusOK)
	}

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := chain.Then(terminal)(c); err != nil {
		t.Fatalf("pipeline error: %v", err)
	}
	return rec, seenReq, forwarded
}

func TestRejectionPayloadIsExact(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: false, Remaining: 0}}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)

	rec, _, forwarded := runPipeline(t, lim, req)

	if forwarded {
		t.Fatal("rejected request must not reach the terminal handler")
	}
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}
	want := `{"error":"Rate limit exceeded","message":"Too many requests. Please try again later."}`
	if strings.TrimSpace(rec.Body.String()) != want {
		t.Fatalf("body = %q", rec.Body.String())
	}
	if got := rec.Header().Get("X-RateLimit-Retry-After"); got != "60" {
		t.Fatalf("X-RateLimit-Retry-After = %q", got)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("Retry-After = %q", got)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("content type = %q", ct)
	}
}

func TestRateLimitRunsBeforeAuth(t *testing.T) {
	// Exhausted bucket plus a garbage token: the verdict must be 429,
	// never 401, because the rate check terminates the chain first.
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: false}}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-token")

	rec, _, _ := runPipeline(t, lim, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
}

func TestRemainingHeaderTwoDecimals(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: true, Remaining: 42.5}}
	req := httptest.NewRequest(http.MethodGet, "/public/ping", nil)

	rec, _, forwarded := runPipeline(t, lim, req)

	if !forwarded {
		t.Fatal("admitted request should be forwarded")
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "42.50" {
		t.Fatalf("X-RateLimit-Remaining = %q", got)
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: true, Remaining: 10}}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)

	rec, _, forwarded := runPipeline(t, lim, req)

	if forwarded {
		t.Fatal("unauthenticated request must not be forwarded")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProtectedRouteWithBadToken(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: true, Remaining: 10}}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signTestToken(t, "wrong-secret-entirely-different!", "7", nil))

	rec, _, forwarded := runPipeline(t, lim, req)

	if forwarded {
		t.Fatal("bad token must not be forwarded")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestValidTokenEnrichesRequest(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: true, Remaining: 10}}
	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signTestToken(t, testSecret, "7", []string{"admin", "ops"}))

	rec, seen, forwarded := runPipeline(t, lim, req)

	if !forwarded {
		t.Fatalf("valid token should be forwarded, status = %d body = %s", rec.Code, rec.Body.String())
	}
	if got := seen.Header.Get(identity.HeaderUserID); got != "7" {
		t.Fatalf("X-User-ID = %q", got)
	}
	if got := seen.Header.Get("X-User-Roles"); got != "admin,ops" {
		t.Fatalf("X-User-Roles = %q", got)
	}
}

func TestUnprotectedRouteSkipsAuth(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: true, Remaining: 10}}
	req := httptest.NewRequest(http.MethodGet, "/public/ping", nil)

	_, _, forwarded := runPipeline(t, lim, req)

	if !forwarded {
		t.Fatal("unprotected route should not require a token")
	}
}

func TestBucketKeyFollowsIdentity(t *testing.T) {
	lim := &fakeLimiter{dec: ratelimit.Decision{Allowed: true, Remaining: 10}}
	req := httptest.NewRequest(http.MethodGet, "/public/ping", nil)
	req.Header.Set(identity.HeaderUserID, "42")

	runPipeline(t, lim, req)

	if lim.gotKey != "user:42" {
		t.Fatalf("bucket key = %q", lim.gotKey)
	}
}
