package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/ratelimit"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/labstack/echo/v4"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func newAdminEcho(t *testing.T, lim ratelimit.Limiter) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewAdminHandler(testLogger(t), lim, nil).RegisterRoutes(e)
	return e
}

func TestHealthWithoutRedis(t *testing.T) {
	lim := ratelimit.NewMemoryLimiter(ratelimit.Config{Capacity: 10, TokensPerSecond: 1, StoreTimeout: time.Second})
	defer lim.Stop()
	e := newAdminEcho(t, lim)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestInspectMissingBucket(t *testing.T) {
	lim := ratelimit.NewMemoryLimiter(ratelimit.Config{Capacity: 10, TokensPerSecond: 1, StoreTimeout: time.Second})
	defer lim.Stop()
	e := newAdminEcho(t, lim)

	req := httptest.NewRequest(http.MethodGet, "/admin/ratelimit/user:404", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestInspectExistingBucket(t *testing.T) {
	lim := ratelimit.NewMemoryLimiter(ratelimit.Config{Capacity: 10, TokensPerSecond: 1, StoreTimeout: time.Second})
	defer lim.Stop()
	lim.CheckAndConsume(context.Background(), "user:42", 1)
	e := newAdminEcho(t, lim)

	req := httptest.NewRequest(http.MethodGet, "/admin/ratelimit/user:42", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Data struct {
			Key    string  `json:"key"`
			Tokens float64 `json:"tokens"`
			Exists bool    `json:"exists"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Data.Key != "user:42" || !resp.Data.Exists {
		t.Fatalf("unexpected view: %+v", resp.Data)
	}
	if resp.Data.Tokens >= 10 {
		t.Fatalf("tokens = %v, want below capacity after a consume", resp.Data.Tokens)
	}
}

func TestResetBucket(t *testing.T) {
	lim := ratelimit.NewMemoryLimiter(ratelimit.Config{Capacity: 10, TokensPerSecond: 1, StoreTimeout: time.Second})
	defer lim.Stop()
	lim.CheckAndConsume(context.Background(), "ip:10.0.0.1", 1)
	e := newAdminEcho(t, lim)

	req := httptest.NewRequest(http.MethodDelete, "/admin/ratelimit/ip:10.0.0.1", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	state, err := lim.Inspect(context.Background(), "ip:10.0.0.1")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if state.Exists {
		t.Fatal("bucket still exists after reset")
	}
}
