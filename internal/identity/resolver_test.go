package identity

import (
	"net/http/httptest"
	"testing"
)

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{
			name:   "user header wins over forwarded",
			userID: "42",
			xff:    "1.2.3.4",
			want:   "user:42",
		},
		{
			name: "first forwarded entry",
			xff:  "1.2.3.4, 5.6.7.8",
			want: "ip:1.2.3.4",
		},
		{
			name: "forwarded entry trimmed",
			xff:  "  9.9.9.9 ,5.6.7.8",
			want: "ip:9.9.9.9",
		},
		{
			name:   "real ip when no forwarded",
			realIP: "7.7.7.7",
			want:   "ip:7.7.7.7",
		},
		{
			name:       "remote addr fallback",
			remoteAddr: "10.0.0.1:54321",
			want:       "ip:10.0.0.1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "10.0.0.2",
			want:       "ip:10.0.0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.userID != "" {
				r.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.xff != "" {
				r.Header.Set(HeaderForwardedFor, tt.xff)
			}
			if tt.realIP != "" {
				r.Header.Set(HeaderRealIP, tt.realIP)
			}

			if got := Resolve(r); got != tt.want {
				t.Fatalf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveNeverEmpty(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = ""
	if got := Resolve(r); got != "ip:unknown" {
		t.Fatalf("Resolve() = %q", got)
	}
}
