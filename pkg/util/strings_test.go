package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("42", 7); got != 42 {
		t.Fatalf("unexpected %d", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("nope", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestSplitHostPortDefault(t *testing.T) {
	host, port := SplitHostPortDefault("redis:6380", "localhost", 6379)
	if host != "redis" || port != 6380 {
		t.Fatalf("unexpected %s:%d", host, port)
	}
	host, port = SplitHostPortDefault("redis", "localhost", 6379)
	if host != "redis" || port != 6379 {
		t.Fatalf("unexpected %s:%d", host, port)
	}
	host, port = SplitHostPortDefault("", "localhost", 6379)
	if host != "localhost" || port != 6379 {
		t.Fatalf("unexpected %s:%d", host, port)
	}
}
