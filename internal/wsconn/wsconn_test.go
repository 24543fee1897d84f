package wsconn

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("wss://example.test/feed")

	if cfg.URL != "wss://example.test/feed" {
		t.Errorf("URL = %q, want wss://example.test/feed", cfg.URL)
	}
	if cfg.InitialBackoff != 1*time.Second {
		t.Errorf("InitialBackoff = %v, want 1s", cfg.InitialBackoff)
	}
	if cfg.MaxBackoff != 30*time.Second {
		t.Errorf("MaxBackoff = %v, want 30s", cfg.MaxBackoff)
	}
	if cfg.MaxReconnects != 0 {
		t.Errorf("MaxReconnects = %d, want 0 (infinite)", cfg.MaxReconnects)
	}
}

func TestNewStartsDisconnected(t *testing.T) {
	c := New(DefaultConfig("wss://example.test/feed"))

	if got := c.State(); got != StateDisconnected {
		t.Errorf("State() = %q, want %q", got, StateDisconnected)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	c := New(DefaultConfig("wss://example.test/feed"))

	if err := c.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if got := c.State(); got != StateDisconnected {
		t.Errorf("State() after Close = %q, want %q", got, StateDisconnected)
	}
}
