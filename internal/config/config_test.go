package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.AppPort == "" {
		t.Error("AppPort default missing")
	}
	if cfg.SessionTTL() <= 0 {
		t.Errorf("SessionTTL() = %d, want positive default", cfg.SessionTTL())
	}
	if cfg.ReplicationFactor() <= 0 {
		t.Errorf("ReplicationFactor() = %d, want positive default", cfg.ReplicationFactor())
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: "http://localhost:3000, https://app.example.com ,"}
	got := cfg.AllowedOrigins()
	want := []string{"http://localhost:3000", "https://app.example.com"}
	if len(got) != len(want) {
		t.Fatalf("origins = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("origins[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseIntFallback(t *testing.T) {
	if got := parseInt("garbage", 7); got != 7 {
		t.Errorf("parseInt(garbage) = %d, want fallback 7", got)
	}
	if got := parseInt("-3", 7); got != 7 {
		t.Errorf("parseInt(-3) = %d, want fallback 7", got)
	}
	if got := parseInt("42", 7); got != 42 {
		t.Errorf("parseInt(42) = %d, want 42", got)
	}
}
