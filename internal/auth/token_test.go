package auth

import (
	"regexp"
	"testing"
)

func TestNewOpaqueToken(t *testing.T) {
	raw, hash, err := NewOpaqueToken()
	if err != nil {
		t.Fatalf("NewOpaqueToken: %v", err)
	}
	if raw == "" || hash == "" {
		t.Fatal("empty token or hash")
	}
	if raw == hash {
		t.Error("raw token equals its hash")
	}
	if HashToken(raw) != hash {
		t.Error("hash does not match HashToken(raw)")
	}

	raw2, _, err := NewOpaqueToken()
	if err != nil {
		t.Fatal(err)
	}
	if raw == raw2 {
		t.Error("two tokens are identical")
	}
}

func TestNewClaimCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{10}$`)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewClaimCode()
		if err != nil {
			t.Fatalf("NewClaimCode: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("code %q does not match %s", code, pattern)
		}
		seen[code] = true
	}
	if len(seen) < 50 {
		t.Errorf("only %d distinct codes out of 50", len(seen))
	}
}

func TestNewClaimToken(t *testing.T) {
	token, err := NewClaimToken()
	if err != nil {
		t.Fatalf("NewClaimToken: %v", err)
	}
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(token))
	}
	if !regexp.MustCompile(`^[0-9a-f]{64}$`).MatchString(token) {
		t.Errorf("token %q is not lowercase hex", token)
	}
}
