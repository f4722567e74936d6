package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/soaresdev/userhub/internal/auth"
)

func TestManager_GenerateAndVerify(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	token, err := m.Generate("user-123")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Fatalf("got user id %q, want %q", claims.UserID, "user-123")
	}

	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected a future expiry, got %v", claims.ExpiresAt)
	}
}

func TestManager_RejectsTamperedToken(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	token, err := m.Generate("user-123")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// flip a byte in the signature segment
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = m.Verify(tampered)
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("test-secret-key", -time.Minute)

	token, err := m.Generate("user-123")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	_, err = m.Verify(token)
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for expired token, got %v", err)
	}
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	signer := auth.NewManager("secret-a", time.Hour)
	verifier := auth.NewManager("secret-b", time.Hour)

	token, err := signer.Generate("user-123")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, auth.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestManager_RejectsGarbage(t *testing.T) {
	m := auth.NewManager("test-secret-key", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := m.Verify(tok); !errors.Is(err, auth.ErrInvalidToken) {
			t.Fatalf("token %q: want ErrInvalidToken, got %v", tok, err)
		}
	}
}
