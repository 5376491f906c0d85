package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stockflow/inventory-api/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(models.User{Username: "alice", IsAdmin: true})
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}

	claims, err := TokenClaims("Bearer " + token)
	if err != nil {
		t.Fatalf("error parsing token: %v", err)
	}

	sub, err := Subject(claims)
	if err != nil {
		t.Fatalf("error extracting subject: %v", err)
	}
	if sub != "alice" {
		t.Errorf("expected subject alice, got %q", sub)
	}
	if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
		t.Errorf("expected is_admin claim to be true")
	}
}

func TestTokenClaims_Rejections(t *testing.T) {
	token, _ := GenerateToken(models.User{Username: "alice"})

	cases := []struct {
		name  string
		value string
	}{
		{"missing Bearer prefix", token},
		{"garbage token", "Bearer not.a.token"},
		{"empty header", ""},
		{"tampered signature", "Bearer " + token[:len(token)-4] + "XXXX"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := TokenClaims(tc.value); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	Configure("", time.Nanosecond)
	defer Configure("", 15*time.Minute)

	token, err := GenerateToken(models.User{Username: "alice"})
	if err != nil {
		t.Fatalf("error generating token: %v", err)
	}

	time.Sleep(time.Second + 10*time.Millisecond)
	if _, err := TokenClaims("Bearer " + token); err == nil {
		t.Errorf("expected expired token to be rejected")
	}
}

func TestSubject_MissingClaim(t *testing.T) {
	if _, err := Subject(map[string]any{"is_admin": false}); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for missing sub, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("error hashing password: %v", err)
	}
	if hash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}

	if !CheckPassword(hash, "secret123") {
		t.Errorf("correct password rejected")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Errorf("wrong password accepted")
	}
}
