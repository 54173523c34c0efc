package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenManager("test-secret", "spendlog-test", time.Hour)

	token, err := tokens.Issue("a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	subject, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if subject != "a@example.com" {
		t.Fatalf("subject = %q, want a@example.com", subject)
	}
}

func TestTokenExpired(t *testing.T) {
	tokens := NewTokenManager("test-secret", "spendlog-test", -time.Minute)

	token, err := tokens.Issue("a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := tokens.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-one", "spendlog-test", time.Hour)
	verifier := NewTokenManager("secret-two", "spendlog-test", time.Hour)

	token, err := issuer.Issue("a@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("got %v, want ErrInvalidToken", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	tokens := NewTokenManager("test-secret", "spendlog-test", time.Hour)

	for _, garbage := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tokens.Validate(garbage); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Validate(%q) = %v, want ErrInvalidToken", garbage, err)
		}
	}
}
