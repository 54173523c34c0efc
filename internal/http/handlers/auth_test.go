package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/spendlog/spendlog-be/internal/auth"
	"github.com/spendlog/spendlog-be/internal/http/respond"
	"github.com/spendlog/spendlog-be/internal/storage/memory"
)

func newAuthTestServer(t *testing.T) (*httptest.Server, *auth.TokenManager) {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", "spendlog-test", time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := chi.NewRouter()
	NewAuthHandler(memory.New(), tokens, logger).Register(r)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, tokens
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) respond.Envelope {
	t.Helper()
	var env respond.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRegisterAndLogin(t *testing.T) {
	ts, tokens := newAuthTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/register", `{"email":"a@example.com","password":"secret"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/auth/login", `{"email":"a@example.com","password":"secret"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}

	env := decodeEnvelope(t, resp)
	data, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data shape: %#v", env.Data)
	}
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}

	subject, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if subject != "a@example.com" {
		t.Fatalf("token subject = %q, want registered email", subject)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts, _ := newAuthTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/register", `{"email":"a@example.com","password":"secret"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/auth/register", `{"email":"a@example.com","password":"other"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want 409", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != "email already registered" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	ts, _ := newAuthTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"blank email", `{"email":"  ","password":"secret"}`},
		{"blank password", `{"email":"a@example.com","password":""}`},
		{"bad json", `{"email":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/auth/register", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestLoginFailures(t *testing.T) {
	ts, _ := newAuthTestServer(t)

	resp := postJSON(t, ts.URL+"/auth/register", `{"email":"a@example.com","password":"secret"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/auth/login", `{"email":"nobody@example.com","password":"secret"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown email status = %d, want 401", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != "invalid email" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	resp = postJSON(t, ts.URL+"/auth/login", `{"email":"a@example.com","password":"wrong"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d, want 401", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Message != "invalid password" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}
