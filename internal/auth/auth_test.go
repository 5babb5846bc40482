package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestService(t *testing.T) *JWTService {
	t.Helper()
	svc := NewJWTService(Config{SecretKey: "test-secret"}, NewMemoryRepository())
	if _, err := svc.RegisterClient(context.Background(), "valuer-app", "Valuation wizard", "correct horse"); err != nil {
		t.Fatalf("register client: %v", err)
	}
	return svc
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.IssueToken(context.Background(), "valuer-app", "correct horse")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.ClientID != "valuer-app" || claims.Name != "Valuation wizard" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestJWTService_RegisterDuplicate(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.RegisterClient(context.Background(), "valuer-app", "again", "x")
	if err != ErrClientExists {
		t.Errorf("expected ErrClientExists, got %v", err)
	}
}

func TestJWTService_InvalidCredentials(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.IssueToken(context.Background(), "valuer-app", "wrong"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.IssueToken(context.Background(), "unknown", "correct horse"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestJWTService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := newTestService(t)

	other := NewJWTService(Config{SecretKey: "other-secret"}, NewMemoryRepository())
	_, _ = other.RegisterClient(context.Background(), "valuer-app", "x", "s")
	foreign, err := other.IssueToken(context.Background(), "valuer-app", "s")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ValidateToken(foreign); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	token, err := svc.IssueToken(context.Background(), "valuer-app", "correct horse")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := svc.ValidateToken("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	svc := newTestService(t)
	token, err := svc.IssueToken(context.Background(), "valuer-app", "correct horse")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	handler := Middleware(svc)(http.HandlerFunc(NewHandlers(svc).Me))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"valid token", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
}

func TestHandlers_Token(t *testing.T) {
	svc := newTestService(t)
	h := NewHandlers(svc)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", "{", http.StatusBadRequest},
		{"missing fields", `{"client_id":"valuer-app"}`, http.StatusBadRequest},
		{"wrong secret", `{"client_id":"valuer-app","client_secret":"nope"}`, http.StatusUnauthorized},
		{"ok", `{"client_id":"valuer-app","client_secret":"correct horse"}`, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Token(rec, req)

			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.status == http.StatusOK {
				var resp TokenResponse
				if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Token == "" {
					t.Errorf("expected token in response, got %q (%v)", rec.Body.String(), err)
				}
			}
		})
	}
}
