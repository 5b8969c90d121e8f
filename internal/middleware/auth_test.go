package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/util"

	"github.com/rs/zerolog"
)

const testSecret = "test-secret"

func protected(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := r.Context().Value(UserContextKey).(string); ok {
			gotUserID = id
		}
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(testSecret, zerolog.Nop())(next), &gotUserID
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	handler, gotUserID := protected(t)

	token, err := util.CreateJWT("user-123", "a@x.com", testSecret)
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *gotUserID != "user-123" {
		t.Fatalf("expected user-123 in context, got %q", *gotUserID)
	}
}

func TestAuthMiddlewareRejects(t *testing.T) {
	badToken, err := util.CreateJWT("user-123", "a@x.com", "other-secret")
	if err != nil {
		t.Fatalf("creating token: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"malformed token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + badToken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, gotUserID := protected(t)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if *gotUserID != "" {
				t.Fatal("handler must not run for rejected requests")
			}
		})
	}
}
