package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func adminClaims(expiresIn time.Duration) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"id":       "admin-1",
		"username": "superadmin",
		"type":     "admin",
		"exp":      now.Add(expiresIn).Unix(),
		"iat":      now.Unix(),
	}
}

func runProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	auth := NewAuthenticator(testSecret, slog.New(slog.NewTextHandler(io.Discard, nil)))

	handlerCalled := false
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, handlerCalled
}

func TestAuthenticateValidToken(t *testing.T) {
	token := signToken(t, testSecret, adminClaims(time.Hour))

	rec, called := runProtected(t, "Bearer "+token)
	if !called {
		t.Fatal("handler was not reached with a valid token")
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestAuthenticateRejections(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not a bearer token", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"expired token", "Bearer " + signToken(t, testSecret, adminClaims(-time.Hour)), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", adminClaims(time.Hour)), http.StatusUnauthorized},
		{
			"non-admin token type",
			"Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"id":   "user-1",
				"type": "viewer",
				"exp":  time.Now().Add(time.Hour).Unix(),
			}),
			http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, called := runProtected(t, tt.authHeader)
			if called {
				t.Error("handler must not run when the gate rejects the request")
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body struct {
				StatusCode int    `json:"statusCode"`
				Error      string `json:"error"`
				Message    string `json:"message"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.StatusCode != tt.wantStatus {
				t.Errorf("body statusCode = %d, want %d", body.StatusCode, tt.wantStatus)
			}
			if body.Message == "" {
				t.Error("error body missing message")
			}
		})
	}
}

func TestPrincipalFromContext(t *testing.T) {
	auth := NewAuthenticator(testSecret, slog.New(slog.NewTextHandler(io.Discard, nil)))
	token := signToken(t, testSecret, adminClaims(time.Hour))

	var principal *Principal
	handler := auth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := PrincipalFromContext(r.Context())
		if err != nil {
			t.Errorf("PrincipalFromContext returned error: %v", err)
			return
		}
		principal = p
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if principal == nil {
		t.Fatal("principal was not attached to the request context")
	}
	if principal.ID != "admin-1" || principal.Username != "superadmin" || principal.Type != "admin" {
		t.Errorf("principal = %+v, want admin-1/superadmin/admin", principal)
	}
}
