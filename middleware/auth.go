package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const principalContextKey contextKey = "principal"

// Principal is the decoded identity of a verified session token.
type Principal struct {
	ID       string
	Username string
	Type     string
}

type Authenticator struct {
	secret []byte
	logger *slog.Logger
}

func NewAuthenticator(secret string, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		logger: logger,
	}
}

// Authenticate verifies the bearer token on protected routes. A missing
// header, malformed token, bad signature or expired token short-circuits
// with 401 before the handler runs.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.verifyRequest(r)
		if err != nil {
			a.logger.Warn("token verification failed",
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
			writeAuthError(w, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token.")
			return
		}

		// Only the admin token type exists today; anything else is a token
		// minted for a purpose this API does not grant.
		if principal.Type != "admin" {
			writeAuthError(w, http.StatusForbidden, "Forbidden", "Insufficient permissions.")
			return
		}

		a.logger.Info("token successfully verified", slog.String("admin_id", principal.ID))

		ctx := context.WithValue(r.Context(), principalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) verifyRequest(r *http.Request) (*Principal, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return nil, errors.New("authorization header is not a bearer token")
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	principal := &Principal{}
	if id, ok := claims["id"].(string); ok {
		principal.ID = id
	}
	if username, ok := claims["username"].(string); ok {
		principal.Username = username
	}
	if tokenType, ok := claims["type"].(string); ok {
		principal.Type = tokenType
	}
	if principal.ID == "" {
		return nil, errors.New("token is missing the id claim")
	}
	return principal, nil
}

// PrincipalFromContext returns the verified principal attached by
// Authenticate, or an error when called outside a protected route.
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok {
		return nil, errors.New("principal not found in context")
	}
	return principal, nil
}

func writeAuthError(w http.ResponseWriter, status int, errText, message string) {
	body := struct {
		StatusCode int    `json:"statusCode"`
		Error      string `json:"error"`
		Message    string `json:"message"`
	}{
		StatusCode: status,
		Error:      errText,
		Message:    message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to write auth error response", slog.Any("error", err))
	}
}
