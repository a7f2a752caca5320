package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/taskboardhq/taskboard/internal/model"
)

// ErrUserNotFound is returned by UserResolver when the token's user id no
// longer resolves to an account.
var ErrUserNotFound = errors.New("user not found")

// TokenVerifier validates a bearer token and returns the embedded user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserResolver loads the account referenced by a verified token.
// Implementations must return ErrUserNotFound (or a wrapped form) when the
// user does not exist.
type UserResolver interface {
	ResolveUser(ctx context.Context, userID string) (model.User, error)
}

type AuthConfig struct {
	Verifier TokenVerifier
	Resolver UserResolver
}

type Auth struct {
	cfg AuthConfig
}

func NewAuth(cfg AuthConfig) (*Auth, error) {
	if cfg.Verifier == nil {
		return nil, fmt.Errorf("middleware: Verifier is required")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("middleware: Resolver is required")
	}
	return &Auth{cfg: cfg}, nil
}

func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Health check and credential endpoints are reachable without a token.
		cleanPath := path.Clean(r.URL.Path)
		switch cleanPath {
		case "/health", "/api/auth/login", "/api/auth/register":
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := a.cfg.Verifier.Verify(tokenStr)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
			return
		}

		user, err := a.cfg.Resolver.ResolveUser(r.Context(), userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not found")
			} else {
				slog.ErrorContext(r.Context(), "user resolution failed", "error", err)
				writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return
		}

		ctx := SetUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
