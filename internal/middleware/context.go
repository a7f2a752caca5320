package middleware

import (
	"context"
	"net/http"

	"github.com/taskboardhq/taskboard/internal/model"
)

type contextKey string

const userKey contextKey = "user"

// SetUser stores the authenticated user on the request context.
func SetUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the authenticated user; ok is false on unauthenticated
// requests.
func GetUser(r *http.Request) (model.User, bool) {
	u, ok := r.Context().Value(userKey).(model.User)
	return u, ok
}

// GetUserID is a shorthand for the authenticated user's id.
func GetUserID(r *http.Request) string {
	u, _ := r.Context().Value(userKey).(model.User)
	return u.ID
}
