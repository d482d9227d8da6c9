package auth

import (
	"context"
	"errors"
)

type contextKey string

const userContextKey contextKey = "auth_user"

// UserContext carries the authenticated identity through a request.
// The core trusts this identity; credential validation happens upstream.
type UserContext struct {
	UserID   string
	Username string
	Email    string
}

// WithUser attaches the authenticated user to the context
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the authenticated user from the context
func GetUserFromContext(ctx context.Context) (UserContext, error) {
	user, ok := ctx.Value(userContextKey).(UserContext)
	if !ok || user.UserID == "" {
		return UserContext{}, errors.New("no authenticated user in context")
	}
	return user, nil
}
