// Package auth provides password hashing, session tokens and the
// authenticated-user context.
package auth

import (
	"context"

	"github.com/abhisek/ecoquest/internal/profile"
)

type userKey struct{}

// WithUser returns a context carrying the authenticated user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFrom returns the authenticated user id, or ErrNotAuthenticated.
func UserFrom(ctx context.Context) (string, error) {
	id, _ := ctx.Value(userKey{}).(string)
	if id == "" {
		return "", profile.ErrNotAuthenticated
	}
	return id, nil
}
