package api

import (
	"context"
	"time"
)

// QueryTimeout is the default timeout for database queries
const QueryTimeout = 10 * time.Second

// WithQueryTimeout creates a context with query timeout
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, QueryTimeout)
}

// UserIdentity is the authenticated caller of a request
type UserIdentity struct {
	UserID string `json:"userId"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

type identityContextKey struct{}

// WithIdentity attaches the caller to ctx
func WithIdentity(ctx context.Context, id UserIdentity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFrom returns the caller attached by the auth middleware
func IdentityFrom(ctx context.Context) (UserIdentity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(UserIdentity)
	return id, ok && id.UserID != ""
}
