package auth

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const identityKey contextKey = iota

// Identity is the authenticated caller of a request.
type Identity struct {
	Owner uuid.UUID
	// Token is the raw bearer token, forwarded to the hosted backend so its
	// row-level rules apply to the caller.
	Token string
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
