package api

import (
	"context"
	"errors"
)

// ownerContextKey is the context key for the authenticated owner id.
type ownerContextKey struct{}

// ErrNoOwnerInContext indicates no owner id was found in the context.
var ErrNoOwnerInContext = errors.New("no owner in context")

// WithOwner returns a new context with the owner id attached.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerContextKey{}, ownerID)
}

// OwnerFromContext extracts the owner id from the context.
// Returns ErrNoOwnerInContext if not present or empty.
func OwnerFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ownerContextKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoOwnerInContext
	}
	return id, nil
}

// MustOwnerFromContext extracts the owner id or panics.
// Use only when middleware guarantees owner presence.
func MustOwnerFromContext(ctx context.Context) string {
	id, err := OwnerFromContext(ctx)
	if err != nil {
		panic("owner not in context: middleware misconfiguration")
	}
	return id
}
