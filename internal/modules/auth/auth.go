package auth

import (
	"context"

	"github.com/georgemunganga/dalin-backend/internal/modules/profile"
	"github.com/google/uuid"
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
	ParseToken(tokenString string) (*Identity, error)
}

// Identity is the authenticated caller attached to every request context.
type Identity struct {
	CustomerID uuid.UUID
	Role       profile.Role
}

// IsStaff reports whether the caller may operate the fulfillment pipeline.
func (i Identity) IsStaff() bool { return i.Role == profile.RoleStaff }

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller identity set by the Authenticate middleware.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// CallerID returns the authenticated customer id, for handlers that cannot
// import this package.
func CallerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := FromContext(ctx)
	return id.CustomerID, ok
}
