package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is the coarse permission level carried in the access token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is the caller on whose behalf an operation runs. The zero value is
// the anonymous caller.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// NewIdentity returns an authenticated identity. An empty role defaults to RoleUser.
func NewIdentity(userID uuid.UUID, role Role) Identity {
	if role == "" {
		role = RoleUser
	}
	return Identity{UserID: userID, Role: role}
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil
}

func (i Identity) IsAdmin() bool {
	return i.IsAuthenticated() && i.Role == RoleAdmin
}

type identityKey struct{}

// WithIdentity stores the caller identity in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity placed by the auth interceptor, or
// the anonymous identity when the request carried no token.
func IdentityFromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
