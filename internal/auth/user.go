package auth

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/church-finance/internal/storage/profile"
)

// SchemeName is the OpenAPI security scheme every protected operation uses.
const SchemeName = "session"

// ScopeAdmin restricts an operation to admins.
const ScopeAdmin = "admin"

var (
	// RequireSession allows any authenticated user.
	RequireSession = []map[string][]string{{SchemeName: {}}}
	// RequireAdmin allows admins and the service principal.
	RequireAdmin = []map[string][]string{{SchemeName: {ScopeAdmin}}}
)

// User is the authenticated caller.
type User struct {
	ID      uuid.UUID
	Email   string
	Role    string
	Service bool
}

func (u *User) IsAdmin() bool {
	return u.Service || u.Role == profile.RoleAdmin
}

// ActorID is the id recorded in created_by columns, nil for the service
// principal.
func (u *User) ActorID() *uuid.UUID {
	if u == nil || u.Service || u.ID == uuid.Nil {
		return nil
	}
	id := u.ID
	return &id
}

type userKey struct{}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns nil on unauthenticated operations.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userKey{}).(*User)
	return u
}
