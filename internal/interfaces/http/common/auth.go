package common

import "context"

type contextKey string

const authUserContextKey contextKey = "authUser"

// RoleAdmin is the role claim granting access to moderation endpoints.
const RoleAdmin = "admin"

// AuthenticatedUser represents the JWT-derived principal.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
	Role     string `json:"role,omitempty"`
}

// DisplayName returns the best human-readable name of the user.
func (u AuthenticatedUser) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Username != "":
		return u.Username
	}
	return ""
}

// IsAdmin reports whether the user carries the admin role.
func (u AuthenticatedUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}
