package model

import "context"

// Role is the authorization level carried by a session.
type Role string

const (
	// RoleAdmin may see and mutate every task.
	RoleAdmin Role = "admin"
	// RoleUser only sees tasks assigned to them.
	RoleUser Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Session is the authenticated identity held between commands.
type Session struct {
	Token       string
	Role        Role
	UserID      string
	Email       string
	DisplayName string
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// SessionState enumerates the session lifecycle states.
type SessionState string

const (
	StateAnonymous      SessionState = "anonymous"
	StateAuthenticating SessionState = "authenticating"
	StateAuthenticated  SessionState = "authenticated"
	StateAuthError      SessionState = "auth_error"
)

// SessionSource loads the current session.
type SessionSource interface {
	Load(ctx context.Context) (Session, error)
}

// Route names a screen a controller can send the caller to.
type Route string

const (
	RouteNone  Route = ""
	RouteLogin Route = "login"
	RouteAdmin Route = "admin"
	RouteUser  Route = "user"
)
