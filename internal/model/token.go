package model

import "time"

// TokenManager issues and parses session tokens.
type TokenManager interface {
	Issue(session Session) (string, error)
	Parse(token string) (TokenClaims, error)
}

// TokenClaims is what a session token asserts about its holder.
type TokenClaims struct {
	ID       string
	Subject  string
	Role     Role
	Email    string
	Name     string
	IssuedAt time.Time
}
