package model

import "context"

// Keys under which the session is persisted in a CredentialStore.
const (
	KeyToken  = "token"
	KeyRole   = "role"
	KeyName   = "name"
	KeyEmail  = "email"
	KeyUserID = "userId"

	credentialKeyPrefix = "credential:"
)

// SessionKeys lists every identity key cleared on logout.
var SessionKeys = []string{KeyToken, KeyRole, KeyName, KeyEmail, KeyUserID}

// CredentialKey returns the store key of the credential record for email.
func CredentialKey(email string) string {
	return credentialKeyPrefix + email
}

// CredentialStore is a namespaced string key/value persistence.
// Get returns ErrNotFound for missing keys; Delete of a missing key is not an error.
type CredentialStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CredentialRecord is created at signup and read at login.
type CredentialRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         Role   `json:"role"`
}
