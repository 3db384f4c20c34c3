package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/taskdesk/internal/model"
)

var _ model.CredentialStore = (*CredentialRepository)(nil)

// CredentialRepository stores credentials in a shared Postgres table,
// scoped by namespace so several profiles can share one database.
type CredentialRepository struct {
	db        *Connection
	namespace string
}

func NewCredentialRepository(db *Connection, namespace string) *CredentialRepository {
	return &CredentialRepository{
		db:        db,
		namespace: namespace,
	}
}

func (r *CredentialRepository) Get(ctx context.Context, key string) (string, error) {
	const query = `SELECT value FROM credentials WHERE namespace = $1 AND key = $2`

	var value string
	err := r.db.QueryRow(ctx, query, r.namespace, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrNotFound
		}
		return "", fmt.Errorf("failed to get credential %q: %w", key, err)
	}

	return value, nil
}

func (r *CredentialRepository) Set(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO credentials (namespace, key, value, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
    `

	if _, err := r.db.Exec(ctx, query, r.namespace, key, value); err != nil {
		return fmt.Errorf("failed to set credential %q: %w", key, err)
	}

	return nil
}

func (r *CredentialRepository) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM credentials WHERE namespace = $1 AND key = $2`

	if _, err := r.db.Exec(ctx, query, r.namespace, key); err != nil {
		return fmt.Errorf("failed to delete credential %q: %w", key, err)
	}

	return nil
}
