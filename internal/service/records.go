package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dtroode/taskdesk/internal/model"
)

// Records reads and writes per-email credential records.
type Records struct {
	store model.CredentialStore
}

func NewRecords(store model.CredentialStore) *Records {
	return &Records{store: store}
}

// Get returns the record for email, or model.ErrNotFound.
func (r *Records) Get(ctx context.Context, email string) (model.CredentialRecord, error) {
	raw, err := r.store.Get(ctx, model.CredentialKey(email))
	if err != nil {
		return model.CredentialRecord{}, err
	}

	var rec model.CredentialRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return model.CredentialRecord{}, fmt.Errorf("failed to decode credential record: %w", err)
	}
	return rec, nil
}

// Put stores rec under its email.
func (r *Records) Put(ctx context.Context, rec model.CredentialRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode credential record: %w", err)
	}

	if err := r.store.Set(ctx, model.CredentialKey(rec.Email), string(raw)); err != nil {
		return fmt.Errorf("failed to store credential record: %w", err)
	}
	return nil
}
