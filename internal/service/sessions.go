package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/taskdesk/internal/logger"
	"github.com/dtroode/taskdesk/internal/model"
)

// Sessions is the read/write/clear view of the session kept in a CredentialStore.
type Sessions struct {
	store  model.CredentialStore
	logger *logger.Logger
}

var _ model.SessionSource = (*Sessions)(nil)

func NewSessions(store model.CredentialStore, logger *logger.Logger) *Sessions {
	return &Sessions{store: store, logger: logger}
}

// Load returns the stored session, or model.ErrMissingSession when no token is stored.
func (s *Sessions) Load(ctx context.Context) (model.Session, error) {
	token, err := s.get(ctx, model.KeyToken)
	if err != nil {
		return model.Session{}, err
	}
	if token == "" {
		return model.Session{}, model.ErrMissingSession
	}

	session := model.Session{Token: token}
	fields := []struct {
		key string
		dst *string
	}{
		{model.KeyName, &session.DisplayName},
		{model.KeyEmail, &session.Email},
		{model.KeyUserID, &session.UserID},
	}
	for _, f := range fields {
		if *f.dst, err = s.get(ctx, f.key); err != nil {
			return model.Session{}, err
		}
	}

	role, err := s.get(ctx, model.KeyRole)
	if err != nil {
		return model.Session{}, err
	}
	session.Role = model.Role(role)

	return session, nil
}

// Save persists every session field; empty fields are removed from the store.
func (s *Sessions) Save(ctx context.Context, session model.Session) error {
	values := map[string]string{
		model.KeyToken:  session.Token,
		model.KeyRole:   string(session.Role),
		model.KeyName:   session.DisplayName,
		model.KeyEmail:  session.Email,
		model.KeyUserID: session.UserID,
	}

	for _, key := range model.SessionKeys {
		var err error
		if v := values[key]; v != "" {
			err = s.store.Set(ctx, key, v)
		} else {
			err = s.store.Delete(ctx, key)
		}
		if err != nil {
			return fmt.Errorf("failed to save session %s: %w", key, err)
		}
	}

	return nil
}

// Clear removes every identity key. It keeps going past failures so that as
// much of the session as possible is gone, and reports all of them.
func (s *Sessions) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range model.SessionKeys {
		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("failed to clear session %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Credentials returns the stored token and email for the request authorizer.
func (s *Sessions) Credentials(ctx context.Context) (string, string, error) {
	token, err := s.get(ctx, model.KeyToken)
	if err != nil {
		return "", "", err
	}
	email, err := s.get(ctx, model.KeyEmail)
	if err != nil {
		return "", "", err
	}
	return token, email, nil
}

// get reads key, mapping a missing key to the empty string.
func (s *Sessions) get(ctx context.Context, key string) (string, error) {
	v, err := s.store.Get(ctx, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session %s: %w", key, err)
	}
	return v, nil
}
