package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/taskdesk/internal/mocks"
	"github.com/dtroode/taskdesk/internal/model"
	"github.com/dtroode/taskdesk/internal/repository/memory"
	"github.com/dtroode/taskdesk/internal/testutil"
)

func TestSessions_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := NewSessions(store, testutil.MakeNoopLogger())

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, model.ErrMissingSession)

	want := model.Session{Token: "tok", Role: model.RoleUser, UserID: "u1", Email: "a@b.c", DisplayName: "A"}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving a session without a user id drops the old one.
	admin := model.Session{Token: "tok2", Role: model.RoleAdmin, Email: "admin@ex.com", DisplayName: "Admin"}
	require.NoError(t, s.Save(ctx, admin))

	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, admin, got)
}

func TestSessions_Credentials(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	s := NewSessions(store, testutil.MakeNoopLogger())

	token, email, err := s.Credentials(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, email)

	require.NoError(t, store.Set(ctx, model.KeyToken, "tok"))
	require.NoError(t, store.Set(ctx, model.KeyEmail, "a@b.c"))

	token, email, err = s.Credentials(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "a@b.c", email)
}

func TestSessions_StoreFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")

	store := mocks.NewCredentialStore(t)
	store.On("Get", mock.Anything, model.KeyToken).Return("", boom)

	s := NewSessions(store, testutil.MakeNoopLogger())

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, boom)

	_, _, err = s.Credentials(ctx)
	require.ErrorIs(t, err, boom)
}

func TestSessions_ClearContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	store := mocks.NewCredentialStore(t)
	for _, key := range model.SessionKeys {
		if key == model.KeyRole {
			store.On("Delete", mock.Anything, key).Return(boom).Once()
			continue
		}
		store.On("Delete", mock.Anything, key).Return(nil).Once()
	}

	err := NewSessions(store, testutil.MakeNoopLogger()).Clear(ctx)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), model.KeyRole)
}

func TestRecords_GetCorrupt(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Set(ctx, model.CredentialKey("a@b.c"), "{not json"))

	_, err := NewRecords(store).Get(ctx, "a@b.c")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrNotFound)

	_, err = NewRecords(store).Get(ctx, "missing@b.c")
	require.ErrorIs(t, err, model.ErrNotFound)
}
