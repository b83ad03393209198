package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
)

func seedUser(t *testing.T, users *fakeUserStore, id string, email string) models.User {
	t.Helper()
	user := models.User{
		ID:           id,
		Name:         "Seed User",
		Email:        email,
		Role:         models.RoleUser,
		PasswordHash: []byte("$2a$04$fakehash"),
		Active:       true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestUpdateProfile(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())
	ctx := context.Background()
	user := seedUser(t, users, "u1", "one@example.com")

	updated, err := svc.UpdateProfile(ctx, user, UpdateProfileInput{Name: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "one@example.com", updated.Email, "empty email keeps the current value")

	updated, err = svc.UpdateProfile(ctx, updated, UpdateProfileInput{Email: "Renamed@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, "renamed@example.com", updated.Email)
}

func TestUpdateProfileValidation(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())
	ctx := context.Background()
	user := seedUser(t, users, "u1", "one@example.com")

	_, err := svc.UpdateProfile(ctx, user, UpdateProfileInput{Name: "x1"})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))

	_, err = svc.UpdateProfile(ctx, user, UpdateProfileInput{Email: "nope"})
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())
	ctx := context.Background()
	seedUser(t, users, "u1", "one@example.com")
	second := seedUser(t, users, "u2", "two@example.com")

	_, err := svc.UpdateProfile(ctx, second, UpdateProfileInput{Email: "one@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Fields, "email")
}

func TestSoftDeleteExcludesFromListing(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, zerolog.Nop())
	ctx := context.Background()
	seedUser(t, users, "u1", "one@example.com")
	seedUser(t, users, "u2", "two@example.com")

	require.NoError(t, svc.SoftDelete(ctx, "u1"))

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "u2", listed[0].ID)

	// the row is retained, just inactive
	assert.False(t, users.users["u1"].Active)

	// deleting twice reports absence
	err = svc.SoftDelete(ctx, "u1")
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}
