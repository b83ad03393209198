package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateDuplicateDerivesFieldFromConstraint(t *testing.T) {
	err := translateDuplicate(&pgconn.PgError{
		Code:           "23505",
		ConstraintName: "users_email_key",
	})

	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
}

func TestTranslateDuplicateHandlesWrappedErrors(t *testing.T) {
	inner := &pgconn.PgError{Code: "23505", ConstraintName: "users_name_key"}
	err := translateDuplicate(fmt.Errorf("insert user: %w", inner))

	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "name", dup.Field)
}

func TestTranslateDuplicatePassesThroughOtherErrors(t *testing.T) {
	sentinel := errors.New("connection reset")
	assert.Same(t, sentinel, translateDuplicate(sentinel))

	notUnique := &pgconn.PgError{Code: "23503", ConstraintName: "conversations_user_id_fkey"}
	assert.Same(t, error(notUnique), translateDuplicate(notUnique))

	assert.NoError(t, translateDuplicate(nil))
}

func TestTranslateDuplicateFallsBackToEmail(t *testing.T) {
	err := translateDuplicate(&pgconn.PgError{Code: "23505", ConstraintName: "users__key"})

	var dup *DuplicateError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "email", dup.Field)
}
