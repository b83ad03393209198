package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/P72i1ip/llm-chat-history-api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// DuplicateError reports a unique-constraint violation with the column that
// actually conflicted, derived from the constraint name.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return e.Field + " is already in use"
}

const pgUniqueViolation = "23505"

func translateDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return err
	}

	// constraint names follow <table>_<column>_key
	field := strings.TrimPrefix(pgErr.ConstraintName, "users_")
	field = strings.TrimSuffix(field, "_key")
	if field == "" {
		field = "email"
	}
	return &DuplicateError{Field: field}
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, name, email, role, password_hash, password_changed_at,
	password_reset_token, password_reset_expires_at, active, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Role,
		&user.PasswordHash,
		&user.PasswordChangedAt,
		&user.PasswordResetToken,
		&user.PasswordResetExpiresAt,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, role, password_hash, active, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, TRUE, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		user.PasswordHash,
	)
	return translateDuplicate(err)
}

// Every read carries active = TRUE; soft-deleted accounts are invisible
// to the rest of the application.

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND active = TRUE`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND active = TRUE`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindByResetDigest resolves the account holding an unexpired reset digest.
// Expired digests simply never match; there is no sweeper.
func (r *UserRepository) FindByResetDigest(ctx context.Context, digest []byte) (models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE password_reset_token = $1
		  AND password_reset_expires_at > NOW()
		  AND active = TRUE
	`
	return scanUser(r.pool.QueryRow(ctx, query, digest))
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE active = TRUE ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name string, email string) (models.User, error) {
	const query = `
		UPDATE users
		SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1 AND active = TRUE
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, name, email))
	if err != nil {
		return models.User{}, translateDuplicate(err)
	}
	return user, nil
}

// UpdatePassword stores a new hash, stamps password_changed_at and clears
// any pending reset token in one statement.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, hash []byte, changedAt time.Time) error {
	const query = `
		UPDATE users
		SET password_hash = $2,
		    password_changed_at = $3,
		    password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1 AND active = TRUE
	`
	cmd, err := r.pool.Exec(ctx, query, id, hash, changedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, digest []byte, expiresAt time.Time) error {
	const query = `
		UPDATE users
		SET password_reset_token = $2,
		    password_reset_expires_at = $3,
		    updated_at = NOW()
		WHERE id = $1 AND active = TRUE
	`
	cmd, err := r.pool.Exec(ctx, query, id, digest, expiresAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	const query = `
		UPDATE users
		SET password_reset_token = NULL,
		    password_reset_expires_at = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Deactivate soft-deletes the account. The row is retained.
func (r *UserRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
