package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
)

// UserService covers the account-profile side of the credential store:
// profile updates, soft deletion, and the admin listing.
type UserService struct {
	users UserStore
	log   zerolog.Logger
}

func NewUserService(users UserStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal("list accounts", err)
	}
	return users, nil
}

type UpdateProfileInput struct {
	Name  string
	Email string
}

// UpdateProfile changes name and/or email. Empty fields keep their current
// value. Password changes are explicitly not accepted here.
func (s *UserService) UpdateProfile(ctx context.Context, user models.User, input UpdateProfileInput) (models.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = user.Name
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		email = user.Email
	}

	fields := map[string]string{}
	if msg := validateName(name); msg != "" {
		fields["name"] = msg
	}
	if msg := validateEmail(email); msg != "" {
		fields["email"] = msg
	}
	if len(fields) > 0 {
		return models.User{}, apperr.ValidationFields(fields)
	}

	updated, err := s.users.UpdateProfile(ctx, user.ID, name, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.NotFound("account not found")
		}
		return models.User{}, translateStoreError(err)
	}
	return updated, nil
}

// SoftDelete marks the account inactive. The row is retained and excluded
// from all default lookups from this point on.
func (s *UserService) SoftDelete(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("account not found")
		}
		return apperr.Internal("deactivate account", err)
	}
	return nil
}
