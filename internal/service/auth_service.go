package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/ids"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
	"github.com/P72i1ip/llm-chat-history-api/internal/security"
)

// passwordChangedAtMargin backdates password_changed_at so a session token
// minted in the same second as the change still counts as pre-change and is
// rejected.
const passwordChangedAtMargin = time.Second

// AuthService owns the credential lifecycle: signup, login, session-trust
// validation, and the password-reset flow.
type AuthService struct {
	users    UserStore
	hasher   security.PasswordHasher
	tokens   *security.TokenIssuer
	mailer   Mailer
	resetTTL time.Duration
	log      zerolog.Logger
}

func NewAuthService(
	users UserStore,
	hasher security.PasswordHasher,
	tokens *security.TokenIssuer,
	mailer Mailer,
	resetTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		resetTTL: resetTTL,
		log:      log,
	}
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// AuthResult pairs the account with a freshly issued session token.
type AuthResult struct {
	User  models.User
	Token string
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	fields := validatePassword(input.Password, input.PasswordConfirm)
	if msg := validateName(input.Name); msg != "" {
		fields["name"] = msg
	}
	if msg := validateEmail(input.Email); msg != "" {
		fields["email"] = msg
	}
	if len(fields) > 0 {
		return AuthResult{}, apperr.ValidationFields(fields)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return AuthResult{}, apperr.Internal("hash password", err)
	}

	user := models.User{
		ID:           ids.New(),
		Name:         input.Name,
		Email:        input.Email,
		Role:         models.RoleUser,
		PasswordHash: hash,
		Active:       true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, translateStoreError(err)
	}

	return s.issueFor(user)
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return AuthResult{}, apperr.Validation("please provide email and password")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// the default lookup excludes soft-deleted accounts, so an
			// inactive account fails here too
			return AuthResult{}, apperr.Unauthenticated("incorrect email or password")
		}
		return AuthResult{}, apperr.Internal("find account", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		return AuthResult{}, apperr.Unauthenticated("incorrect email or password")
	}

	return s.issueFor(user)
}

// Authenticate verifies a bearer token end to end: signature and expiry,
// account resolution (active only), and the issued-at versus
// password-changed-at comparison that is the sole revocation mechanism.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return models.User{}, apperr.Wrap(apperr.CodeUnauthenticated, "invalid or expired token, please log in again", err)
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, apperr.Unauthenticated("the account belonging to this token no longer exists")
		}
		return models.User{}, apperr.Internal("resolve account", err)
	}

	if user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return models.User{}, apperr.Unauthenticated("password was changed recently, please log in again")
	}

	return user, nil
}

// ForgotPassword issues a reset secret and hands it to the mailer. Only the
// digest is persisted; a delivery failure rolls the pending reset back.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("there is no account with that email address")
		}
		return apperr.Internal("find account", err)
	}

	token, digest, err := security.NewResetToken()
	if err != nil {
		return apperr.Internal("generate reset token", err)
	}

	expiresAt := time.Now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, digest, expiresAt); err != nil {
		return apperr.Internal("store reset token", err)
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.log.Error().Err(clearErr).Str("user_id", user.ID).Msg("clear reset token after mail failure")
		}
		return apperr.Internal("there was an error sending the email, try again later", err)
	}

	return nil
}

// ResetPassword consumes a reset token. The digest lookup only matches
// unexpired tokens, and the password update clears both reset fields, which
// makes the token single-use.
func (s *AuthService) ResetPassword(ctx context.Context, token string, password string, confirm string) (AuthResult, error) {
	user, err := s.users.FindByResetDigest(ctx, security.HashResetToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, apperr.Token("token is invalid or has expired")
		}
		return AuthResult{}, apperr.Internal("find account by reset token", err)
	}

	if fields := validatePassword(password, confirm); len(fields) > 0 {
		return AuthResult{}, apperr.ValidationFields(fields)
	}

	if err := s.setPassword(ctx, user.ID, password); err != nil {
		return AuthResult{}, err
	}

	return s.issueFor(user)
}

// UpdatePassword changes the password of an authenticated account after
// re-verifying the current one, then issues a fresh session token. Every
// token issued before this call is dead.
func (s *AuthService) UpdatePassword(ctx context.Context, user models.User, current string, password string, confirm string) (AuthResult, error) {
	if !s.hasher.Compare(user.PasswordHash, current) {
		return AuthResult{}, apperr.Unauthenticated("your current password is wrong")
	}

	if fields := validatePassword(password, confirm); len(fields) > 0 {
		return AuthResult{}, apperr.ValidationFields(fields)
	}

	if err := s.setPassword(ctx, user.ID, password); err != nil {
		return AuthResult{}, err
	}

	return s.issueFor(user)
}

func (s *AuthService) setPassword(ctx context.Context, userID string, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperr.Internal("hash password", err)
	}

	changedAt := time.Now().Add(-passwordChangedAtMargin)
	if err := s.users.UpdatePassword(ctx, userID, hash, changedAt); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.NotFound("account not found")
		}
		return apperr.Internal("update password", err)
	}
	return nil
}

func (s *AuthService) issueFor(user models.User) (AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return AuthResult{}, apperr.Internal("issue session token", err)
	}
	return AuthResult{User: user, Token: token}, nil
}

// translateStoreError maps unique-constraint conflicts to a field-level
// validation error naming the column that actually conflicted.
func translateStoreError(err error) error {
	var dup *repository.DuplicateError
	if errors.As(err, &dup) {
		return apperr.ValidationFields(map[string]string{dup.Field: "is already registered"})
	}
	return apperr.Internal("store operation failed", err)
}
