package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
)

// fakeUserStore mimics the repository contract, including the implicit
// exclusion of inactive accounts from default lookups.
type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return &repository.DuplicateError{Field: "email"}
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := f.users[id]
	if !ok || !user.Active {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email && user.Active {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) FindByResetDigest(_ context.Context, digest []byte) (models.User, error) {
	now := time.Now()
	for _, user := range f.users {
		if user.Active &&
			user.PasswordResetToken != nil &&
			string(user.PasswordResetToken) == string(digest) &&
			user.PasswordResetExpiresAt != nil &&
			user.PasswordResetExpiresAt.After(now) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	var users []models.User
	for _, user := range f.users {
		if user.Active {
			users = append(users, user)
		}
	}
	return users, nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, id string, name string, email string) (models.User, error) {
	user, ok := f.users[id]
	if !ok || !user.Active {
		return models.User{}, repository.ErrUserNotFound
	}
	for otherID, other := range f.users {
		if otherID != id && other.Email == email {
			return models.User{}, &repository.DuplicateError{Field: "email"}
		}
	}
	user.Name = name
	user.Email = email
	user.UpdatedAt = time.Now()
	f.users[id] = user
	return user, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id string, hash []byte, changedAt time.Time) error {
	user, ok := f.users[id]
	if !ok || !user.Active {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = nil
	user.PasswordResetExpiresAt = nil
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, id string, digest []byte, expiresAt time.Time) error {
	user, ok := f.users[id]
	if !ok || !user.Active {
		return repository.ErrUserNotFound
	}
	user.PasswordResetToken = digest
	user.PasswordResetExpiresAt = &expiresAt
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) ClearResetToken(_ context.Context, id string) error {
	user, ok := f.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordResetToken = nil
	user.PasswordResetExpiresAt = nil
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) Deactivate(_ context.Context, id string) error {
	user, ok := f.users[id]
	if !ok || !user.Active {
		return repository.ErrUserNotFound
	}
	user.Active = false
	f.users[id] = user
	return nil
}

// fakeMailer records the last reset token instead of delivering it.
type fakeMailer struct {
	lastTo    string
	lastToken string
	fail      bool
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to string, _ string, token string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.lastTo = to
	f.lastToken = token
	return nil
}

// fakeConversationStore applies the same selection semantics the SQL layer
// would: ownership first, tags as a superset check, and "at least one
// matching message" for the sub-document criteria.
type fakeConversationStore struct {
	conversations map[string]models.Conversation
}

func newFakeConversationStore() *fakeConversationStore {
	return &fakeConversationStore{conversations: map[string]models.Conversation{}}
}

func (f *fakeConversationStore) Create(_ context.Context, conv models.Conversation) (models.Conversation, error) {
	now := time.Now()
	conv.CreatedAt = now
	conv.UpdatedAt = now
	f.conversations[conv.ID] = conv
	return conv, nil
}

func (f *fakeConversationStore) GetByOwner(_ context.Context, userID string, id string) (models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID {
		return models.Conversation{}, repository.ErrConversationNotFound
	}
	return conv, nil
}

func (f *fakeConversationStore) List(_ context.Context, filter repository.ConversationFilter) ([]models.Conversation, error) {
	var result []models.Conversation
	for _, conv := range f.conversations {
		if conv.UserID != filter.UserID {
			continue
		}
		if !hasAllTags(conv.Tags, filter.Tags) {
			continue
		}
		if filter.CreatedOnly {
			if filter.From != nil && conv.CreatedAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && conv.CreatedAt.After(*filter.To) {
				continue
			}
		} else if (filter.From != nil || filter.To != nil) && !anyMessageInWindow(conv.Messages, filter.From, filter.To) {
			continue
		}
		if filter.Keyword != "" && !anyMessageContains(conv.Messages, filter.Keyword) {
			continue
		}
		result = append(result, conv)
	}
	return result, nil
}

func (f *fakeConversationStore) Update(_ context.Context, userID string, id string, messages []models.Message, tags []string) (models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID {
		return models.Conversation{}, repository.ErrConversationNotFound
	}
	conv.Messages = messages
	conv.Tags = tags
	conv.UpdatedAt = time.Now()
	f.conversations[id] = conv
	return conv, nil
}

func (f *fakeConversationStore) AppendMessage(_ context.Context, userID string, id string, msg models.Message) (models.Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID {
		return models.Conversation{}, repository.ErrConversationNotFound
	}
	conv.Messages = append(conv.Messages, msg)
	conv.UpdatedAt = time.Now()
	f.conversations[id] = conv
	return conv, nil
}

func (f *fakeConversationStore) Delete(_ context.Context, userID string, id string) error {
	conv, ok := f.conversations[id]
	if !ok || conv.UserID != userID {
		return repository.ErrConversationNotFound
	}
	delete(f.conversations, id)
	return nil
}

func hasAllTags(have []string, want []string) bool {
	for _, tag := range want {
		found := false
		for _, h := range have {
			if h == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func anyMessageInWindow(msgs []models.Message, from *time.Time, to *time.Time) bool {
	for _, msg := range msgs {
		if from != nil && msg.Timestamp.Before(*from) {
			continue
		}
		if to != nil && msg.Timestamp.After(*to) {
			continue
		}
		return true
	}
	return false
}

func anyMessageContains(msgs []models.Message, keyword string) bool {
	needle := strings.ToLower(keyword)
	for _, msg := range msgs {
		if strings.Contains(strings.ToLower(msg.Content), needle) {
			return true
		}
	}
	return false
}
