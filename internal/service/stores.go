package service

import (
	"context"
	"time"

	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
)

// UserStore is the slice of the user repository the services rely on.
// Implementations exclude soft-deleted accounts from every lookup.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	GetByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByResetDigest(ctx context.Context, digest []byte) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, name string, email string) (models.User, error)
	UpdatePassword(ctx context.Context, id string, hash []byte, changedAt time.Time) error
	SetResetToken(ctx context.Context, id string, digest []byte, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	Deactivate(ctx context.Context, id string) error
}

type ConversationStore interface {
	Create(ctx context.Context, conv models.Conversation) (models.Conversation, error)
	GetByOwner(ctx context.Context, userID string, id string) (models.Conversation, error)
	List(ctx context.Context, filter repository.ConversationFilter) ([]models.Conversation, error)
	Update(ctx context.Context, userID string, id string, messages []models.Message, tags []string) (models.Conversation, error)
	AppendMessage(ctx context.Context, userID string, id string, msg models.Message) (models.Conversation, error)
	Delete(ctx context.Context, userID string, id string) error
}

// Mailer delivers the reset secret out of band. The queue-backed
// implementation lives in internal/mail.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to string, name string, token string) error
}
