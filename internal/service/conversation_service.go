package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/P72i1ip/llm-chat-history-api/internal/apperr"
	"github.com/P72i1ip/llm-chat-history-api/internal/ids"
	"github.com/P72i1ip/llm-chat-history-api/internal/models"
	"github.com/P72i1ip/llm-chat-history-api/internal/repository"
)

// ConversationService owns conversation CRUD and the listing filter. Every
// operation is scoped by owner; a conversation belonging to someone else is
// reported as absent, never as forbidden.
type ConversationService struct {
	convs ConversationStore
	log   zerolog.Logger
}

func NewConversationService(convs ConversationStore, log zerolog.Logger) *ConversationService {
	return &ConversationService{convs: convs, log: log}
}

type MessageInput struct {
	Role      string
	Content   string
	Timestamp *time.Time
}

func (s *ConversationService) Create(ctx context.Context, userID string, messages []MessageInput, tags []string) (models.Conversation, error) {
	// a conversation starts with at least one message
	if len(messages) == 0 {
		return models.Conversation{}, apperr.ValidationFields(map[string]string{
			"messages": "a conversation must contain at least one message",
		})
	}

	msgs, err := buildMessages(messages)
	if err != nil {
		return models.Conversation{}, err
	}
	if err := validateTags(tags); err != nil {
		return models.Conversation{}, err
	}
	if tags == nil {
		tags = []string{}
	}

	conv, err := s.convs.Create(ctx, models.Conversation{
		ID:       ids.New(),
		UserID:   userID,
		Messages: msgs,
		Tags:     tags,
	})
	if err != nil {
		return models.Conversation{}, apperr.Internal("create conversation", err)
	}
	return conv, nil
}

func (s *ConversationService) Get(ctx context.Context, userID string, id string) (models.Conversation, error) {
	conv, err := s.convs.GetByOwner(ctx, userID, id)
	if err != nil {
		return models.Conversation{}, notFoundOrInternal(err, "load conversation")
	}
	return conv, nil
}

// List applies the compound filter, then runs the in-memory narrowing
// passes. With createdOnly the bounds apply to the conversation's own
// createdAt and no narrowing happens; otherwise both the window and keyword
// passes narrow each returned conversation's message list independently,
// and conversations left with no messages are dropped.
func (s *ConversationService) List(ctx context.Context, userID string, q ListQuery) ([]models.Conversation, error) {
	filter, err := buildFilter(userID, q)
	if err != nil {
		return nil, err
	}

	conversations, err := s.convs.List(ctx, filter)
	if err != nil {
		return nil, apperr.Internal("list conversations", err)
	}

	narrowing := !filter.CreatedOnly && (filter.From != nil || filter.To != nil)
	if !narrowing && filter.Keyword == "" {
		if conversations == nil {
			conversations = []models.Conversation{}
		}
		return conversations, nil
	}

	result := make([]models.Conversation, 0, len(conversations))
	for _, conv := range conversations {
		if narrowing {
			conv = narrowByWindow(conv, filter.From, filter.To)
		}
		conv = narrowByKeyword(conv, filter.Keyword)
		if len(conv.Messages) == 0 {
			continue
		}
		result = append(result, conv)
	}
	return result, nil
}

type UpdateConversationInput struct {
	Messages []MessageInput
	Tags     []string
}

// Update replaces the message list and/or tags. Nil means "leave as is".
func (s *ConversationService) Update(ctx context.Context, userID string, id string, input UpdateConversationInput) (models.Conversation, error) {
	current, err := s.convs.GetByOwner(ctx, userID, id)
	if err != nil {
		return models.Conversation{}, notFoundOrInternal(err, "load conversation")
	}

	msgs := current.Messages
	if input.Messages != nil {
		if msgs, err = buildMessages(input.Messages); err != nil {
			return models.Conversation{}, err
		}
	}

	tags := current.Tags
	if input.Tags != nil {
		if err := validateTags(input.Tags); err != nil {
			return models.Conversation{}, err
		}
		tags = input.Tags
	}

	updated, err := s.convs.Update(ctx, userID, id, msgs, tags)
	if err != nil {
		return models.Conversation{}, notFoundOrInternal(err, "update conversation")
	}
	return updated, nil
}

func (s *ConversationService) AppendMessage(ctx context.Context, userID string, id string, input MessageInput) (models.Conversation, error) {
	msg, err := buildMessage(input)
	if err != nil {
		return models.Conversation{}, err
	}

	conv, err := s.convs.AppendMessage(ctx, userID, id, msg)
	if err != nil {
		return models.Conversation{}, notFoundOrInternal(err, "append message")
	}
	return conv, nil
}

func (s *ConversationService) Delete(ctx context.Context, userID string, id string) error {
	if err := s.convs.Delete(ctx, userID, id); err != nil {
		return notFoundOrInternal(err, "delete conversation")
	}
	return nil
}

func buildMessages(inputs []MessageInput) ([]models.Message, error) {
	msgs := make([]models.Message, 0, len(inputs))
	for i, input := range inputs {
		msg, err := buildMessage(input)
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
				prefixed := map[string]string{}
				for field, message := range appErr.Fields {
					prefixed[fmt.Sprintf("messages[%d].%s", i, field)] = message
				}
				return nil, apperr.ValidationFields(prefixed)
			}
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func buildMessage(input MessageInput) (models.Message, error) {
	fields := map[string]string{}

	role := models.MessageRole(input.Role)
	if role != models.MessageRoleUser && role != models.MessageRoleAssistant {
		fields["role"] = "must be user or assistant"
	}
	if len(input.Content) == 0 {
		fields["content"] = "cannot be empty"
	} else if utf8.RuneCountInString(input.Content) > models.MessageContentMaxLength {
		fields["content"] = fmt.Sprintf("must have at most %d characters", models.MessageContentMaxLength)
	}
	if len(fields) > 0 {
		return models.Message{}, apperr.ValidationFields(fields)
	}

	timestamp := time.Now()
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	return models.Message{Role: role, Content: input.Content, Timestamp: timestamp}, nil
}

func validateTags(tags []string) error {
	if len(tags) > models.MaxConversationTags {
		return apperr.ValidationFields(map[string]string{
			"tags": fmt.Sprintf("you can assign up to %d tags only", models.MaxConversationTags),
		})
	}
	for _, tag := range tags {
		if !validTag(tag) {
			return apperr.ValidationFields(map[string]string{
				"tags": "unknown tag: " + tag,
			})
		}
	}
	return nil
}

func notFoundOrInternal(err error, op string) error {
	if errors.Is(err, repository.ErrConversationNotFound) {
		return apperr.NotFound("no conversation found with that id")
	}
	return apperr.Internal(op, err)
}
