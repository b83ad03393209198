package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/P72i1ip/llm-chat-history-api/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationFilter is the store-level half of the listing query. UserID is
// mandatory; everything else is optional. When CreatedOnly is false the
// time bounds and keyword select conversations having AT LEAST ONE matching
// message — narrowing the message arrays themselves is the service's
// in-memory pass.
type ConversationFilter struct {
	UserID      string
	Tags        []string
	From        *time.Time
	To          *time.Time
	Keyword     string
	CreatedOnly bool
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE metacharacters so a keyword is always
// matched literally. Without this a keyword containing a backslash would
// silently drop conversations that do contain it.
func escapeLikePattern(keyword string) string {
	return likeEscaper.Replace(keyword)
}

type ConversationRepository struct {
	pool *pgxpool.Pool
}

func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

const conversationColumns = `id, user_id, messages, tags, created_at, updated_at`

func scanConversation(row pgx.Row) (models.Conversation, error) {
	var (
		conv models.Conversation
		raw  []byte
	)
	if err := row.Scan(
		&conv.ID,
		&conv.UserID,
		&raw,
		&conv.Tags,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Conversation{}, ErrConversationNotFound
		}
		return models.Conversation{}, err
	}
	if err := json.Unmarshal(raw, &conv.Messages); err != nil {
		return models.Conversation{}, fmt.Errorf("decode messages: %w", err)
	}
	return conv, nil
}

func (r *ConversationRepository) Create(ctx context.Context, conv models.Conversation) (models.Conversation, error) {
	const query = `
		INSERT INTO conversations (id, user_id, messages, tags, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, NOW(), NOW())
		RETURNING ` + conversationColumns

	raw, err := json.Marshal(conv.Messages)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("encode messages: %w", err)
	}

	return scanConversation(r.pool.QueryRow(ctx, query, conv.ID, conv.UserID, raw, conv.Tags))
}

// GetByOwner loads a conversation scoped by owner. A mismatched owner is
// indistinguishable from absence.
func (r *ConversationRepository) GetByOwner(ctx context.Context, userID string, id string) (models.Conversation, error) {
	const query = `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1 AND user_id = $2`
	return scanConversation(r.pool.QueryRow(ctx, query, id, userID))
}

// List applies the compound filter. Ownership is always the first predicate;
// the remaining criteria AND together. Sub-document (message-level) matching
// is expressed with EXISTS over jsonb_array_elements because the row-level
// query cannot narrow the embedded array itself.
func (r *ConversationRepository) List(ctx context.Context, filter ConversationFilter) ([]models.Conversation, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + conversationColumns + ` FROM conversations WHERE user_id = $1`)
	args := []any{filter.UserID}

	arg := func(v any) int {
		args = append(args, v)
		return len(args)
	}

	if len(filter.Tags) > 0 {
		fmt.Fprintf(&sb, " AND tags @> $%d", arg(filter.Tags))
	}

	if filter.CreatedOnly {
		if filter.From != nil {
			fmt.Fprintf(&sb, " AND created_at >= $%d", arg(*filter.From))
		}
		if filter.To != nil {
			fmt.Fprintf(&sb, " AND created_at <= $%d", arg(*filter.To))
		}
	} else if filter.From != nil || filter.To != nil {
		var conds []string
		if filter.From != nil {
			conds = append(conds, fmt.Sprintf("(m->>'timestamp')::timestamptz >= $%d", arg(*filter.From)))
		}
		if filter.To != nil {
			conds = append(conds, fmt.Sprintf("(m->>'timestamp')::timestamptz <= $%d", arg(*filter.To)))
		}
		fmt.Fprintf(&sb,
			" AND EXISTS (SELECT 1 FROM jsonb_array_elements(messages) AS m WHERE %s)",
			strings.Join(conds, " AND "))
	}

	if filter.Keyword != "" {
		fmt.Fprintf(&sb,
			" AND EXISTS (SELECT 1 FROM jsonb_array_elements(messages) AS m WHERE m->>'content' ILIKE '%%' || $%d || '%%')",
			arg(escapeLikePattern(filter.Keyword)))
	}

	sb.WriteString(" ORDER BY created_at DESC")

	rows, err := r.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// Update replaces messages and tags in a single owner-conditioned statement.
func (r *ConversationRepository) Update(ctx context.Context, userID string, id string, messages []models.Message, tags []string) (models.Conversation, error) {
	const query = `
		UPDATE conversations
		SET messages = $3::jsonb, tags = $4, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + conversationColumns

	raw, err := json.Marshal(messages)
	if err != nil {
		return models.Conversation{}, fmt.Errorf("encode messages: %w", err)
	}

	return scanConversation(r.pool.QueryRow(ctx, query, id, userID, raw, tags))
}

// AppendMessage relies on the store's atomic array concatenation so that
// concurrent appends to the same conversation never lose a message.
func (r *ConversationRepository) AppendMessage(ctx context.Context, userID string, id string, msg models.Message) (models.Conversation, error) {
	const query = `
		UPDATE conversations
		SET messages = messages || $3::jsonb, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + conversationColumns

	raw, err := json.Marshal([]models.Message{msg})
	if err != nil {
		return models.Conversation{}, fmt.Errorf("encode message: %w", err)
	}

	return scanConversation(r.pool.QueryRow(ctx, query, id, userID, raw))
}

func (r *ConversationRepository) Delete(ctx context.Context, userID string, id string) error {
	const query = `DELETE FROM conversations WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConversationNotFound
	}
	return nil
}
