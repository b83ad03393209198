package mail

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/P72i1ip/llm-chat-history-api/internal/config"
)

// QueueMailer publishes outbound email tasks to a Redis stream. Actual SMTP
// delivery happens in a separate worker consuming the stream; this process
// only needs the enqueue to succeed or fail synchronously.
type QueueMailer struct {
	queue  *redis.Client
	stream string
	from   string
	log    zerolog.Logger
}

func NewQueueMailer(queue *redis.Client, cfg config.MailConfig, log zerolog.Logger) *QueueMailer {
	return &QueueMailer{
		queue:  queue,
		stream: cfg.Stream,
		from:   cfg.From,
		log:    log,
	}
}

func (m *QueueMailer) SendPasswordReset(ctx context.Context, to string, name string, token string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nForgot your password? Submit a request with your new password and this token: %s\n\nThe token is valid for 10 minutes. If you didn't forget your password, please ignore this email.",
		name, token,
	)

	_, err := m.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: m.stream,
		Values: map[string]any{
			"type":    "password_reset",
			"from":    m.from,
			"to":      to,
			"subject": "Your password reset token (valid for 10 minutes)",
			"body":    body,
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("enqueue reset email: %w", err)
	}

	m.log.Debug().Str("to", to).Msg("password reset email enqueued")
	return nil
}
