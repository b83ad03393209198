package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// mailStreamMaxLen bounds the outbound mail stream so undelivered backlog
// cannot grow without limit if the mail worker is down for long.
const mailStreamMaxLen = 10_000

// Scheduler runs the periodic housekeeping this process owns. Reset tokens
// need no sweeping (expired digests are inert); the only job is trimming
// the mail stream.
type Scheduler struct {
	cron   *cron.Cron
	queue  *redis.Client
	stream string
	log    zerolog.Logger
}

func NewScheduler(queue *redis.Client, stream string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		queue:  queue,
		stream: stream,
		log:    log,
	}
}

func (s *Scheduler) Start() error {
	if s.queue == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("@daily", s.trimMailStream); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for any running job to finish, up to
// a short grace period.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) trimMailStream() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	trimmed, err := s.queue.XTrimMaxLen(ctx, s.stream, mailStreamMaxLen).Result()
	if err != nil {
		s.log.Error().Err(err).Str("stream", s.stream).Msg("trim mail stream failed")
		return
	}
	if trimmed > 0 {
		s.log.Info().Int64("trimmed", trimmed).Str("stream", s.stream).Msg("mail stream trimmed")
	}
}
