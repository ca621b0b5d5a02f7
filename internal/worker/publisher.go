// Package worker runs the periodic publication of scheduled posts.
package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Publisher is the part of the post service the sweep needs.
type Publisher interface {
	PublishScheduled(ctx context.Context) (int64, error)
}

type ScheduleJob struct {
	posts    Publisher
	log      zerolog.Logger
	Interval time.Duration
}

func NewScheduleJob(posts Publisher, interval time.Duration, log zerolog.Logger) *ScheduleJob {
	return &ScheduleJob{
		posts:    posts,
		log:      log.With().Str("component", "scheduler").Logger(),
		Interval: interval,
	}
}

// RunOnce publishes every scheduled post whose time has come.
func (j *ScheduleJob) RunOnce(ctx context.Context) (int64, error) {
	start := time.Now()

	count, err := j.posts.PublishScheduled(ctx)
	if err != nil {
		j.log.Error().Err(err).Msg("Не удалось опубликовать запланированные посты")
		return 0, err
	}

	if count > 0 {
		j.log.Info().
			Int64("published", count).
			Dur("duration", time.Since(start)).
			Msg("Запланированные посты опубликованы")
	}
	return count, nil
}

// Start runs the sweep immediately and then every Interval until ctx is done.
// A failed sweep is logged and retried on the next tick.
func (j *ScheduleJob) Start(ctx context.Context) {
	if j.Interval <= 0 {
		return
	}

	j.log.Info().Dur("interval", j.Interval).Msg("Планировщик публикаций запущен")

	_, _ = j.RunOnce(ctx)

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("Планировщик публикаций остановлен")
			return
		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		}
	}
}
