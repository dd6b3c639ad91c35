package processor

import (
	"context"

	"megano/pkg/logger"
	"megano/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// RatingRecomputer пересчитывает кешированные рейтинги товаров
type RatingRecomputer interface {
	RecomputeAllRatings(ctx context.Context) error
}

// CronScheduler запускает периодический пересчет рейтингов по расписанию.
// Один прогон выполняется сразу при старте, чтобы кеш не ждал ночи.
type CronScheduler struct {
	cron       *cron.Cron
	recomputer RatingRecomputer
}

func NewCronScheduler(recomputer RatingRecomputer) *CronScheduler {
	return &CronScheduler{
		cron:       cron.New(),
		recomputer: recomputer,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.run(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	s.run(ctx)
	return nil
}

func (s *CronScheduler) run(ctx context.Context) {
	logger.Info().Msg("rating recompute started")

	if err := s.recomputer.RecomputeAllRatings(ctx); err != nil {
		logger.Error().Err(err).Msg("rating recompute failed")
		metrics.RatingRecomputeRuns.WithLabelValues("error").Inc()
		return
	}

	metrics.RatingRecomputeRuns.WithLabelValues("success").Inc()
	logger.Info().Msg("rating recompute completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
