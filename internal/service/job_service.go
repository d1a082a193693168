package service

import (
	"context"
	"fmt"
	"time"

	"carrental/internal/logger"
	"carrental/internal/metrics"
	"carrental/internal/repository"

	"github.com/robfig/cron/v3"
)

// JobService removes reservation sessions abandoned without being closed.
type JobService struct {
	sessions repository.SessionRepository
	idleTTL  time.Duration
	metrics  *metrics.Metrics
	log      logger.ILogger
	now      func() time.Time
}

func NewJobService(sessions repository.SessionRepository, idleTTL time.Duration, m *metrics.Metrics, log logger.ILogger) *JobService {
	return &JobService{
		sessions: sessions,
		idleTTL:  idleTTL,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// SweepIdleSessions deletes sessions idle for longer than the TTL.
func (s *JobService) SweepIdleSessions(ctx context.Context) (int, error) {
	removed, err := s.sessions.DeleteIdleSessions(ctx, s.now().Add(-s.idleTTL))
	if err != nil {
		return 0, fmt.Errorf("sweep: failed to delete idle sessions: %w", err)
	}
	if removed > 0 {
		s.metrics.SessionsSwept.Add(float64(removed))
		s.log.Info("idle reservation sessions removed", logger.Int("count", removed))
	}
	return removed, nil
}

// Schedule registers the sweep on c using a cron spec such as "@every 1m".
func (s *JobService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.SweepIdleSessions(ctx); err != nil {
			s.log.Error("session sweep failed", logger.Error(err))
		}
	})
}
