package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"lwsbooking/internal/metrics"
	"lwsbooking/internal/repository"
)

const SessionSweepSchedule = "@every 5m"

// JobService runs housekeeping for the booking wizard sessions.
type JobService struct {
	Sessions repository.SessionRepository
	TTL      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewJobService(sessions repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *JobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{Sessions: sessions, TTL: ttl, now: time.Now, logger: logger}
}

// SweepIdleSessions deletes sessions untouched for longer than the TTL and refreshes the
// active session gauge.
func (s *JobService) SweepIdleSessions(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.TTL)
	removed, err := s.Sessions.DeleteIdleBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to delete idle sessions: %w", err)
	}
	if removed > 0 {
		s.logger.Info("cron job: removed idle booking sessions", zap.Int("count", removed), zap.Time("cutoff", cutoff))
	}

	active, err := s.Sessions.Count(ctx)
	if err != nil {
		return removed, fmt.Errorf("cron job: failed to count sessions: %w", err)
	}
	metrics.ActiveSessions.Set(float64(active))
	return removed, nil
}

// Schedule registers the sweep on c.
func (s *JobService) Schedule(c *cron.Cron) error {
	_, err := c.AddFunc(SessionSweepSchedule, func() {
		if _, err := s.SweepIdleSessions(context.Background()); err != nil {
			s.logger.Error("session sweep failed", zap.Error(err))
		}
	})
	return err
}
