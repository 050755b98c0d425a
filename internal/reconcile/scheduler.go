package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"laundry-queue-backend/config"
	"laundry-queue-backend/internal/model"
	"laundry-queue-backend/internal/reservation"
)

// Reconciler is the part of the orchestrator the sweeps drive.
type Reconciler interface {
	ExpiredNotifications(ctx context.Context) ([]model.QueueEntry, error)
	ExpireNotification(ctx context.Context, entryID int64) (*reservation.Notification, error)
	OverdueSessions(ctx context.Context) ([]model.UsageSession, error)
	AutoRelease(ctx context.Context, session model.UsageSession) (*reservation.FinishResult, error)
}

// SweepResult counts the items a sweep touched.
type SweepResult struct {
	Processed int
	Failed    int
}

// Scheduler runs the notification expiration and auto-release sweeps.
type Scheduler struct {
	cfg        config.ReconcileConfig
	reconciler Reconciler
	logger     zerolog.Logger
}

// NewScheduler creates a Scheduler.
func NewScheduler(cfg config.ReconcileConfig, reconciler Reconciler, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cfg:        cfg,
		reconciler: reconciler,
		logger:     logger.With().Str("component", "reconcile").Logger(),
	}
}

// Run starts both sweeps and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.cfg.IsEnabled() {
		s.logger.Info().Msg("reconciliation is disabled, not starting")
		return
	}
	s.logger.Info().
		Dur("expiration_interval", s.cfg.ExpirationInterval).
		Dur("auto_release_interval", s.cfg.AutoReleaseInterval).
		Msg("starting reconciliation sweeps")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.loop(ctx, s.cfg.ExpirationInterval, func(ctx context.Context) { s.SweepExpired(ctx) })
	}()
	go func() {
		defer wg.Done()
		s.loop(ctx, s.cfg.AutoReleaseInterval, func(ctx context.Context) { s.SweepOverdue(ctx) })
	}()
	wg.Wait()
	s.logger.Info().Msg("reconciliation sweeps stopped")
}

func (s *Scheduler) loop(ctx context.Context, interval time.Duration, sweep func(context.Context)) {
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			sweep(ctx)
			timer.Reset(interval)
		}
	}
}

// SweepExpired evicts every notified entry whose window has closed and
// promotes the next user in each affected queue.
func (s *Scheduler) SweepExpired(ctx context.Context) SweepResult {
	var res SweepResult
	entries, err := s.reconciler.ExpiredNotifications(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list expired notifications")
		return res
	}

	for _, e := range entries {
		if ctx.Err() != nil {
			break
		}
		next, err := s.reconciler.ExpireNotification(ctx, e.ID)
		if err != nil {
			res.Failed++
			s.logger.Error().Err(err).Int64("entry_id", e.ID).Int64("machine_id", e.MachineID).Msg("failed to expire notification")
			continue
		}
		res.Processed++
		if next != nil {
			s.logger.Debug().Int64("machine_id", next.MachineID).Int64("user_id", next.UserID).Msg("promoted after expiration")
		}
	}

	if len(entries) > 0 {
		s.logger.Info().Int("processed", res.Processed).Int("failed", res.Failed).Msg("expiration sweep finished")
	}
	return res
}

// SweepOverdue completes every session that overran its estimated end by
// more than the grace period.
func (s *Scheduler) SweepOverdue(ctx context.Context) SweepResult {
	var res SweepResult
	sessions, err := s.reconciler.OverdueSessions(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list overdue sessions")
		return res
	}

	for _, session := range sessions {
		if ctx.Err() != nil {
			break
		}
		if _, err := s.reconciler.AutoRelease(ctx, session); err != nil {
			res.Failed++
			s.logger.Error().Err(err).Int64("session_id", session.ID).Int64("machine_id", session.MachineID).Msg("failed to auto-release session")
			continue
		}
		res.Processed++
	}

	if len(sessions) > 0 {
		s.logger.Info().Int("processed", res.Processed).Int("failed", res.Failed).Msg("auto-release sweep finished")
	}
	return res
}
