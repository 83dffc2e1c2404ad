// Package scheduler drives pending notifications through the delivery retry
// state machine: it polls the store on a fixed interval, runs one cancellable
// delivery task per notification and schedules fixed-backoff retries until
// the attempt ceiling is reached.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/TimeBox-aste/obo-space-web/internal/model"
	notifrepo "github.com/TimeBox-aste/obo-space-web/internal/repository/notification"
)

//go:generate mockgen -source=scheduler.go -destination=../mocks/scheduler/mock.go -package=mocks

type deliveryService interface {
	PendingDeliveries(ctx context.Context) ([]uuid.UUID, error)
	Delivery(ctx context.Context, id uuid.UUID) (model.Delivery, error)
	MarkDelivered(ctx context.Context, strategy retry.Strategy, d model.Delivery) error
	RecordFailure(ctx context.Context, strategy retry.Strategy, d model.Delivery) (bool, error)
}

type sender interface {
	Send(to, token string) error
}

// Scheduler owns the poll loop and the in-memory task registry. The
// persisted status and attempt counter are the sole source of truth: after a
// restart the registry is empty and the next poll cycle re-discovers any
// unfinished notification.
type Scheduler struct {
	service  deliveryService
	sender   sender
	registry *Registry

	pollInterval time.Duration
	retryDelay   time.Duration
	strategy     retry.Strategy
}

func New(service deliveryService, sender sender, pollInterval, retryDelay time.Duration, strategy retry.Strategy) *Scheduler {
	return &Scheduler{
		service:      service,
		sender:       sender,
		registry:     NewRegistry(),
		pollInterval: pollInterval,
		retryDelay:   retryDelay,
		strategy:     strategy,
	}
}

// Run polls for pending notifications until the context is cancelled. A
// failed cycle is logged and retried on the next tick; the loop itself never
// exits on a per-cycle error.
func (s *Scheduler) Run(ctx context.Context) {
	zlog.Logger.Info().Dur("poll_interval", s.pollInterval).Msg("delivery scheduler started")

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	s.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("delivery scheduler stopped")
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll fetches all notifications awaiting delivery and spawns exactly one
// delivery task per notification that has none in flight.
func (s *Scheduler) poll(ctx context.Context) {
	ids, err := s.service.PendingDeliveries(ctx)
	if err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to poll pending notifications")
		return
	}

	for _, id := range ids {
		t, ok := s.registry.TrackNew(id)
		if !ok {
			continue
		}

		zlog.Logger.Info().Str("id", id.String()).Msg("scheduling delivery")
		go s.deliver(ctx, t)
	}
}

// deliver executes one delivery attempt for the task's notification and
// applies the resulting state transition.
func (s *Scheduler) deliver(ctx context.Context, t *Task) {
	if t.Cancelled() || ctx.Err() != nil {
		s.registry.Done(t)
		return
	}

	d, err := s.service.Delivery(ctx, t.id)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			// Row vanished between poll and execution: no-op completion.
			zlog.Logger.Warn().Str("id", t.id.String()).Msg("notification vanished, dropping task")
		} else {
			// Transient read failure; the next poll cycle rediscovers the id.
			zlog.Logger.Error().Err(err).Str("id", t.id.String()).Msg("failed to fetch delivery")
		}

		s.registry.Done(t)
		return
	}

	if d.Status != model.StatusPending || d.Attempts >= d.MaxAttempts {
		// Already terminal, e.g. a duplicate task finished first.
		s.registry.CancelAll(t.id)
		return
	}

	if err := s.send(d); err != nil {
		zlog.Logger.Warn().Err(err).
			Str("id", d.NotificationID.String()).
			Int("attempts", d.Attempts).
			Msg("delivery attempt failed")

		s.handleFailure(ctx, t, d)
		return
	}

	zlog.Logger.Info().Str("id", d.NotificationID.String()).Str("to", d.Email).Msg("notification delivered")

	if err := s.service.MarkDelivered(ctx, s.strategy, d); err != nil {
		// The status stays pending, so the attempt is re-run by a later poll.
		zlog.Logger.Error().Err(err).Str("id", d.NotificationID.String()).Msg("failed to mark notification delivered")
	}

	s.registry.CancelAll(d.NotificationID)
}

// send invokes the email capability, converting a panic into an ordinary
// failed attempt so one notification can never take down the scheduler.
func (s *Scheduler) send(d model.Delivery) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("send panicked: %v", p)
		}
	}()

	return s.sender.Send(d.Email, d.Token)
}

// handleFailure records the failed attempt and, when the ceiling has not
// been reached, schedules a retry task after the fixed backoff. The retry is
// tracked before the current task untracks itself so the id never appears
// idle to a concurrent poll cycle.
func (s *Scheduler) handleFailure(ctx context.Context, t *Task, d model.Delivery) {
	retryable, err := s.service.RecordFailure(ctx, s.strategy, d)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("id", d.NotificationID.String()).Msg("failed to record delivery failure")
		s.registry.Done(t)
		return
	}

	if !retryable {
		zlog.Logger.Error().
			Str("id", d.NotificationID.String()).
			Int("max_attempts", d.MaxAttempts).
			Msg("delivery attempts exhausted, giving up")

		s.registry.CancelAll(d.NotificationID)
		return
	}

	next := s.registry.Add(d.NotificationID)
	go s.retryAfter(ctx, next)
	s.registry.Done(t)
}

// retryAfter waits out the backoff delay and re-enters delivery, honoring
// cancellation while waiting.
func (s *Scheduler) retryAfter(ctx context.Context, t *Task) {
	timer := time.NewTimer(s.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.registry.Done(t)
	case <-t.cancel:
		s.registry.Done(t)
	case <-timer.C:
		s.deliver(ctx, t)
	}
}
