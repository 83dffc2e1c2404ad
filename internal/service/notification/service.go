package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/TimeBox-aste/obo-space-web/internal/model"
	notifrepo "github.com/TimeBox-aste/obo-space-web/internal/repository/notification"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/notification/mock.go -package=mocks

type notificationRepository interface {
	PendingDeliveries(ctx context.Context) ([]uuid.UUID, error)
	DeliveryByID(ctx context.Context, id uuid.UUID) (model.Delivery, error)
	MarkSuccess(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	RecordFailure(ctx context.Context, id uuid.UUID) (int, int, error)
	StatusByToken(ctx context.Context, token string) (string, error)
}

type cache interface {
	SetWithRetry(ctx context.Context, strategy retry.Strategy, key string, value interface{}) error
	GetWithRetry(ctx context.Context, strategy retry.Strategy, key string) (string, error)
}

// Service wraps the notification repository with a token-keyed status cache.
// The persisted status stays the source of truth; the cache only serves
// status lookups on the HTTP side.
type Service struct {
	repo  notificationRepository
	cache cache
}

func NewService(repo notificationRepository, cache cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// PendingDeliveries returns ids of notifications awaiting delivery.
func (s *Service) PendingDeliveries(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.PendingDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("get pending deliveries: %w", err)
	}

	return ids, nil
}

// Delivery fetches a fresh delivery view for one notification.
func (s *Service) Delivery(ctx context.Context, id uuid.UUID) (model.Delivery, error) {
	d, err := s.repo.DeliveryByID(ctx, id)
	if err != nil {
		if errors.Is(err, notifrepo.ErrNotificationNotFound) {
			return model.Delivery{}, err
		}

		return model.Delivery{}, fmt.Errorf("get delivery: %w", err)
	}

	return d, nil
}

// MarkDelivered moves a notification to the terminal "success" status and
// refreshes the cached status for its token.
func (s *Service) MarkDelivered(ctx context.Context, strategy retry.Strategy, d model.Delivery) error {
	if err := s.repo.MarkSuccess(ctx, d.NotificationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("mark notification delivered: %w", err)
	}

	if err := s.cache.SetWithRetry(ctx, strategy, d.Token, model.StatusSuccess); err != nil {
		zlog.Logger.Error().Err(err).Str("token", d.Token).Msg("failed to cache notification status")
	}

	return nil
}

// RecordFailure applies one failed attempt and reports whether another
// attempt is still allowed. On the terminal transition the cached status is
// refreshed to "failed".
func (s *Service) RecordFailure(ctx context.Context, strategy retry.Strategy, d model.Delivery) (retryable bool, err error) {
	attempts, maxAttempts, err := s.repo.RecordFailure(ctx, d.NotificationID)
	if err != nil {
		return false, fmt.Errorf("record delivery failure: %w", err)
	}

	if attempts >= maxAttempts {
		if err := s.cache.SetWithRetry(ctx, strategy, d.Token, model.StatusFailed); err != nil {
			zlog.Logger.Error().Err(err).Str("token", d.Token).Msg("failed to cache notification status")
		}

		return false, nil
	}

	return true, nil
}

// StatusByToken returns the delivery status for a share token, serving from
// the cache when possible.
func (s *Service) StatusByToken(ctx context.Context, strategy retry.Strategy, token string) (string, error) {
	status, err := s.cache.GetWithRetry(ctx, strategy, token)
	if err != nil && !errors.Is(err, redis.Nil) {
		zlog.Logger.Error().Err(err).Str("token", token).Msg("failed to get notification status from cache")
	}

	if err != nil || status == "" {
		status, err = s.repo.StatusByToken(ctx, token)
		if err != nil {
			if errors.Is(err, notifrepo.ErrNotificationNotFound) {
				return "", err
			}

			return "", fmt.Errorf("get notification status: %w", err)
		}

		if err := s.cache.SetWithRetry(ctx, strategy, token, status); err != nil {
			zlog.Logger.Error().Err(err).Str("token", token).Msg("failed to cache notification status")
		}
	}

	return status, nil
}
