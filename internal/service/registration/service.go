package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/wb-go/wbf/retry"

	"github.com/TimeBox-aste/obo-space-web/internal/model"
)

//go:generate mockgen -source=service.go -destination=../../mocks/service/registration/mock.go -package=mocks

type registrationPublisher interface {
	Publish(msg model.Registration, strategy retry.Strategy) error
}

type registrationRepository interface {
	CreateFromRegistration(ctx context.Context, reg model.Registration) (string, error)
}

// Service carries a registration event across the queue boundary: Submit is
// the publishing side used by the HTTP API, Ingest is the consuming side
// used by the queue consumer.
type Service struct {
	repo  registrationRepository
	queue registrationPublisher
}

func NewService(repo registrationRepository, queue registrationPublisher) *Service {
	return &Service{repo: repo, queue: queue}
}

// Submit stamps the registration with the acceptance time and publishes it
// to the registration queue.
func (s *Service) Submit(strategy retry.Strategy, reg model.Registration) error {
	reg.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)

	if err := s.queue.Publish(reg, strategy); err != nil {
		return fmt.Errorf("publish registration: %w", err)
	}

	return nil
}

// Ingest durably records one consumed registration event.
func (s *Service) Ingest(ctx context.Context, reg model.Registration) error {
	if _, err := s.repo.CreateFromRegistration(ctx, reg); err != nil {
		return fmt.Errorf("ingest registration: %w", err)
	}

	return nil
}
