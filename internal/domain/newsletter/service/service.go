package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
)

// SubscriberRepository defines the interface for subscriber storage.
// Subscribe must be idempotent for addresses that are already active.
type SubscriberRepository interface {
	Subscribe(ctx context.Context, email string) (*entity.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error)
}

// Mailer delivers a campaign to every active subscriber and reports how many received it
type Mailer interface {
	Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error)
}

// Service handles newsletter business logic
type Service struct {
	repo   SubscriberRepository
	mailer Mailer
}

// New creates a new newsletter service
func New(repo SubscriberRepository, mailer Mailer) *Service {
	return &Service{repo: repo, mailer: mailer}
}

// Subscribe adds an address to the newsletter
func (s *Service) Subscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	addr, err := entity.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	sub, err := s.repo.Subscribe(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("subscribing: %w", err)
	}
	return sub, nil
}

// Unsubscribe deactivates an address. Unknown addresses are not an error.
func (s *Service) Unsubscribe(ctx context.Context, email string) error {
	addr, err := entity.NormalizeEmail(email)
	if err != nil {
		return err
	}

	if err := s.repo.Unsubscribe(ctx, addr); err != nil {
		return fmt.Errorf("unsubscribing: %w", err)
	}
	return nil
}

// List returns subscribers, optionally only active ones
func (s *Service) List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error) {
	subs, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing subscribers: %w", err)
	}
	if subs == nil {
		subs = []entity.Subscriber{}
	}
	return subs, nil
}

// Send delivers a campaign
func (s *Service) Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error) {
	c.Subject = strings.TrimSpace(c.Subject)
	if err := c.Validate(); err != nil {
		return nil, err
	}

	d, err := s.mailer.Send(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("sending newsletter: %w", err)
	}
	return d, nil
}
