package policy

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
)

// NewsletterService defines the interface for the newsletter service
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) (*entity.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error)
	Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error)
}

// Policy applies logging around newsletter operations.
// Addresses are never logged in full.
type Policy struct {
	svc    NewsletterService
	logger *slog.Logger
}

// New creates a new newsletter policy
func New(svc NewsletterService, logger *slog.Logger) *Policy {
	return &Policy{svc: svc, logger: logger}
}

// Subscribe adds a visitor to the newsletter
func (p *Policy) Subscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	sub, err := p.svc.Subscribe(ctx, email)
	if err != nil {
		p.logFailure(ctx, "subscribe", email, err)
		return nil, err
	}
	p.logger.InfoContext(ctx, "newsletter subscription", "domain", emailDomain(sub.Email))
	return sub, nil
}

// Unsubscribe removes a visitor from the newsletter
func (p *Policy) Unsubscribe(ctx context.Context, email string) error {
	if err := p.svc.Unsubscribe(ctx, email); err != nil {
		p.logFailure(ctx, "unsubscribe", email, err)
		return err
	}
	p.logger.InfoContext(ctx, "newsletter unsubscription", "domain", emailDomain(email))
	return nil
}

// Subscribers lists subscribers for admins
func (p *Policy) Subscribers(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error) {
	return p.svc.List(ctx, activeOnly)
}

// Send delivers a campaign
func (p *Policy) Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error) {
	d, err := p.svc.Send(ctx, c)
	if err != nil {
		p.logger.ErrorContext(ctx, "newsletter send failed", "subject", c.Subject, "error", err)
		return nil, err
	}
	p.logger.InfoContext(ctx, "newsletter sent", "subject", c.Subject, "recipients", d.Recipients)
	return d, nil
}

func (p *Policy) logFailure(ctx context.Context, op, email string, err error) {
	if errors.Is(err, entity.ErrInvalidEmail) {
		return
	}
	p.logger.WarnContext(ctx, "newsletter request failed", "op", op, "domain", emailDomain(email), "error", redact(err, email))
}

// redact removes the address from an error message, which the backend may echo
func redact(err error, email string) string {
	msg := err.Error()
	if email = strings.TrimSpace(email); email != "" {
		msg = strings.ReplaceAll(msg, email, "<address>")
		msg = strings.ReplaceAll(msg, strings.ToLower(email), "<address>")
	}
	return msg
}

func emailDomain(email string) string {
	if at := strings.LastIndexByte(email, '@'); at >= 0 {
		return strings.ToLower(email[at+1:])
	}
	return ""
}
