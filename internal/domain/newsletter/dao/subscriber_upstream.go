package dao

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

type emailRequest struct {
	Email string `json:"email"`
}

// SubscriberUpstream implements the subscriber repository and mailer on the hosted backend
type SubscriberUpstream struct {
	client *backend.Client
}

// NewSubscriberUpstream creates a new backend-backed subscriber repository
func NewSubscriberUpstream(client *backend.Client) *SubscriberUpstream {
	return &SubscriberUpstream{client: client}
}

// Subscribe registers an address. A conflict means it is already subscribed.
func (r *SubscriberUpstream) Subscribe(ctx context.Context, email string) (*entity.Subscriber, error) {
	var sub entity.Subscriber
	err := r.client.Post(ctx, backend.PathNewsletterSubscribe, emailRequest{Email: email}, &sub)

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict {
		return &entity.Subscriber{Email: email, Active: true, SubscribedAt: time.Now().UTC()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storing subscription: %w", err)
	}

	if sub.Email == "" {
		sub = entity.Subscriber{Email: email, Active: true, SubscribedAt: time.Now().UTC()}
	}
	return &sub, nil
}

// Unsubscribe deactivates an address
func (r *SubscriberUpstream) Unsubscribe(ctx context.Context, email string) error {
	err := r.client.Post(ctx, backend.PathNewsletterUnsubscribe, emailRequest{Email: email}, nil)
	if err != nil && !backend.IsNotFound(err) {
		return fmt.Errorf("removing subscription: %w", err)
	}
	return nil
}

// List retrieves subscribers
func (r *SubscriberUpstream) List(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error) {
	q := url.Values{}
	if activeOnly {
		q.Set("active", "true")
	}

	var subs []entity.Subscriber
	if err := r.client.Get(ctx, backend.PathNewsletterSubscribers, q, &subs); err != nil {
		return nil, fmt.Errorf("fetching subscribers: %w", err)
	}
	return subs, nil
}

// Send asks the backend to deliver a campaign
func (r *SubscriberUpstream) Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error) {
	var d entity.Delivery
	if err := r.client.Post(ctx, backend.PathNewsletterSend, c, &d); err != nil {
		return nil, fmt.Errorf("delivering campaign: %w", err)
	}
	return &d, nil
}
