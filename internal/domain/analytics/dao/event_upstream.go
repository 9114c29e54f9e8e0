package dao

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/athena-eo/observatory/internal/domain/analytics/entity"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

// EventUpstream implements the event repository on the hosted backend
type EventUpstream struct {
	client *backend.Client
}

// NewEventUpstream creates a new backend-backed event repository
func NewEventUpstream(client *backend.Client) *EventUpstream {
	return &EventUpstream{client: client}
}

// Track sends a page view
func (r *EventUpstream) Track(ctx context.Context, e *entity.Event) error {
	if err := r.client.Post(ctx, backend.PathAnalyticsTrack, e, nil); err != nil {
		return fmt.Errorf("sending event: %w", err)
	}
	return nil
}

// Stats fetches aggregated stats; the backend computes the window itself
func (r *EventUpstream) Stats(ctx context.Context, days int, _ time.Time) (*entity.Stats, error) {
	var stats entity.Stats
	q := url.Values{"days": {strconv.Itoa(days)}}
	if err := r.client.Get(ctx, backend.PathAnalyticsStats, q, &stats); err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	return &stats, nil
}

type cleanupRequest struct {
	Before time.Time `json:"before"`
}

type cleanupResponse struct {
	Deleted int64 `json:"deleted"`
}

// DeleteBefore asks the backend to drop events older than before
func (r *EventUpstream) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	var out cleanupResponse
	if err := r.client.Post(ctx, backend.PathAnalyticsCleanup, cleanupRequest{Before: before}, &out); err != nil {
		return 0, fmt.Errorf("cleaning up events: %w", err)
	}
	return out.Deleted, nil
}
