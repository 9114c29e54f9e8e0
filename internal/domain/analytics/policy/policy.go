package policy

import (
	"context"
	"log/slog"

	"github.com/athena-eo/observatory/internal/domain/analytics/entity"
	"github.com/athena-eo/observatory/internal/domain/analytics/service"
)

// AnalyticsService defines the interface for the analytics service
type AnalyticsService interface {
	Track(ctx context.Context, in service.TrackInput) (*entity.Event, error)
	Stats(ctx context.Context, days int) (*entity.Stats, error)
	Cleanup(ctx context.Context) (*entity.CleanupResult, error)
}

// Policy keeps tracking invisible to visitors and exposes stats and cleanup to admins
type Policy struct {
	svc    AnalyticsService
	logger *slog.Logger
}

// New creates a new analytics policy
func New(svc AnalyticsService, logger *slog.Logger) *Policy {
	return &Policy{svc: svc, logger: logger}
}

// Track records a page view. Failures are logged, never returned.
func (p *Policy) Track(ctx context.Context, in service.TrackInput) {
	if _, err := p.svc.Track(ctx, in); err != nil {
		p.logger.DebugContext(ctx, "page view not tracked", "page", in.Page, "error", err)
	}
}

// Stats returns traffic stats for admins
func (p *Policy) Stats(ctx context.Context, days int) (*entity.Stats, error) {
	return p.svc.Stats(ctx, days)
}

// Cleanup deletes expired events on admin request
func (p *Policy) Cleanup(ctx context.Context) (*entity.CleanupResult, error) {
	res, err := p.svc.Cleanup(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "analytics cleanup", "deleted", res.Deleted, "before", res.Before)
	return res, nil
}

// ProcessCleanup runs one scheduled cleanup
func (p *Policy) ProcessCleanup(ctx context.Context) error {
	_, err := p.Cleanup(ctx)
	return err
}
