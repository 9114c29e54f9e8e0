package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/athena-eo/observatory/internal/domain/analytics/entity"
)

// EventRepository defines the interface for visitor event storage
type EventRepository interface {
	Track(ctx context.Context, e *entity.Event) error
	Stats(ctx context.Context, days int, now time.Time) (*entity.Stats, error)
	DeleteBefore(ctx context.Context, before time.Time) (int64, error)
}

// Service handles visitor analytics business logic
type Service struct {
	repo          EventRepository
	retentionDays int
	now           func() time.Time
}

// New creates a new analytics service
func New(repo EventRepository, retentionDays int) *Service {
	return &Service{repo: repo, retentionDays: retentionDays, now: time.Now}
}

// TrackInput represents a page view reported by the site
type TrackInput struct {
	VisitorID  string
	Page       string
	UserAgent  string
	DeviceType string
	Browser    string
	ScreenSize string
	Referrer   string
}

// Track records a page view. Device type and browser come from the
// User-Agent when the client did not report them.
func (s *Service) Track(ctx context.Context, in TrackInput) (*entity.Event, error) {
	e := &entity.Event{
		VisitorID:  strings.TrimSpace(in.VisitorID),
		Page:       strings.TrimSpace(in.Page),
		DeviceType: strings.ToLower(strings.TrimSpace(in.DeviceType)),
		Browser:    strings.TrimSpace(in.Browser),
		ScreenSize: strings.TrimSpace(in.ScreenSize),
		Referrer:   strings.TrimSpace(in.Referrer),
		Timestamp:  s.now().UTC(),
	}
	if e.DeviceType == "" {
		e.DeviceType = entity.DeviceType(in.UserAgent)
	}
	if e.Browser == "" {
		e.Browser = entity.Browser(in.UserAgent)
	}
	e.Truncate()

	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Track(ctx, e); err != nil {
		return nil, fmt.Errorf("tracking event: %w", err)
	}
	return e, nil
}

// Stats summarises traffic for the last days days
func (s *Service) Stats(ctx context.Context, days int) (*entity.Stats, error) {
	days = ClampDays(days)

	stats, err := s.repo.Stats(ctx, days, s.now())
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	if stats.Days == 0 {
		stats.Days = days
	}
	stats.ApplyDefaults()
	return stats, nil
}

// Cleanup deletes events older than the retention window
func (s *Service) Cleanup(ctx context.Context) (*entity.CleanupResult, error) {
	before := s.now().UTC().AddDate(0, 0, -s.retentionDays)

	deleted, err := s.repo.DeleteBefore(ctx, before)
	if err != nil {
		return nil, fmt.Errorf("cleaning up events: %w", err)
	}
	return &entity.CleanupResult{Deleted: deleted, Before: before}, nil
}

// ClampDays applies the default and maximum stats window
func ClampDays(days int) int {
	switch {
	case days <= 0:
		return entity.DefaultStatsDays
	case days > entity.MaxStatsDays:
		return entity.MaxStatsDays
	default:
		return days
	}
}
