package dao

import (
	"context"
	"fmt"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

// ElectionUpstream implements the election repository on the hosted backend
type ElectionUpstream struct {
	client *backend.Client
}

// NewElectionUpstream creates a new backend-backed election repository
func NewElectionUpstream(client *backend.Client) *ElectionUpstream {
	return &ElectionUpstream{client: client}
}

// ListStates retrieves all states
func (r *ElectionUpstream) ListStates(ctx context.Context) ([]entity.State, error) {
	var states []entity.State
	if err := r.client.Get(ctx, backend.PathStates, nil, &states); err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}
	return states, nil
}

// GetState retrieves a state by slug
func (r *ElectionUpstream) GetState(ctx context.Context, slug string) (*entity.State, error) {
	var state entity.State
	if err := r.client.Get(ctx, backend.StatePath(slug), nil, &state); err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching state: %w", err)
	}
	return &state, nil
}

// SaveStates replaces the state list
func (r *ElectionUpstream) SaveStates(ctx context.Context, states []entity.State) error {
	if err := r.client.Put(ctx, backend.PathStates, states, nil); err != nil {
		return fmt.Errorf("storing states: %w", err)
	}
	return nil
}

// GetStats retrieves candidate and polling stats
func (r *ElectionUpstream) GetStats(ctx context.Context, slug string) (*entity.StateStats, error) {
	var stats entity.StateStats
	if err := r.client.Get(ctx, backend.StateStatsPath(slug), nil, &stats); err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	return &stats, nil
}

// SaveStats stores candidate and polling stats
func (r *ElectionUpstream) SaveStats(ctx context.Context, slug string, stats *entity.StateStats) error {
	if err := r.client.Put(ctx, backend.StateStatsPath(slug), stats, nil); err != nil {
		return fmt.Errorf("storing stats: %w", err)
	}
	return nil
}

// GetLGABreakdown retrieves the LGA breakdown
func (r *ElectionUpstream) GetLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error) {
	var lga entity.LGABreakdown
	if err := r.client.Get(ctx, backend.StateLGAPath(slug), nil, &lga); err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching LGA breakdown: %w", err)
	}
	return &lga, nil
}

// SaveLGABreakdown stores the LGA breakdown
func (r *ElectionUpstream) SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) error {
	if err := r.client.Put(ctx, backend.StateLGAPath(slug), lga, nil); err != nil {
		return fmt.Errorf("storing LGA breakdown: %w", err)
	}
	return nil
}

// GetHighlights retrieves the highlight cards
func (r *ElectionUpstream) GetHighlights(ctx context.Context, slug string) (*entity.Highlights, error) {
	var h entity.Highlights
	if err := r.client.Get(ctx, backend.StateHighlightsPath(slug), nil, &h); err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching highlights: %w", err)
	}
	return &h, nil
}

// SaveHighlights stores the highlight cards
func (r *ElectionUpstream) SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) error {
	if err := r.client.Put(ctx, backend.StateHighlightsPath(slug), h, nil); err != nil {
		return fmt.Errorf("storing highlights: %w", err)
	}
	return nil
}
