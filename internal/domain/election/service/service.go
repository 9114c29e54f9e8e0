package service

import (
	"context"
	"fmt"
	"time"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
)

// ElectionRepository defines the interface for election data storage.
// Getters return (nil, nil) when the record does not exist.
type ElectionRepository interface {
	ListStates(ctx context.Context) ([]entity.State, error)
	GetState(ctx context.Context, slug string) (*entity.State, error)
	SaveStates(ctx context.Context, states []entity.State) error

	GetStats(ctx context.Context, slug string) (*entity.StateStats, error)
	SaveStats(ctx context.Context, slug string, stats *entity.StateStats) error

	GetLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error)
	SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) error

	GetHighlights(ctx context.Context, slug string) (*entity.Highlights, error)
	SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) error
}

// Service handles election data business logic
type Service struct {
	repo ElectionRepository
	now  func() time.Time
}

// New creates a new election service
func New(repo ElectionRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListStates returns all election states
func (s *Service) ListStates(ctx context.Context) ([]entity.State, error) {
	states, err := s.repo.ListStates(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing states: %w", err)
	}
	for i := range states {
		states[i].ApplyDefaults()
	}
	if states == nil {
		states = []entity.State{}
	}
	return states, nil
}

// GetState returns a single state by slug
func (s *Service) GetState(ctx context.Context, slug string) (*entity.State, error) {
	state, err := s.repo.GetState(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting state: %w", err)
	}
	if state == nil {
		return nil, entity.ErrStateNotFound
	}
	state.ApplyDefaults()
	return state, nil
}

// SaveStates replaces the list of election states
func (s *Service) SaveStates(ctx context.Context, states []entity.State) ([]entity.State, error) {
	now := s.now()
	seen := make(map[string]struct{}, len(states))
	out := make([]entity.State, 0, len(states))

	for _, st := range states {
		st.ApplyDefaults()
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("state %q: %w", st.Name, err)
		}
		// later duplicates win over earlier ones
		if _, dup := seen[st.Slug]; dup {
			for i := range out {
				if out[i].Slug == st.Slug {
					out = append(out[:i], out[i+1:]...)
					break
				}
			}
		}
		seen[st.Slug] = struct{}{}
		st.UpdatedAt = &now
		out = append(out, st)
	}

	if err := s.repo.SaveStates(ctx, out); err != nil {
		return nil, fmt.Errorf("saving states: %w", err)
	}
	return out, nil
}

// GetStats returns candidate results and polling stats for a state
func (s *Service) GetStats(ctx context.Context, slug string) (*entity.StateStats, error) {
	stats, err := s.repo.GetStats(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting stats: %w", err)
	}
	if stats == nil {
		return nil, entity.ErrStateNotFound
	}
	stats.ApplyDefaults()
	return stats, nil
}

// SaveStats validates and stores stats for a state
func (s *Service) SaveStats(ctx context.Context, slug string, stats *entity.StateStats) (*entity.StateStats, error) {
	if stats.State == "" {
		stats.State = entity.StateNameFromSlug(slug)
	}
	if err := stats.Validate(); err != nil {
		return nil, err
	}
	stats.ApplyDefaults()
	now := s.now()
	stats.UpdatedAt = &now

	if err := s.repo.SaveStats(ctx, slug, stats); err != nil {
		return nil, fmt.Errorf("saving stats: %w", err)
	}
	return stats, nil
}

// GetLGABreakdown returns the LGA breakdown for a state
func (s *Service) GetLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error) {
	lga, err := s.repo.GetLGABreakdown(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting LGA breakdown: %w", err)
	}
	if lga == nil {
		return nil, entity.ErrStateNotFound
	}
	lga.ApplyDefaults()
	return lga, nil
}

// SaveLGABreakdown validates and stores the LGA breakdown for a state
func (s *Service) SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) (*entity.LGABreakdown, error) {
	if lga.State == "" {
		lga.State = entity.StateNameFromSlug(slug)
	}
	if err := lga.Validate(); err != nil {
		return nil, err
	}
	lga.ApplyDefaults()
	now := s.now()
	lga.UpdatedAt = &now

	if err := s.repo.SaveLGABreakdown(ctx, slug, lga); err != nil {
		return nil, fmt.Errorf("saving LGA breakdown: %w", err)
	}
	return lga, nil
}

// GetHighlights returns the highlight cards for a state
func (s *Service) GetHighlights(ctx context.Context, slug string) (*entity.Highlights, error) {
	h, err := s.repo.GetHighlights(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting highlights: %w", err)
	}
	if h == nil {
		return nil, entity.ErrStateNotFound
	}
	h.ApplyDefaults()
	return h, nil
}

// SaveHighlights validates and stores the highlight cards for a state
func (s *Service) SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) (*entity.Highlights, error) {
	if h.State == "" {
		h.State = entity.StateNameFromSlug(slug)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	h.ApplyDefaults()
	now := s.now()
	h.UpdatedAt = &now

	if err := s.repo.SaveHighlights(ctx, slug, h); err != nil {
		return nil, fmt.Errorf("saving highlights: %w", err)
	}
	return h, nil
}
