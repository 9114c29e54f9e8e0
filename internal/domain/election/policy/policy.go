package policy

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
	"github.com/athena-eo/observatory/internal/fallback"
)

// ElectionService defines the interface for the election service
type ElectionService interface {
	ListStates(ctx context.Context) ([]entity.State, error)
	GetState(ctx context.Context, slug string) (*entity.State, error)
	SaveStates(ctx context.Context, states []entity.State) ([]entity.State, error)
	GetStats(ctx context.Context, slug string) (*entity.StateStats, error)
	SaveStats(ctx context.Context, slug string, stats *entity.StateStats) (*entity.StateStats, error)
	GetLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error)
	SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) (*entity.LGABreakdown, error)
	GetHighlights(ctx context.Context, slug string) (*entity.Highlights, error)
	SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) (*entity.Highlights, error)
}

// Policy serves election data to public visitors and admins.
// Public reads never fail: backend errors are logged and replaced with
// fallback content. Admin operations return errors unchanged.
type Policy struct {
	svc      ElectionService
	fallback *fallback.Content
	logger   *slog.Logger
}

// New creates a new election policy
func New(svc ElectionService, fb *fallback.Content, logger *slog.Logger) *Policy {
	return &Policy{svc: svc, fallback: fb, logger: logger}
}

// Dashboard is everything the dashboard shows for one state
type Dashboard struct {
	State      entity.State        `json:"state"`
	Stats      entity.StateStats   `json:"stats"`
	LGA        entity.LGABreakdown `json:"lga"`
	Highlights entity.Highlights   `json:"highlights"`
}

// States returns the election states for public display
func (p *Policy) States(ctx context.Context) []entity.State {
	states, err := p.svc.ListStates(ctx)
	if err != nil {
		p.degrade(ctx, "states", "", err)
		return p.fallback.ListStates()
	}
	return states
}

// State returns one state for public display
func (p *Policy) State(ctx context.Context, slug string) entity.State {
	state, err := p.svc.GetState(ctx, slug)
	if err != nil {
		p.degrade(ctx, "state", slug, err)
		return p.fallback.State(slug)
	}
	return *state
}

// Stats returns candidate results and polling stats for public display
func (p *Policy) Stats(ctx context.Context, slug string) entity.StateStats {
	stats, err := p.svc.GetStats(ctx, slug)
	if err != nil {
		p.degrade(ctx, "stats", slug, err)
		return p.fallback.StateStats(slug)
	}
	return *stats
}

// LGABreakdown returns the LGA breakdown for public display
func (p *Policy) LGABreakdown(ctx context.Context, slug string) entity.LGABreakdown {
	lga, err := p.svc.GetLGABreakdown(ctx, slug)
	if err != nil {
		p.degrade(ctx, "lga", slug, err)
		return p.fallback.LGABreakdown(slug)
	}
	return *lga
}

// Highlights returns the highlight cards for public display
func (p *Policy) Highlights(ctx context.Context, slug string) entity.Highlights {
	h, err := p.svc.GetHighlights(ctx, slug)
	if err != nil {
		p.degrade(ctx, "highlights", slug, err)
		return p.fallback.HighlightCards(slug)
	}
	return *h
}

// Dashboard loads state, stats, LGA breakdown and highlights concurrently
func (p *Policy) Dashboard(ctx context.Context, slug string) Dashboard {
	var d Dashboard

	// each loader degrades on its own, so the group never returns an error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { d.State = p.State(gctx, slug); return nil })
	g.Go(func() error { d.Stats = p.Stats(gctx, slug); return nil })
	g.Go(func() error { d.LGA = p.LGABreakdown(gctx, slug); return nil })
	g.Go(func() error { d.Highlights = p.Highlights(gctx, slug); return nil })
	_ = g.Wait()

	return d
}

// AdminStates lists states without fallback
func (p *Policy) AdminStates(ctx context.Context) ([]entity.State, error) {
	return p.svc.ListStates(ctx)
}

// SaveStates replaces the list of election states
func (p *Policy) SaveStates(ctx context.Context, states []entity.State) ([]entity.State, error) {
	out, err := p.svc.SaveStates(ctx, states)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "election states saved", "count", len(out))
	return out, nil
}

// AdminStats returns stats without fallback
func (p *Policy) AdminStats(ctx context.Context, slug string) (*entity.StateStats, error) {
	return p.svc.GetStats(ctx, slug)
}

// SaveStats stores candidate results and polling stats
func (p *Policy) SaveStats(ctx context.Context, slug string, stats *entity.StateStats) (*entity.StateStats, error) {
	out, err := p.svc.SaveStats(ctx, slug, stats)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "state stats saved", "state", slug, "candidates", len(out.Candidates))
	return out, nil
}

// AdminLGABreakdown returns the LGA breakdown without fallback
func (p *Policy) AdminLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error) {
	return p.svc.GetLGABreakdown(ctx, slug)
}

// SaveLGABreakdown stores the LGA breakdown
func (p *Policy) SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) (*entity.LGABreakdown, error) {
	out, err := p.svc.SaveLGABreakdown(ctx, slug, lga)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "LGA breakdown saved", "state", slug, "lgas", len(out.LGAs))
	return out, nil
}

// AdminHighlights returns highlight cards without fallback
func (p *Policy) AdminHighlights(ctx context.Context, slug string) (*entity.Highlights, error) {
	return p.svc.GetHighlights(ctx, slug)
}

// SaveHighlights stores highlight cards
func (p *Policy) SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) (*entity.Highlights, error) {
	out, err := p.svc.SaveHighlights(ctx, slug, h)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "highlights saved", "state", slug, "cards", len(out.Cards))
	return out, nil
}

func (p *Policy) degrade(ctx context.Context, what, slug string, err error) {
	// a state that simply has no data yet is not worth a warning
	if errors.Is(err, entity.ErrStateNotFound) {
		p.logger.DebugContext(ctx, "no election data, serving fallback", "resource", what, "state", slug)
		return
	}
	p.logger.WarnContext(ctx, "backend unavailable, serving fallback", "resource", what, "state", slug, "error", err)
}
