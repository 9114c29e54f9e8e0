package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
	"github.com/athena-eo/observatory/internal/fallback"
)

var errBackendDown = errors.New("backend unavailable")

// failingService fails every call, like an unreachable backend
type failingService struct{}

func (failingService) ListStates(ctx context.Context) ([]entity.State, error) {
	return nil, errBackendDown
}
func (failingService) GetState(ctx context.Context, slug string) (*entity.State, error) {
	return nil, errBackendDown
}
func (failingService) SaveStates(ctx context.Context, states []entity.State) ([]entity.State, error) {
	return nil, errBackendDown
}
func (failingService) GetStats(ctx context.Context, slug string) (*entity.StateStats, error) {
	return nil, errBackendDown
}
func (failingService) SaveStats(ctx context.Context, slug string, stats *entity.StateStats) (*entity.StateStats, error) {
	return nil, errBackendDown
}
func (failingService) GetLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error) {
	return nil, errBackendDown
}
func (failingService) SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) (*entity.LGABreakdown, error) {
	return nil, errBackendDown
}
func (failingService) GetHighlights(ctx context.Context, slug string) (*entity.Highlights, error) {
	return nil, errBackendDown
}
func (failingService) SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) (*entity.Highlights, error) {
	return nil, errBackendDown
}

// liveService answers from fixed data
type liveService struct {
	failingService
}

func (liveService) GetStats(ctx context.Context, slug string) (*entity.StateStats, error) {
	return &entity.StateStats{State: "Live", Candidates: []entity.Candidate{{Name: "Live Candidate"}}}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublicReadsFallBackOnBackendFailure(t *testing.T) {
	fb := fallback.MustLoad()
	p := New(failingService{}, fb, testLogger())
	ctx := context.Background()

	assert.Equal(t, fb.ListStates(), p.States(ctx))
	assert.Equal(t, "Anambra", p.State(ctx, "anambra").Name)
	assert.Equal(t, fb.StateStats("anambra"), p.Stats(ctx, "anambra"))
	assert.Equal(t, fb.LGABreakdown("anambra"), p.LGABreakdown(ctx, "anambra"))
	assert.Equal(t, fb.HighlightCards("anambra"), p.Highlights(ctx, "anambra"))
}

func TestDashboardFallsBackPerSection(t *testing.T) {
	fb := fallback.MustLoad()
	p := New(liveService{}, fb, testLogger())

	d := p.Dashboard(context.Background(), "anambra")

	assert.Equal(t, "Live", d.Stats.State)
	assert.Equal(t, "Anambra", d.State.Name)
	assert.NotEmpty(t, d.LGA.LGAs)
	assert.NotEmpty(t, d.Highlights.Cards)
}

func TestUnknownStateRendersEmptyState(t *testing.T) {
	p := New(failingService{}, fallback.MustLoad(), testLogger())

	d := p.Dashboard(context.Background(), "cross-river")
	assert.Equal(t, "Cross River", d.State.Name)
	assert.Empty(t, d.Stats.Candidates)
	assert.Empty(t, d.LGA.LGAs)
	assert.Empty(t, d.Highlights.Cards)
}

func TestAdminOperationsSurfaceErrors(t *testing.T) {
	p := New(failingService{}, fallback.MustLoad(), testLogger())
	ctx := context.Background()

	_, err := p.AdminStates(ctx)
	require.ErrorIs(t, err, errBackendDown)

	_, err = p.SaveStats(ctx, "anambra", &entity.StateStats{})
	require.ErrorIs(t, err, errBackendDown)

	_, err = p.SaveLGABreakdown(ctx, "anambra", &entity.LGABreakdown{})
	require.ErrorIs(t, err, errBackendDown)

	_, err = p.SaveHighlights(ctx, "anambra", &entity.Highlights{})
	require.ErrorIs(t, err, errBackendDown)
}
