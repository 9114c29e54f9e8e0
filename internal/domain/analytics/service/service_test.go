package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/analytics/entity"
)

type memoryRepo struct {
	events []entity.Event
	asked  int
}

func (m *memoryRepo) Track(ctx context.Context, e *entity.Event) error {
	m.events = append(m.events, *e)
	return nil
}

func (m *memoryRepo) Stats(ctx context.Context, days int, now time.Time) (*entity.Stats, error) {
	m.asked = days
	s := entity.Aggregate(m.events, days, now)
	return &s, nil
}

func (m *memoryRepo) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	kept := m.events[:0]
	var n int64
	for _, e := range m.events {
		if e.Timestamp.Before(before) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return n, nil
}

var fixedNow = time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo EventRepository) *Service {
	svc := New(repo, 90)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestTrackDerivesDeviceAndBrowser(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)

	e, err := svc.Track(context.Background(), TrackInput{
		VisitorID: "v1",
		Page:      "/aeo/dashboard/anambra",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Version/17.0 Mobile/15E148 Safari/604.1",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DeviceMobile, e.DeviceType)
	assert.Equal(t, "Safari", e.Browser)
	assert.Equal(t, fixedNow, e.Timestamp)
	assert.Len(t, repo.events, 1)
}

func TestTrackKeepsReportedValues(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	e, err := svc.Track(context.Background(), TrackInput{
		VisitorID:  "v1",
		Page:       "/aeo",
		DeviceType: "Tablet",
		Browser:    "Opera",
		UserAgent:  "curl/8.0",
		Referrer:   strings.Repeat("r", 2000),
	})
	require.NoError(t, err)
	assert.Equal(t, "tablet", e.DeviceType)
	assert.Equal(t, "Opera", e.Browser)
	assert.Len(t, e.Referrer, 512)
}

func TestTrackValidation(t *testing.T) {
	svc := newTestService(&memoryRepo{})

	_, err := svc.Track(context.Background(), TrackInput{VisitorID: "v"})
	assert.ErrorIs(t, err, entity.ErrEmptyPage)

	_, err = svc.Track(context.Background(), TrackInput{Page: "/aeo"})
	assert.ErrorIs(t, err, entity.ErrEmptyVisitorID)
}

func TestStatsWindow(t *testing.T) {
	repo := &memoryRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	s, err := svc.Stats(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultStatsDays, s.Days)
	assert.Equal(t, entity.DefaultStatsDays, repo.asked)

	_, err = svc.Stats(ctx, 10000)
	require.NoError(t, err)
	assert.Equal(t, entity.MaxStatsDays, repo.asked)
}

func TestCleanupUsesRetention(t *testing.T) {
	repo := &memoryRepo{events: []entity.Event{
		{VisitorID: "old", Page: "/", Timestamp: fixedNow.AddDate(0, 0, -91)},
		{VisitorID: "edge", Page: "/", Timestamp: fixedNow.AddDate(0, 0, -90)},
		{VisitorID: "new", Page: "/", Timestamp: fixedNow.AddDate(0, 0, -1)},
	}}
	svc := newTestService(repo)

	res, err := svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Deleted)
	assert.Equal(t, fixedNow.AddDate(0, 0, -90), res.Before)
	assert.Len(t, repo.events, 2)
}
