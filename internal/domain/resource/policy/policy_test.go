package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
	"github.com/athena-eo/observatory/internal/domain/resource/service"
	"github.com/athena-eo/observatory/internal/fallback"
)

type downService struct{ err error }

func (s downService) List(ctx context.Context) ([]entity.Resource, error) { return nil, s.err }
func (s downService) Get(ctx context.Context, id string) (*entity.Resource, error) {
	return nil, s.err
}
func (s downService) Create(ctx context.Context, in service.CreateInput) (*entity.Resource, error) {
	return nil, s.err
}
func (s downService) Upload(ctx context.Context, in service.UploadInput) (*entity.Resource, error) {
	return nil, s.err
}
func (s downService) Update(ctx context.Context, in service.UpdateInput) (*entity.Resource, error) {
	return nil, s.err
}
func (s downService) Delete(ctx context.Context, id string) error { return s.err }

func TestResourcesFallBack(t *testing.T) {
	fb := fallback.MustLoad()
	boom := errors.New("context deadline exceeded")
	p := New(downService{err: boom}, fb, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	assert.Equal(t, fb.ListResources(), p.Resources(ctx))

	res, err := p.Resource(ctx, "sample-anambra-report")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Title)

	_, err = p.Resource(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrResourceNotFound)

	_, err = p.AdminResources(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.Delete(ctx, "x"), boom)
}
