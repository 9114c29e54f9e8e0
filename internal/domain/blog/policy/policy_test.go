package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athena-eo/observatory/internal/domain/blog/entity"
	"github.com/athena-eo/observatory/internal/domain/blog/service"
	"github.com/athena-eo/observatory/internal/fallback"
)

type stubService struct {
	posts []entity.Post
	err   error
}

func (s stubService) Create(ctx context.Context, in service.CreateInput) (*entity.Post, error) {
	return nil, s.err
}
func (s stubService) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return nil, s.err
}
func (s stubService) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, p := range s.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, entity.ErrPostNotFound
}
func (s stubService) Update(ctx context.Context, in service.UpdateInput) (*entity.Post, error) {
	return nil, s.err
}
func (s stubService) Delete(ctx context.Context, id string) error {
	return s.err
}
func (s stubService) List(ctx context.Context, filter service.ListFilter) ([]entity.Post, error) {
	return s.posts, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPostsFallBackToSamples(t *testing.T) {
	fb := fallback.MustLoad()
	p := New(stubService{err: errors.New("dial tcp: connection refused")}, fb, testLogger())
	ctx := context.Background()

	assert.Equal(t, fb.ListPosts(""), p.Posts(ctx, ""))
	assert.Equal(t, fb.ListPosts("Guides"), p.Posts(ctx, "Guides"))

	post, err := p.Post(ctx, "what-low-turnout-in-anambra-tells-us")
	require.NoError(t, err)
	assert.Equal(t, "sample-anambra-turnout", post.ID)

	_, err = p.Post(ctx, "unknown-post")
	assert.ErrorIs(t, err, entity.ErrPostNotFound)
}

func TestPostsFromBackend(t *testing.T) {
	live := []entity.Post{{ID: "1", Slug: "live", Title: "Live"}}
	p := New(stubService{posts: live}, fallback.MustLoad(), testLogger())
	ctx := context.Background()

	assert.Equal(t, live, p.Posts(ctx, ""))

	post, err := p.Post(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, "Live", post.Title)
}

func TestAdminSurfacesErrors(t *testing.T) {
	boom := errors.New("backend 500")
	p := New(stubService{err: boom}, fallback.MustLoad(), testLogger())
	ctx := context.Background()

	_, err := p.AdminPosts(ctx, "")
	assert.ErrorIs(t, err, boom)
	_, err = p.Create(ctx, service.CreateInput{})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.Delete(ctx, "1"), boom)
}
