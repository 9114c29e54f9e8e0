package dao

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/athena-eo/observatory/internal/domain/blog/entity"
	"github.com/athena-eo/observatory/internal/domain/blog/service"
	"github.com/athena-eo/observatory/internal/httpx/upstream/backend"
)

// PostUpstream implements the post repository on the hosted backend
type PostUpstream struct {
	client *backend.Client
}

// NewPostUpstream creates a new backend-backed post repository
func NewPostUpstream(client *backend.Client) *PostUpstream {
	return &PostUpstream{client: client}
}

// List retrieves posts; the backend returns them newest first
func (r *PostUpstream) List(ctx context.Context, filter service.ListFilter) ([]entity.Post, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var posts []entity.Post
	if err := r.client.Get(ctx, backend.PathBlog, q, &posts); err != nil {
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	return posts, nil
}

// GetByID retrieves a post by ID
func (r *PostUpstream) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return r.get(ctx, backend.BlogPostPath(id))
}

// GetBySlug retrieves a post by slug
func (r *PostUpstream) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return r.get(ctx, backend.BlogSlugPath(slug))
}

func (r *PostUpstream) get(ctx context.Context, path string) (*entity.Post, error) {
	var post entity.Post
	if err := r.client.Get(ctx, path, nil, &post); err != nil {
		if backend.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching post: %w", err)
	}
	return &post, nil
}

// Create stores a new post; the backend assigns the ID
func (r *PostUpstream) Create(ctx context.Context, post *entity.Post) error {
	if err := r.client.Post(ctx, backend.PathBlog, post, post); err != nil {
		return fmt.Errorf("storing post: %w", err)
	}
	return nil
}

// Update replaces a post
func (r *PostUpstream) Update(ctx context.Context, post *entity.Post) error {
	if err := r.client.Put(ctx, backend.BlogPostPath(post.ID), post, nil); err != nil {
		return fmt.Errorf("updating post: %w", err)
	}
	return nil
}

// Delete removes a post
func (r *PostUpstream) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, backend.BlogPostPath(id)); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}
