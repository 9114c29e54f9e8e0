package policy

import (
	"context"
	"errors"
	"log/slog"

	"github.com/athena-eo/observatory/internal/domain/blog/entity"
	"github.com/athena-eo/observatory/internal/domain/blog/service"
	"github.com/athena-eo/observatory/internal/fallback"
)

// BlogService defines the interface for the blog service
type BlogService interface {
	Create(ctx context.Context, in service.CreateInput) (*entity.Post, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	Update(ctx context.Context, in service.UpdateInput) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter service.ListFilter) ([]entity.Post, error)
}

// Policy serves blog posts to visitors and admins.
// Public reads fall back to the sample posts when the backend fails.
type Policy struct {
	svc      BlogService
	fallback *fallback.Content
	logger   *slog.Logger
}

// New creates a new blog policy
func New(svc BlogService, fb *fallback.Content, logger *slog.Logger) *Policy {
	return &Policy{svc: svc, fallback: fb, logger: logger}
}

// Posts lists published posts for visitors
func (p *Policy) Posts(ctx context.Context, category string) []entity.Post {
	posts, err := p.svc.List(ctx, service.ListFilter{Category: category})
	if err != nil {
		p.logger.WarnContext(ctx, "backend unavailable, serving sample posts", "category", category, "error", err)
		return p.fallback.ListPosts(category)
	}
	return posts
}

// Post returns a post for visitors. It reports ErrPostNotFound only when
// neither the backend nor the sample content knows the slug.
func (p *Policy) Post(ctx context.Context, slug string) (*entity.Post, error) {
	post, err := p.svc.GetBySlug(ctx, slug)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, entity.ErrPostNotFound) {
		p.logger.WarnContext(ctx, "backend unavailable, serving sample post", "slug", slug, "error", err)
	}

	sample, ok := p.fallback.PostBySlug(slug)
	if !ok {
		return nil, entity.ErrPostNotFound
	}
	return &sample, nil
}

// AdminPosts lists posts without fallback
func (p *Policy) AdminPosts(ctx context.Context, category string) ([]entity.Post, error) {
	return p.svc.List(ctx, service.ListFilter{Category: category})
}

// AdminPost returns a post by ID without fallback
func (p *Policy) AdminPost(ctx context.Context, id string) (*entity.Post, error) {
	return p.svc.GetByID(ctx, id)
}

// Create publishes a new post
func (p *Policy) Create(ctx context.Context, in service.CreateInput) (*entity.Post, error) {
	post, err := p.svc.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "post published", "id", post.ID, "slug", post.Slug)
	return post, nil
}

// Update edits a post
func (p *Policy) Update(ctx context.Context, in service.UpdateInput) (*entity.Post, error) {
	post, err := p.svc.Update(ctx, in)
	if err != nil {
		return nil, err
	}
	p.logger.InfoContext(ctx, "post updated", "id", post.ID, "slug", post.Slug)
	return post, nil
}

// Delete removes a post
func (p *Policy) Delete(ctx context.Context, id string) error {
	if err := p.svc.Delete(ctx, id); err != nil {
		return err
	}
	p.logger.InfoContext(ctx, "post deleted", "id", id)
	return nil
}
