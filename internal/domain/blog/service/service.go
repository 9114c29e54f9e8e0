package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/athena-eo/observatory/internal/content"
	"github.com/athena-eo/observatory/internal/domain/blog/entity"
)

// PostRepository defines the interface for blog post storage.
// Getters return (nil, nil) when the post does not exist.
type PostRepository interface {
	List(ctx context.Context, filter ListFilter) ([]entity.Post, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	Create(ctx context.Context, post *entity.Post) error
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
}

// ListFilter contains filters for listing posts
type ListFilter struct {
	Category string
	Limit    int
}

// Renderer turns submitted bodies into safe HTML
type Renderer interface {
	Markdown(src string) (string, error)
	Sanitize(body string) string
}

// summaryExcerptLength is used when a post is saved without a summary
const summaryExcerptLength = 200

// Service handles blog business logic
type Service struct {
	repo     PostRepository
	renderer Renderer
	now      func() time.Time
}

// New creates a new blog service
func New(repo PostRepository, renderer Renderer) *Service {
	return &Service{repo: repo, renderer: renderer, now: time.Now}
}

// CreateInput represents input for creating a post
type CreateInput struct {
	Title            string
	Slug             string
	Summary          string
	ExecutiveSummary string
	Content          string
	ContentFormat    string
	ImageURL         string
	Category         string
	Author           string
}

// Create creates a new post
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	body, err := s.render(in.Content, in.ContentFormat)
	if err != nil {
		return nil, err
	}

	slug, err := normalizeSlug(in.Slug)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := &entity.Post{
		Title:            strings.TrimSpace(in.Title),
		Slug:             slug,
		Summary:          strings.TrimSpace(in.Summary),
		ExecutiveSummary: s.renderer.Sanitize(in.ExecutiveSummary),
		Content:          body,
		ImageURL:         strings.TrimSpace(in.ImageURL),
		Category:         strings.TrimSpace(in.Category),
		Author:           strings.TrimSpace(in.Author),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.applyDefaults(post)

	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, post.Slug, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	return post, nil
}

// GetByID retrieves a post by ID
func (s *Service) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting post: %w", err)
	}
	if post == nil {
		return nil, entity.ErrPostNotFound
	}
	return post, nil
}

// GetBySlug retrieves a post by slug
func (s *Service) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("getting post by slug: %w", err)
	}
	if post == nil {
		return nil, entity.ErrPostNotFound
	}
	return post, nil
}

// UpdateInput represents input for updating a post. Nil fields are left unchanged.
type UpdateInput struct {
	ID               string
	Title            *string
	Slug             *string
	Summary          *string
	ExecutiveSummary *string
	Content          *string
	ContentFormat    string
	ImageURL         *string
	Category         *string
	Author           *string
}

// Update updates an existing post
func (s *Service) Update(ctx context.Context, in UpdateInput) (*entity.Post, error) {
	post, err := s.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		slug, err := normalizeSlug(*in.Slug)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}
	if in.Summary != nil {
		post.Summary = strings.TrimSpace(*in.Summary)
	}
	if in.ExecutiveSummary != nil {
		post.ExecutiveSummary = s.renderer.Sanitize(*in.ExecutiveSummary)
	}
	if in.Content != nil {
		body, err := s.render(*in.Content, in.ContentFormat)
		if err != nil {
			return nil, err
		}
		post.Content = body
	}
	if in.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Category != nil {
		post.Category = strings.TrimSpace(*in.Category)
	}
	if in.Author != nil {
		post.Author = strings.TrimSpace(*in.Author)
	}
	s.applyDefaults(post)
	post.UpdatedAt = s.now().UTC()

	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, post.Slug, post.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	return post, nil
}

// Delete removes a post
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

// List retrieves posts newest first, optionally filtered by category
func (s *Service) List(ctx context.Context, filter ListFilter) ([]entity.Post, error) {
	posts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	if posts == nil {
		posts = []entity.Post{}
	}
	return posts, nil
}

func (s *Service) render(body, format string) (string, error) {
	f, err := entity.ParseContentFormat(strings.ToLower(strings.TrimSpace(format)))
	if err != nil {
		return "", err
	}
	if f == entity.ContentFormatMarkdown {
		body, err = s.renderer.Markdown(body)
		if err != nil {
			return "", err
		}
	}
	return s.renderer.Sanitize(body), nil
}

// normalizeSlug reduces an admin-typed slug to the form the blog route accepts.
// A blank slug stays blank so it is derived from the title.
func normalizeSlug(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	slug := entity.SlugFromTitle(raw)
	if slug == "" {
		return "", entity.ErrInvalidSlug
	}
	return slug, nil
}

func (s *Service) applyDefaults(post *entity.Post) {
	if post.Slug == "" {
		post.Slug = entity.SlugFromTitle(post.Title)
	}
	if post.Category == "" {
		post.Category = entity.DefaultCategory
	}
	if post.Summary == "" && post.Content != "" {
		post.Summary = content.Excerpt(post.Content, summaryExcerptLength)
	}
}

func (s *Service) ensureSlugFree(ctx context.Context, slug, ownID string) error {
	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("checking slug: %w", err)
	}
	if existing != nil && existing.ID != ownID {
		return entity.ErrSlugTaken
	}
	return nil
}
