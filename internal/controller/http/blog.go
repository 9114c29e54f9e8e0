package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/athena-eo/observatory/internal/domain/blog/entity"
	"github.com/athena-eo/observatory/internal/domain/blog/service"
	"github.com/athena-eo/observatory/internal/httpx/response"
)

// BlogPolicy defines the interface for blog operations
type BlogPolicy interface {
	Posts(ctx context.Context, category string) []entity.Post
	Post(ctx context.Context, slug string) (*entity.Post, error)

	AdminPosts(ctx context.Context, category string) ([]entity.Post, error)
	AdminPost(ctx context.Context, id string) (*entity.Post, error)
	Create(ctx context.Context, in service.CreateInput) (*entity.Post, error)
	Update(ctx context.Context, in service.UpdateInput) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
}

// BlogHandler handles HTTP requests for blog posts
type BlogHandler struct {
	policy BlogPolicy
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(p BlogPolicy) *BlogHandler {
	return &BlogHandler{policy: p}
}

// RegisterRoutes registers public blog routes
func (h *BlogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/blog", func(r chi.Router) {
		r.Get("/", h.List())
		r.Get("/{slug}", h.GetBySlug())
	})
}

// RegisterAdminRoutes registers blog management routes
func (h *BlogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/blog", func(r chi.Router) {
		r.Get("/", h.AdminList())
		r.Post("/", h.Create())
		r.Get("/{postId}", h.GetByID())
		r.Put("/{postId}", h.Update())
		r.Delete("/{postId}", h.Delete())
	})
}

// List handles GET /blog?category=
func (h *BlogHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.Posts(r.Context(), r.URL.Query().Get("category")))
	}
}

// GetBySlug handles GET /blog/{slug}
func (h *BlogHandler) GetBySlug() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.policy.Post(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			handleBlogError(w, err)
			return
		}
		response.OK(w, post)
	}
}

// AdminList handles GET /admin/blog?category=
func (h *BlogHandler) AdminList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.policy.AdminPosts(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			handleBlogError(w, err)
			return
		}
		response.OK(w, posts)
	}
}

// GetByID handles GET /admin/blog/{postId}
func (h *BlogHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.policy.AdminPost(r.Context(), chi.URLParam(r, "postId"))
		if err != nil {
			handleBlogError(w, err)
			return
		}
		response.OK(w, post)
	}
}

// CreatePostRequest is the body of POST /admin/blog
type CreatePostRequest struct {
	Title            string `json:"title"`
	Slug             string `json:"slug,omitempty"`
	Summary          string `json:"summary,omitempty"`
	ExecutiveSummary string `json:"executive_summary,omitempty"`
	Content          string `json:"content"`
	ContentFormat    string `json:"content_format,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	Category         string `json:"category,omitempty"`
	Author           string `json:"author,omitempty"`
}

// Create handles POST /admin/blog
func (h *BlogHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePostRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		post, err := h.policy.Create(r.Context(), service.CreateInput{
			Title:            req.Title,
			Slug:             req.Slug,
			Summary:          req.Summary,
			ExecutiveSummary: req.ExecutiveSummary,
			Content:          req.Content,
			ContentFormat:    req.ContentFormat,
			ImageURL:         req.ImageURL,
			Category:         req.Category,
			Author:           req.Author,
		})
		if err != nil {
			handleBlogError(w, err)
			return
		}
		response.Created(w, post)
	}
}

// UpdatePostRequest is the body of PUT /admin/blog/{postId}; absent fields are kept
type UpdatePostRequest struct {
	Title            *string `json:"title,omitempty"`
	Slug             *string `json:"slug,omitempty"`
	Summary          *string `json:"summary,omitempty"`
	ExecutiveSummary *string `json:"executive_summary,omitempty"`
	Content          *string `json:"content,omitempty"`
	ContentFormat    string  `json:"content_format,omitempty"`
	ImageURL         *string `json:"image_url,omitempty"`
	Category         *string `json:"category,omitempty"`
	Author           *string `json:"author,omitempty"`
}

// Update handles PUT /admin/blog/{postId}
func (h *BlogHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdatePostRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		post, err := h.policy.Update(r.Context(), service.UpdateInput{
			ID:               chi.URLParam(r, "postId"),
			Title:            req.Title,
			Slug:             req.Slug,
			Summary:          req.Summary,
			ExecutiveSummary: req.ExecutiveSummary,
			Content:          req.Content,
			ContentFormat:    req.ContentFormat,
			ImageURL:         req.ImageURL,
			Category:         req.Category,
			Author:           req.Author,
		})
		if err != nil {
			handleBlogError(w, err)
			return
		}
		response.OK(w, post)
	}
}

// Delete handles DELETE /admin/blog/{postId}
func (h *BlogHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Delete(r.Context(), chi.URLParam(r, "postId")); err != nil {
			handleBlogError(w, err)
			return
		}
		response.NoContent(w)
	}
}

func handleBlogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrPostNotFound):
		response.NotFound(w, entity.ErrPostNotFound.Error())
	case errors.Is(err, entity.ErrSlugTaken):
		response.Conflict(w, entity.ErrSlugTaken.Error())
	case errors.Is(err, entity.ErrEmptyTitle),
		errors.Is(err, entity.ErrEmptyContent),
		errors.Is(err, entity.ErrTitleTooLong),
		errors.Is(err, entity.ErrSummaryTooLong),
		errors.Is(err, entity.ErrInvalidSlug),
		errors.Is(err, entity.ErrInvalidContentFormat):
		response.BadRequest(w, err.Error())
	default:
		handleBackendError(w, err)
	}
}
