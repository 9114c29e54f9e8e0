package http

import (
	"context"
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/athena-eo/observatory/internal/domain/resource/entity"
	"github.com/athena-eo/observatory/internal/domain/resource/service"
	"github.com/athena-eo/observatory/internal/httpx/response"
)

// multipartOverhead leaves room for form fields next to the file itself
const multipartOverhead = 1 << 20

// ResourcePolicy defines the interface for PDF resource operations
type ResourcePolicy interface {
	Resources(ctx context.Context) []entity.Resource
	Resource(ctx context.Context, id string) (*entity.Resource, error)

	AdminResources(ctx context.Context) ([]entity.Resource, error)
	Create(ctx context.Context, in service.CreateInput) (*entity.Resource, error)
	Upload(ctx context.Context, in service.UploadInput) (*entity.Resource, error)
	Update(ctx context.Context, in service.UpdateInput) (*entity.Resource, error)
	Delete(ctx context.Context, id string) error
}

// ResourceHandler handles HTTP requests for PDF reports
type ResourceHandler struct {
	policy ResourcePolicy
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(p ResourcePolicy) *ResourceHandler {
	return &ResourceHandler{policy: p}
}

// RegisterRoutes registers public resource routes
func (h *ResourceHandler) RegisterRoutes(r chi.Router) {
	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.List())
		r.Get("/{resourceId}", h.GetByID())
	})
}

// RegisterAdminRoutes registers resource management routes
func (h *ResourceHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/resources", func(r chi.Router) {
		r.Get("/", h.AdminList())
		r.Post("/", h.Create())
		r.Post("/upload", h.Upload())
		r.Put("/{resourceId}", h.Update())
		r.Delete("/{resourceId}", h.Delete())
	})
}

// List handles GET /resources
func (h *ResourceHandler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.Resources(r.Context()))
	}
}

// GetByID handles GET /resources/{resourceId}
func (h *ResourceHandler) GetByID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.policy.Resource(r.Context(), chi.URLParam(r, "resourceId"))
		if err != nil {
			handleResourceError(w, err)
			return
		}
		response.OK(w, res)
	}
}

// AdminList handles GET /admin/resources
func (h *ResourceHandler) AdminList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.policy.AdminResources(r.Context())
		if err != nil {
			handleResourceError(w, err)
			return
		}
		response.OK(w, list)
	}
}

// CreateResourceRequest registers a PDF hosted elsewhere
type CreateResourceRequest struct {
	Title       string `json:"title"`
	Summary     string `json:"summary,omitempty"`
	URL         string `json:"url"`
	FileName    string `json:"file_name,omitempty"`
	PreviewText string `json:"preview_text,omitempty"`
}

// Create handles POST /admin/resources
func (h *ResourceHandler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateResourceRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		res, err := h.policy.Create(r.Context(), service.CreateInput{
			Title:       req.Title,
			Summary:     req.Summary,
			URL:         req.URL,
			FileName:    req.FileName,
			PreviewText: req.PreviewText,
		})
		if err != nil {
			handleResourceError(w, err)
			return
		}
		response.Created(w, res)
	}
}

// Upload handles POST /admin/resources/upload (multipart: file, title, summary, preview_text)
func (h *ResourceHandler) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, entity.MaxUploadSize+multipartOverhead)

		if err := r.ParseMultipartForm(multipartOverhead); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.PayloadTooLarge(w, entity.ErrFileTooLarge.Error())
				return
			}
			response.BadRequest(w, "invalid multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			response.BadRequest(w, "missing file in request")
			return
		}
		defer file.Close()

		res, err := h.policy.Upload(r.Context(), service.UploadInput{
			Title:       r.FormValue("title"),
			Summary:     r.FormValue("summary"),
			PreviewText: r.FormValue("preview_text"),
			FileName:    header.Filename,
			ContentType: uploadContentType(header.Header.Get("Content-Type"), header.Filename),
			Reader:      file,
		})
		if err != nil {
			handleResourceError(w, err)
			return
		}
		response.Created(w, res)
	}
}

// uploadContentType trusts a .pdf name when the browser sent a generic type;
// the file content is still checked for the PDF signature.
func uploadContentType(declared, filename string) string {
	if (declared == "" || declared == "application/octet-stream") && strings.EqualFold(path.Ext(filename), ".pdf") {
		return entity.PDFContentType
	}
	return declared
}

// UpdateResourceRequest is the body of PUT /admin/resources/{resourceId}
type UpdateResourceRequest struct {
	Title       *string `json:"title,omitempty"`
	Summary     *string `json:"summary,omitempty"`
	URL         *string `json:"url,omitempty"`
	PreviewText *string `json:"preview_text,omitempty"`
}

// Update handles PUT /admin/resources/{resourceId}
func (h *ResourceHandler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateResourceRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		res, err := h.policy.Update(r.Context(), service.UpdateInput{
			ID:          chi.URLParam(r, "resourceId"),
			Title:       req.Title,
			Summary:     req.Summary,
			URL:         req.URL,
			PreviewText: req.PreviewText,
		})
		if err != nil {
			handleResourceError(w, err)
			return
		}
		response.OK(w, res)
	}
}

// Delete handles DELETE /admin/resources/{resourceId}
func (h *ResourceHandler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.policy.Delete(r.Context(), chi.URLParam(r, "resourceId")); err != nil {
			handleResourceError(w, err)
			return
		}
		response.NoContent(w)
	}
}

func handleResourceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrResourceNotFound):
		response.NotFound(w, entity.ErrResourceNotFound.Error())
	case errors.Is(err, entity.ErrFileTooLarge):
		response.PayloadTooLarge(w, err.Error())
	case errors.Is(err, entity.ErrStorageDisabled):
		response.ServiceUnavailable(w, err.Error())
	case errors.Is(err, entity.ErrEmptyTitle),
		errors.Is(err, entity.ErrInvalidURL),
		errors.Is(err, entity.ErrTitleTooLong),
		errors.Is(err, entity.ErrNotPDF):
		response.BadRequest(w, err.Error())
	default:
		handleBackendError(w, err)
	}
}
