package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/athena-eo/observatory/internal/domain/newsletter/entity"
	"github.com/athena-eo/observatory/internal/httpx/response"
)

// NewsletterPolicy defines the interface for newsletter operations
type NewsletterPolicy interface {
	Subscribe(ctx context.Context, email string) (*entity.Subscriber, error)
	Unsubscribe(ctx context.Context, email string) error
	Subscribers(ctx context.Context, activeOnly bool) ([]entity.Subscriber, error)
	Send(ctx context.Context, c entity.Campaign) (*entity.Delivery, error)
}

// NewsletterHandler handles HTTP requests for the newsletter
type NewsletterHandler struct {
	policy NewsletterPolicy
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(p NewsletterPolicy) *NewsletterHandler {
	return &NewsletterHandler{policy: p}
}

// RegisterRoutes registers public newsletter routes
func (h *NewsletterHandler) RegisterRoutes(r chi.Router) {
	r.Route("/newsletter", func(r chi.Router) {
		r.Post("/subscribe", h.Subscribe())
		r.Post("/unsubscribe", h.Unsubscribe())
	})
}

// RegisterAdminRoutes registers newsletter management routes
func (h *NewsletterHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/newsletter", func(r chi.Router) {
		r.Get("/subscribers", h.Subscribers())
		r.Post("/send", h.Send())
	})
}

// EmailRequest is the body of subscribe and unsubscribe requests
type EmailRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /newsletter/subscribe
func (h *NewsletterHandler) Subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EmailRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		sub, err := h.policy.Subscribe(r.Context(), req.Email)
		if err != nil {
			handleNewsletterError(w, err)
			return
		}
		response.Created(w, sub)
	}
}

// Unsubscribe handles POST /newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EmailRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		if err := h.policy.Unsubscribe(r.Context(), req.Email); err != nil {
			handleNewsletterError(w, err)
			return
		}
		response.NoContent(w)
	}
}

// Subscribers handles GET /admin/newsletter/subscribers?active=true
func (h *NewsletterHandler) Subscribers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := false
		if v := r.URL.Query().Get("active"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				response.BadRequest(w, "active must be a boolean")
				return
			}
			activeOnly = parsed
		}

		subs, err := h.policy.Subscribers(r.Context(), activeOnly)
		if err != nil {
			handleNewsletterError(w, err)
			return
		}
		response.OK(w, subs)
	}
}

// Send handles POST /admin/newsletter/send
func (h *NewsletterHandler) Send() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var campaign entity.Campaign
		if err := response.DecodeJSON(r, &campaign); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		d, err := h.policy.Send(r.Context(), campaign)
		if err != nil {
			handleNewsletterError(w, err)
			return
		}
		response.OK(w, d)
	}
}

func handleNewsletterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidEmail),
		errors.Is(err, entity.ErrEmptySubject),
		errors.Is(err, entity.ErrEmptyBody),
		errors.Is(err, entity.ErrSubjectTooLong):
		response.BadRequest(w, err.Error())
	default:
		handleBackendError(w, err)
	}
}
