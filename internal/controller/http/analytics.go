package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/athena-eo/observatory/internal/domain/analytics/entity"
	"github.com/athena-eo/observatory/internal/domain/analytics/service"
	"github.com/athena-eo/observatory/internal/httpx/response"
	"github.com/athena-eo/observatory/internal/web"
)

// AnalyticsPolicy defines the interface for visitor analytics
type AnalyticsPolicy interface {
	Track(ctx context.Context, in service.TrackInput)
	Stats(ctx context.Context, days int) (*entity.Stats, error)
	Cleanup(ctx context.Context) (*entity.CleanupResult, error)
}

// AnalyticsHandler handles HTTP requests for visitor analytics
type AnalyticsHandler struct {
	policy        AnalyticsPolicy
	secureCookies bool
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(p AnalyticsPolicy, secureCookies bool) *AnalyticsHandler {
	return &AnalyticsHandler{policy: p, secureCookies: secureCookies}
}

// RegisterRoutes registers public analytics routes
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Post("/analytics/track", h.Track())
}

// RegisterAdminRoutes registers analytics routes for admins
func (h *AnalyticsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/stats", h.Stats())
		r.Post("/cleanup", h.Cleanup())
	})
}

// TrackRequest is a page view reported by the browser
type TrackRequest struct {
	Page       string `json:"page"`
	DeviceType string `json:"device_type,omitempty"`
	Browser    string `json:"browser,omitempty"`
	ScreenSize string `json:"screen_size,omitempty"`
	Referrer   string `json:"referrer,omitempty"`
}

// Track handles POST /analytics/track. Visitors who have not accepted
// cookies are not tracked; the answer is 204 either way.
func (h *AnalyticsHandler) Track() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TrackRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}
		if req.Page == "" {
			response.BadRequest(w, entity.ErrEmptyPage.Error())
			return
		}

		if !web.ConsentFromRequest(r).Accepted {
			response.NoContent(w)
			return
		}

		h.policy.Track(r.Context(), service.TrackInput{
			VisitorID:  web.VisitorID(w, r, h.secureCookies),
			Page:       req.Page,
			UserAgent:  r.UserAgent(),
			DeviceType: req.DeviceType,
			Browser:    req.Browser,
			ScreenSize: req.ScreenSize,
			Referrer:   req.Referrer,
		})
		response.NoContent(w)
	}
}

// Stats handles GET /admin/analytics/stats?days=N
func (h *AnalyticsHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 0
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				response.BadRequest(w, "days must be a positive integer")
				return
			}
			days = n
		}

		stats, err := h.policy.Stats(r.Context(), days)
		if err != nil {
			handleBackendError(w, err)
			return
		}
		response.OK(w, stats)
	}
}

// Cleanup handles POST /admin/analytics/cleanup
func (h *AnalyticsHandler) Cleanup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.policy.Cleanup(r.Context())
		if err != nil {
			handleBackendError(w, err)
			return
		}
		response.OK(w, res)
	}
}
