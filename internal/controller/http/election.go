package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/athena-eo/observatory/internal/domain/election/entity"
	"github.com/athena-eo/observatory/internal/domain/election/policy"
	"github.com/athena-eo/observatory/internal/httpx/response"
)

// ElectionPolicy defines the interface for election data operations
type ElectionPolicy interface {
	States(ctx context.Context) []entity.State
	State(ctx context.Context, slug string) entity.State
	Stats(ctx context.Context, slug string) entity.StateStats
	LGABreakdown(ctx context.Context, slug string) entity.LGABreakdown
	Highlights(ctx context.Context, slug string) entity.Highlights
	Dashboard(ctx context.Context, slug string) policy.Dashboard

	AdminStates(ctx context.Context) ([]entity.State, error)
	SaveStates(ctx context.Context, states []entity.State) ([]entity.State, error)
	AdminStats(ctx context.Context, slug string) (*entity.StateStats, error)
	SaveStats(ctx context.Context, slug string, stats *entity.StateStats) (*entity.StateStats, error)
	AdminLGABreakdown(ctx context.Context, slug string) (*entity.LGABreakdown, error)
	SaveLGABreakdown(ctx context.Context, slug string, lga *entity.LGABreakdown) (*entity.LGABreakdown, error)
	AdminHighlights(ctx context.Context, slug string) (*entity.Highlights, error)
	SaveHighlights(ctx context.Context, slug string, h *entity.Highlights) (*entity.Highlights, error)
}

// ElectionHandler handles HTTP requests for election data
type ElectionHandler struct {
	policy ElectionPolicy
}

// NewElectionHandler creates a new election handler
func NewElectionHandler(p ElectionPolicy) *ElectionHandler {
	return &ElectionHandler{policy: p}
}

// RegisterRoutes registers public election routes
func (h *ElectionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/states", func(r chi.Router) {
		r.Get("/", h.States())
		r.Get("/{slug}", h.State())
		r.Get("/{slug}/stats", h.Stats())
		r.Get("/{slug}/lga", h.LGABreakdown())
		r.Get("/{slug}/highlights", h.Highlights())
		r.Get("/{slug}/dashboard", h.Dashboard())
	})
}

// RegisterAdminRoutes registers election routes for the admin panel
func (h *ElectionHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/states", func(r chi.Router) {
		r.Get("/", h.AdminStates())
		r.Put("/", h.SaveStates())
		r.Get("/{slug}/stats", h.AdminStats())
		r.Put("/{slug}/stats", h.SaveStats())
		r.Get("/{slug}/lga", h.AdminLGABreakdown())
		r.Put("/{slug}/lga", h.SaveLGABreakdown())
		r.Get("/{slug}/highlights", h.AdminHighlights())
		r.Put("/{slug}/highlights", h.SaveHighlights())
	})
}

// States handles GET /states
func (h *ElectionHandler) States() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.States(r.Context()))
	}
}

// State handles GET /states/{slug}
func (h *ElectionHandler) State() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.State(r.Context(), chi.URLParam(r, "slug")))
	}
}

// Stats handles GET /states/{slug}/stats
func (h *ElectionHandler) Stats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.Stats(r.Context(), chi.URLParam(r, "slug")))
	}
}

// LGABreakdown handles GET /states/{slug}/lga
func (h *ElectionHandler) LGABreakdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.LGABreakdown(r.Context(), chi.URLParam(r, "slug")))
	}
}

// Highlights handles GET /states/{slug}/highlights
func (h *ElectionHandler) Highlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.Highlights(r.Context(), chi.URLParam(r, "slug")))
	}
}

// Dashboard handles GET /states/{slug}/dashboard
func (h *ElectionHandler) Dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, h.policy.Dashboard(r.Context(), chi.URLParam(r, "slug")))
	}
}

// AdminStates handles GET /admin/states
func (h *ElectionHandler) AdminStates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		states, err := h.policy.AdminStates(r.Context())
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, states)
	}
}

// SaveStatesRequest is the body of PUT /admin/states
type SaveStatesRequest struct {
	States []entity.State `json:"states"`
}

// SaveStates handles PUT /admin/states
func (h *ElectionHandler) SaveStates() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveStatesRequest
		if err := response.DecodeJSON(r, &req); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		states, err := h.policy.SaveStates(r.Context(), req.States)
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, states)
	}
}

// AdminStats handles GET /admin/states/{slug}/stats
func (h *ElectionHandler) AdminStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := h.policy.AdminStats(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, stats)
	}
}

// SaveStats handles PUT /admin/states/{slug}/stats
func (h *ElectionHandler) SaveStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var stats entity.StateStats
		if err := response.DecodeJSON(r, &stats); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.SaveStats(r.Context(), chi.URLParam(r, "slug"), &stats)
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, out)
	}
}

// AdminLGABreakdown handles GET /admin/states/{slug}/lga
func (h *ElectionHandler) AdminLGABreakdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lga, err := h.policy.AdminLGABreakdown(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, lga)
	}
}

// SaveLGABreakdown handles PUT /admin/states/{slug}/lga
func (h *ElectionHandler) SaveLGABreakdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var lga entity.LGABreakdown
		if err := response.DecodeJSON(r, &lga); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.SaveLGABreakdown(r.Context(), chi.URLParam(r, "slug"), &lga)
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, out)
	}
}

// AdminHighlights handles GET /admin/states/{slug}/highlights
func (h *ElectionHandler) AdminHighlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hl, err := h.policy.AdminHighlights(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, hl)
	}
}

// SaveHighlights handles PUT /admin/states/{slug}/highlights
func (h *ElectionHandler) SaveHighlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var hl entity.Highlights
		if err := response.DecodeJSON(r, &hl); err != nil {
			response.BadRequest(w, "invalid JSON")
			return
		}

		out, err := h.policy.SaveHighlights(r.Context(), chi.URLParam(r, "slug"), &hl)
		if err != nil {
			handleElectionError(w, err)
			return
		}
		response.OK(w, out)
	}
}

func handleElectionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrStateNotFound):
		response.NotFound(w, entity.ErrStateNotFound.Error())
	case errors.Is(err, entity.ErrEmptyStateName),
		errors.Is(err, entity.ErrInvalidStateStatus),
		errors.Is(err, entity.ErrEmptyCandidateName),
		errors.Is(err, entity.ErrNegativeCount),
		errors.Is(err, entity.ErrInvalidPercentage),
		errors.Is(err, entity.ErrEmptyLGAName),
		errors.Is(err, entity.ErrEmptyHighlightTitle):
		response.BadRequest(w, err.Error())
	default:
		handleBackendError(w, err)
	}
}
