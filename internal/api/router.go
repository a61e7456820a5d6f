package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/brewlog/internal/api/middleware"
	"github.com/kiranshivaraju/brewlog/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	// RateLimit is optional; nil disables rate limiting.
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc
	RangesHandler http.HandlerFunc

	ListExperiments   http.HandlerFunc
	ExperimentSummary http.HandlerFunc
	RecordExperiment  http.HandlerFunc
	ResetExperiments  http.HandlerFunc

	GetAnalysis  http.HandlerFunc
	RunAnalysis  http.HandlerFunc
	SetSelection http.HandlerFunc
	DismissError http.HandlerFunc

	GetForm     http.HandlerFunc
	UpdateForm  http.HandlerFunc
	GearHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit.Limit)
		}

		r.Get("/api/v1/ranges", orNotImplemented(deps.RangesHandler))

		r.Route("/api/v1/experiments", func(r chi.Router) {
			r.Get("/", orNotImplemented(deps.ListExperiments))
			r.Post("/", orNotImplemented(deps.RecordExperiment))
			r.Delete("/", orNotImplemented(deps.ResetExperiments))
			r.Get("/summary", orNotImplemented(deps.ExperimentSummary))
		})

		r.Route("/api/v1/analysis", func(r chi.Router) {
			r.Get("/", orNotImplemented(deps.GetAnalysis))
			r.Post("/", orNotImplemented(deps.RunAnalysis))
			r.Put("/selection", orNotImplemented(deps.SetSelection))
			r.Delete("/error", orNotImplemented(deps.DismissError))
		})

		r.Get("/api/v1/form", orNotImplemented(deps.GetForm))
		r.Put("/api/v1/form", orNotImplemented(deps.UpdateForm))
		r.Get("/api/v1/gear", orNotImplemented(deps.GearHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
