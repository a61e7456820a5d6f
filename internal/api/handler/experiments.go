package handler

import (
	"errors"
	"net/http"

	"github.com/kiranshivaraju/brewlog/internal/analysis"
	"github.com/kiranshivaraju/brewlog/internal/api/response"
	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// NewListExperimentsHandler returns an http.HandlerFunc for GET /api/v1/experiments.
// Entries are paged in insertion order.
func NewListExperimentsHandler(svc ExperimentLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := queryInt(r, "page", 1)
		if err != nil {
			invalidRequest(w, err.Error())
			return
		}
		limit, err := queryInt(r, "limit", defaultPageSize)
		if err != nil {
			invalidRequest(w, err.Error())
			return
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}

		log := svc.Log()
		start, end := response.PageBounds(page, limit, len(log))
		response.Collection(w, log[start:end], response.NewPaginationMeta(page, limit, len(log)))
	}
}

// NewExperimentSummaryHandler returns an http.HandlerFunc for
// GET /api/v1/experiments/summary: the log grouped by matrix cell.
func NewExperimentSummaryHandler(svc ExperimentLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := svc.Log()
		response.JSON(w, map[string]any{
			"total":       len(log),
			"fingerprint": analysis.Fingerprint(log),
			"groups":      analysis.Cluster(log),
		})
	}
}

// NewRecordExperimentHandler returns an http.HandlerFunc for POST /api/v1/experiments.
// The body is the draft form; a successful record triggers a new analysis.
func NewRecordExperimentHandler(svc ExperimentLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form models.FormState
		if err := decodeJSON(r, &form); err != nil {
			invalidRequest(w, "Invalid JSON body")
			return
		}
		if form.TempUnit == "" {
			form.TempUnit = models.UnitCelsius
		}

		exp, err := svc.Record(r.Context(), form)
		if err != nil {
			if errors.Is(err, brew.ErrMissingField) || errors.Is(err, brew.ErrInvalidField) {
				invalidRequest(w, err.Error())
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.Created(w, exp)
	}
}

// NewResetHandler returns an http.HandlerFunc for DELETE /api/v1/experiments.
// The destructive reset only happens with ?confirm=true.
func NewResetHandler(svc ExperimentLog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed := r.URL.Query().Get("confirm") == "true"
		if !svc.Reset(r.Context(), confirmed) {
			response.Error(w, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED",
				"Reset all experiments requires confirm=true", nil)
			return
		}
		response.JSON(w, map[string]bool{"reset": true})
	}
}
