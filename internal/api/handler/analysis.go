package handler

import (
	"errors"
	"net/http"

	"github.com/kiranshivaraju/brewlog/internal/api/response"
	"github.com/kiranshivaraju/brewlog/internal/controller"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// NewGetAnalysisHandler returns an http.HandlerFunc for GET /api/v1/analysis.
func NewGetAnalysisHandler(svc Analysis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, svc.State())
	}
}

// NewRunAnalysisHandler returns an http.HandlerFunc for POST /api/v1/analysis.
// It answers 202 when a run was dispatched and 200 when the log is empty.
func NewRunAnalysisHandler(svc Analysis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !svc.Analyze() {
			response.JSON(w, svc.State())
			return
		}
		response.Accepted(w, svc.State())
	}
}

// NewSelectionHandler returns an http.HandlerFunc for PUT /api/v1/analysis/selection.
func NewSelectionHandler(svc Analysis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sel models.Selection
		if err := decodeJSON(r, &sel); err != nil {
			invalidRequest(w, "Invalid JSON body")
			return
		}

		displayed, err := svc.Select(sel)
		if err != nil {
			if errors.Is(err, controller.ErrInvalidSelection) {
				invalidRequest(w, err.Error())
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.JSON(w, map[string]any{
			"selection": sel,
			"displayed": displayed,
		})
	}
}

// NewDismissErrorHandler returns an http.HandlerFunc for DELETE /api/v1/analysis/error.
func NewDismissErrorHandler(svc Analysis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc.DismissError()
		response.JSON(w, svc.State())
	}
}
