package handler

import (
	"errors"
	"net/http"

	"github.com/kiranshivaraju/brewlog/internal/api/response"
	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// NewGetFormHandler returns an http.HandlerFunc for GET /api/v1/form.
func NewGetFormHandler(svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, svc.Form())
	}
}

// NewUpdateFormHandler returns an http.HandlerFunc for PUT /api/v1/form.
func NewUpdateFormHandler(svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form models.FormState
		if err := decodeJSON(r, &form); err != nil {
			invalidRequest(w, "Invalid JSON body")
			return
		}

		view, err := svc.UpdateForm(form)
		if err != nil {
			if errors.Is(err, brew.ErrInvalidField) {
				invalidRequest(w, err.Error())
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}
		response.JSON(w, view)
	}
}

// NewGearHandler returns an http.HandlerFunc for GET /api/v1/gear.
func NewGearHandler(svc GearAdvisor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, svc.Gear())
	}
}
