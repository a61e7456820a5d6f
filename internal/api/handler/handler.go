// Package handler implements the HTTP endpoints of the brew log API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/kiranshivaraju/brewlog/internal/api/response"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const maxBodyBytes = 64 << 10

// ExperimentLog is the part of the controller the experiment endpoints use.
type ExperimentLog interface {
	Log() []models.Experiment
	Record(ctx context.Context, form models.FormState) (models.Experiment, error)
	Reset(ctx context.Context, confirmed bool) bool
}

// Analysis is the part of the controller the analysis endpoints use.
type Analysis interface {
	State() models.AnalysisState
	Analyze() bool
	Select(sel models.Selection) (*models.Suggestion, error)
	DismissError()
}

// FormEditor is the part of the controller the form endpoints use.
type FormEditor interface {
	Form() models.FormView
	UpdateForm(form models.FormState) (models.FormView, error)
}

// GearAdvisor lists recommended equipment.
type GearAdvisor interface {
	Gear() []models.GearItem
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func invalidRequest(w http.ResponseWriter, message string) {
	response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", message, nil)
}

// queryInt parses a positive integer query parameter, falling back to def
// when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}
