package handler

import (
	"fmt"
	"net/http"

	"github.com/kiranshivaraju/brewlog/internal/api/response"
	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

type rangeDisplay struct {
	Dose  string `json:"dose"`
	Yield string `json:"yield"`
	Time  string `json:"time"`
	Temp  string `json:"temp"`
	Puck  string `json:"puck"`
}

type rangeResponse struct {
	Defined bool                   `json:"defined"`
	Message string                 `json:"message,omitempty"`
	Range   *models.ParameterRange `json:"range,omitempty"`
	Display *rangeDisplay          `json:"display,omitempty"`
}

// NewRangesHandler returns an http.HandlerFunc for GET /api/v1/ranges.
// An unknown shot/filter pair is not an error: it reports defined=false.
func NewRangesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		unit := q.Get("unit")
		if unit == "" {
			unit = models.UnitCelsius
		}
		if !brew.ValidUnit(unit) {
			invalidRequest(w, "unit must be C or F")
			return
		}

		rng, ok := brew.Resolve(q.Get("shot_type"), q.Get("filter_type"))
		if !ok {
			response.JSON(w, rangeResponse{Defined: false, Message: brew.UndefinedRangeMessage})
			return
		}

		response.JSON(w, rangeResponse{
			Defined: true,
			Range:   &rng,
			Display: &rangeDisplay{
				Dose:  fmt.Sprintf("%g-%gg", rng.DoseMin, rng.DoseMax),
				Yield: fmt.Sprintf("%g-%gg", rng.YieldMin, rng.YieldMax),
				Time:  fmt.Sprintf("%g-%gs", rng.TimeMin, rng.TimeMax),
				Temp:  brew.TempRangeDisplay(rng, unit),
				Puck:  rng.Puck,
			},
		})
	}
}
