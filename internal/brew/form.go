package brew

import (
	"strconv"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// PreGroundSingleWallWarning is shown when pre-ground coffee is paired with
// an unpressurized basket.
const PreGroundSingleWallWarning = "Single Wall filters are generally not recommended with pre-ground coffee."

// DefaultForm returns an empty draft in Celsius.
func DefaultForm() models.FormState {
	return models.FormState{TempUnit: models.UnitCelsius}
}

// Prefill loads the controllable parameters of s into the draft and clears
// the measured outcomes for the next shot. The unit of f is kept.
func Prefill(f models.FormState, s models.Suggestion) models.FormState {
	out := models.FormState{
		GrindSetting: s.GrindSetting,
		DoseGrams:    strconv.FormatFloat(s.DoseGrams, 'f', -1, 64),
		TampPressure: s.TampPressure,
		ShotType:     s.ShotType,
		FilterType:   s.FilterType,
		IsPreGround:  s.GrindSetting == models.PreGroundGrind,
		TempUnit:     f.TempUnit,
	}
	if out.TempUnit == "" {
		out.TempUnit = models.UnitCelsius
	}
	if s.WaterTempCelsius != nil {
		out.WaterTemp = strconv.FormatFloat(FromCelsius(*s.WaterTempCelsius, out.TempUnit), 'f', 1, 64)
	}
	return out
}

// SwitchUnit changes the draft unit, converting a numeric draft temperature.
func SwitchUnit(f models.FormState, unit string) models.FormState {
	if f.TempUnit == unit {
		return f
	}
	if v, ok := parseOptionalFloat(f.WaterTemp); ok {
		c := ToCelsius(v, f.TempUnit)
		f.WaterTemp = strconv.FormatFloat(FromCelsius(c, unit), 'f', 1, 64)
	}
	f.TempUnit = unit
	return f
}

// Warning returns the advisory for the draft, or "" when none applies.
func Warning(f models.FormState) string {
	if f.IsPreGround && f.FilterType == models.FilterSingleWall {
		return PreGroundSingleWallWarning
	}
	return ""
}

// View derives the display state of a draft form.
func View(f models.FormState) models.FormView {
	v := models.FormView{Form: f, Warning: Warning(f)}
	if r, ok := Resolve(f.ShotType, f.FilterType); ok {
		v.Range = &r
	}
	return v
}
