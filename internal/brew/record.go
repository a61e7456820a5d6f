package brew

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field")
)

// ValidateForm checks the fields a submission cannot be recorded without.
func ValidateForm(f models.FormState) error {
	var missing []string
	if !f.IsPreGround && strings.TrimSpace(f.GrindSetting) == "" {
		missing = append(missing, "grindSetting")
	}
	if strings.TrimSpace(f.DoseGrams) == "" {
		missing = append(missing, "doseGrams")
	}
	if strings.TrimSpace(f.TampPressure) == "" {
		missing = append(missing, "tampPressure")
	}
	if strings.TrimSpace(f.ShotType) == "" {
		missing = append(missing, "shotType")
	}
	if strings.TrimSpace(f.FilterType) == "" {
		missing = append(missing, "filterType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	if _, ok := parseOptionalFloat(f.DoseGrams); !ok {
		return fmt.Errorf("%w: doseGrams must be a number, got %q", ErrInvalidField, f.DoseGrams)
	}
	if f.TempUnit != "" && !ValidUnit(f.TempUnit) {
		return fmt.Errorf("%w: tempUnit must be C or F, got %q", ErrInvalidField, f.TempUnit)
	}
	return nil
}

// Record coerces a validated form into an Experiment stamped with now.
// Optional numeric fields that are blank or not numbers are stored as
// absent. Water temperature is converted from the form unit to Celsius.
func Record(f models.FormState, now time.Time) models.Experiment {
	grind := strings.TrimSpace(f.GrindSetting)
	if f.IsPreGround {
		grind = models.PreGroundGrind
	}

	dose, _ := parseOptionalFloat(f.DoseGrams)

	exp := models.Experiment{
		ID:              now.UnixMilli(),
		Date:            now.Format("2006-01-02"),
		GrindSetting:    grind,
		DoseGrams:       dose,
		YieldGrams:      optionalFloat(f.YieldGrams),
		BrewTimeSeconds: optionalFloat(f.BrewTimeSeconds),
		PuckCondition:   optionalString(f.PuckCondition),
		TampPressure:    strings.TrimSpace(f.TampPressure),
		ShotType:        strings.TrimSpace(f.ShotType),
		FilterType:      strings.TrimSpace(f.FilterType),
		TasteRating:     tasteRating(f.TasteRating),
		Notes:           f.Notes,
	}

	if t := optionalFloat(f.WaterTemp); t != nil {
		c := ToCelsius(*t, f.TempUnit)
		exp.WaterTempCelsius = &c
	}

	return exp
}

func parseOptionalFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optionalFloat(s string) *float64 {
	v, ok := parseOptionalFloat(s)
	if !ok {
		return nil
	}
	return &v
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func tasteRating(s string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 || v > 5 {
		return nil
	}
	return &v
}
