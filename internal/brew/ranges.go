// Package brew holds the pure espresso domain rules: notional ranges,
// unit conversion, form coercion and suggestion selection.
package brew

import "github.com/kiranshivaraju/brewlog/pkg/models"

// UndefinedRangeMessage is shown when no range exists for the selection.
const UndefinedRangeMessage = "Select a shot type and filter type to see notional perfect values."

type rangeKey struct {
	shot   string
	filter string
}

var notionalRanges = map[rangeKey]models.ParameterRange{
	{models.ShotSingle, models.FilterSingleWall}: {
		DoseMin: 7, DoseMax: 10, YieldMin: 18, YieldMax: 20,
		TimeMin: 25, TimeMax: 30, TempMin: 90, TempMax: 96,
		Puck: "Firm and Dry",
	},
	{models.ShotDouble, models.FilterSingleWall}: {
		DoseMin: 14, DoseMax: 22, YieldMin: 36, YieldMax: 40,
		TimeMin: 25, TimeMax: 30, TempMin: 90, TempMax: 96,
		Puck: "Firm and Dry",
	},
	{models.ShotSingle, models.FilterDualWall}: {
		DoseMin: 7, DoseMax: 10, YieldMin: 14, YieldMax: 16,
		TimeMin: 20, TimeMax: 25, TempMin: 90, TempMax: 96,
		Puck: "Slightly Wet to Firm",
	},
	{models.ShotDouble, models.FilterDualWall}: {
		DoseMin: 14, DoseMax: 18, YieldMin: 28, YieldMax: 32,
		TimeMin: 20, TimeMax: 25, TempMin: 90, TempMax: 96,
		Puck: "Slightly Wet to Firm",
	},
}

// Resolve returns the notional perfect range for an exact shot/filter pair.
// The second return value is false for any other input.
func Resolve(shotType, filterType string) (models.ParameterRange, bool) {
	r, ok := notionalRanges[rangeKey{shotType, filterType}]
	if !ok {
		return models.ParameterRange{}, false
	}
	r.ShotType = shotType
	r.FilterType = filterType
	return r, true
}

// TempRangeDisplay renders the temperature window of r in unit, endpoints
// rounded to whole degrees.
func TempRangeDisplay(r models.ParameterRange, unit string) string {
	return FormatTempRange(r.TempMin, r.TempMax, unit)
}
