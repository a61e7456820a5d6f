package brew

import "github.com/kiranshivaraju/brewlog/pkg/models"

// CoffeeTypeFor maps a grind setting to the matrix coffee type.
func CoffeeTypeFor(grindSetting string) string {
	if grindSetting == models.PreGroundGrind {
		return models.CoffeePreGround
	}
	return models.CoffeeBean
}

// Select returns the matrix entry matching all three dropdown values.
func Select(matrix []models.MatrixEntry, shotType, filterType, coffeeType string) (models.MatrixEntry, bool) {
	for _, e := range matrix {
		if e.ShotType == shotType && e.FilterType == filterType && e.CoffeeType == coffeeType {
			return e, true
		}
	}
	return models.MatrixEntry{}, false
}

// PrimarySelection is the dropdown state that points at the primary suggestion.
func PrimarySelection(s models.Suggestion) models.Selection {
	return models.Selection{
		ShotType:   s.ShotType,
		FilterType: s.FilterType,
		CoffeeType: CoffeeTypeFor(s.GrindSetting),
	}
}
