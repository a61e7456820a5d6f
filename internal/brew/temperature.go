package brew

import (
	"fmt"
	"math"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// CelsiusToFahrenheit converts c degrees Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts f degrees Fahrenheit to Celsius.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// ToCelsius converts a value expressed in unit to Celsius.
func ToCelsius(v float64, unit string) float64 {
	if unit == models.UnitFahrenheit {
		return FahrenheitToCelsius(v)
	}
	return v
}

// FromCelsius converts a Celsius value to unit.
func FromCelsius(c float64, unit string) float64 {
	if unit == models.UnitFahrenheit {
		return CelsiusToFahrenheit(c)
	}
	return c
}

// FormatTemp renders a single Celsius measurement in unit with one decimal.
func FormatTemp(c float64, unit string) string {
	return fmt.Sprintf("%.1f°%s", FromCelsius(c, unit), normalizeUnit(unit))
}

// FormatTempRange renders a Celsius window in unit with whole-degree endpoints.
func FormatTempRange(minC, maxC float64, unit string) string {
	lo := math.Round(FromCelsius(minC, unit))
	hi := math.Round(FromCelsius(maxC, unit))
	return fmt.Sprintf("%.0f-%.0f°%s", lo, hi, normalizeUnit(unit))
}

// ValidUnit reports whether unit is C or F.
func ValidUnit(unit string) bool {
	return unit == models.UnitCelsius || unit == models.UnitFahrenheit
}

func normalizeUnit(unit string) string {
	if unit == models.UnitFahrenheit {
		return models.UnitFahrenheit
	}
	return models.UnitCelsius
}
