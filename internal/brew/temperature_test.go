package brew_test

import (
	"testing"

	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.InDelta(t, 32.0, brew.CelsiusToFahrenheit(0), 1e-9)
	assert.InDelta(t, 212.0, brew.CelsiusToFahrenheit(100), 1e-9)
	assert.InDelta(t, 199.4, brew.CelsiusToFahrenheit(93), 1e-9)
}

func TestFahrenheitToCelsius(t *testing.T) {
	assert.InDelta(t, 0.0, brew.FahrenheitToCelsius(32), 1e-9)
	assert.InDelta(t, -40.0, brew.FahrenheitToCelsius(-40), 1e-9)
	assert.InDelta(t, 93.0, brew.FahrenheitToCelsius(199.4), 0.1)
}

func TestConversion_RoundTrip(t *testing.T) {
	for _, x := range []float64{-40, 0, 32, 90.5, 93, 199.4, 212, 1000} {
		assert.InDelta(t, x, brew.CelsiusToFahrenheit(brew.FahrenheitToCelsius(x)), 1e-9)
		assert.InDelta(t, x, brew.FahrenheitToCelsius(brew.CelsiusToFahrenheit(x)), 1e-9)
	}
}

func TestToCelsius_FromCelsius(t *testing.T) {
	assert.Equal(t, 93.0, brew.ToCelsius(93, models.UnitCelsius))
	assert.InDelta(t, 93.0, brew.ToCelsius(199.4, models.UnitFahrenheit), 0.01)
	assert.Equal(t, 93.0, brew.FromCelsius(93, ""))
	assert.InDelta(t, 199.4, brew.FromCelsius(93, models.UnitFahrenheit), 0.01)
}

func TestFormatTemp(t *testing.T) {
	assert.Equal(t, "93.0°C", brew.FormatTemp(93, models.UnitCelsius))
	assert.Equal(t, "199.4°F", brew.FormatTemp(93, models.UnitFahrenheit))
	assert.Equal(t, "90-96°C", brew.FormatTempRange(90, 96, models.UnitCelsius))
}
