package brew_test

import (
	"testing"

	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/pkg/models"
	"github.com/stretchr/testify/assert"
)

func fullMatrix() []models.MatrixEntry {
	var m []models.MatrixEntry
	for _, shot := range []string{models.ShotSingle, models.ShotDouble} {
		for _, filter := range []string{models.FilterSingleWall, models.FilterDualWall} {
			for _, coffee := range []string{models.CoffeeBean, models.CoffeePreGround} {
				m = append(m, models.MatrixEntry{
					Suggestion: models.Suggestion{ShotType: shot, FilterType: filter, GrindSetting: "Fine"},
					CoffeeType: coffee,
					Reasoning:  shot + "/" + filter + "/" + coffee,
				})
			}
		}
	}
	return m
}

func TestSelect_ExactMatch(t *testing.T) {
	m := fullMatrix()
	e, ok := brew.Select(m, "Double", "Dual Wall", "Pre-ground")
	assert.True(t, ok)
	assert.Equal(t, "Double/Dual Wall/Pre-ground", e.Reasoning)
}

func TestSelect_NoMatch(t *testing.T) {
	m := fullMatrix()
	_, ok := brew.Select(m, "Double", "Dual Wall", "Instant")
	assert.False(t, ok)

	_, ok = brew.Select(nil, "Double", "Dual Wall", "Bean")
	assert.False(t, ok)
}

func TestCoffeeTypeFor(t *testing.T) {
	assert.Equal(t, models.CoffeePreGround, brew.CoffeeTypeFor("Pre-ground"))
	assert.Equal(t, models.CoffeeBean, brew.CoffeeTypeFor("Fine"))
	assert.Equal(t, models.CoffeeBean, brew.CoffeeTypeFor(""))
}

func TestPrimarySelection(t *testing.T) {
	sel := brew.PrimarySelection(models.Suggestion{ShotType: "Single", FilterType: "Dual Wall", GrindSetting: "Pre-ground"})
	assert.Equal(t, models.Selection{ShotType: "Single", FilterType: "Dual Wall", CoffeeType: "Pre-ground"}, sel)
}
