package analysis

import (
	"testing"

	"github.com/kiranshivaraju/brewlog/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rating(v int) *int { return &v }

func exp(id int64, shot, filter, grind string, r *int) models.Experiment {
	return models.Experiment{
		ID:           id,
		Date:         "2025-01-01",
		GrindSetting: grind,
		DoseGrams:    18,
		TampPressure: "25",
		ShotType:     shot,
		FilterType:   filter,
		TasteRating:  r,
	}
}

// --- Cluster ---

func TestCluster_Empty(t *testing.T) {
	groups := Cluster(nil)
	require.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestCluster_GroupsByMatrixCell(t *testing.T) {
	log := []models.Experiment{
		exp(1, "Double", "Single Wall", "Fine", rating(2)),
		exp(2, "Double", "Single Wall", "Fine", rating(4)),
		exp(3, "Double", "Single Wall", "Pre-ground", nil),
		exp(4, "Single", "Dual Wall", "Fine", rating(5)),
		exp(5, "Double", "Single Wall", "Medium", nil),
	}

	groups := Cluster(log)
	require.Len(t, groups, 3)

	first := groups[0]
	assert.Equal(t, "Double", first.ShotType)
	assert.Equal(t, "Single Wall", first.FilterType)
	assert.Equal(t, "Bean", first.CoffeeType)
	assert.Equal(t, 3, first.Count)
	assert.Equal(t, 2, first.Rated)
	require.NotNil(t, first.AvgRating)
	assert.InDelta(t, 3.0, *first.AvgRating, 1e-9)
	require.NotNil(t, first.BestID)
	assert.Equal(t, int64(2), *first.BestID)

	// Ties on count break on average rating.
	assert.Equal(t, "Single", groups[1].ShotType)
	assert.Equal(t, "Pre-ground", groups[2].CoffeeType)
	assert.Nil(t, groups[2].AvgRating)
}

// --- Fingerprint ---

func TestFingerprint_Stable(t *testing.T) {
	log := []models.Experiment{exp(1, "Double", "Single Wall", "Fine", nil)}
	assert.Equal(t, Fingerprint(log), Fingerprint(log))
	assert.Len(t, Fingerprint(log), 64)
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	a := exp(1, "Double", "Single Wall", "Fine", nil)
	b := exp(2, "Single", "Dual Wall", "Fine", nil)
	assert.NotEqual(t, Fingerprint([]models.Experiment{a, b}), Fingerprint([]models.Experiment{b, a}))
}

func TestFingerprint_ChangesOnAppend(t *testing.T) {
	log := []models.Experiment{exp(1, "Double", "Single Wall", "Fine", nil)}
	before := Fingerprint(log)
	log = append(log, exp(2, "Double", "Single Wall", "Fine", rating(3)))
	assert.NotEqual(t, before, Fingerprint(log))
}
