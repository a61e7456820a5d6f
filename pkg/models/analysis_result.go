package models

import "time"

// Suggestion is a set of brew parameters proposed by the analysis.
type Suggestion struct {
	GrindSetting     string   `json:"grindSetting"`
	DoseGrams        float64  `json:"doseGrams"`
	TampPressure     string   `json:"tampPressure"`
	ShotType         string   `json:"shotType"`
	FilterType       string   `json:"filterType"`
	YieldGrams       *float64 `json:"yieldGrams"`
	BrewTimeSeconds  *float64 `json:"brewTimeSeconds"`
	WaterTempCelsius *float64 `json:"waterTempCelsius"`
	PuckCondition    *string  `json:"puckCondition"`
}

// MatrixEntry is one cell of the shot x filter x coffee suggestion matrix.
type MatrixEntry struct {
	Suggestion
	CoffeeType string `json:"coffeeType"`
	Reasoning  string `json:"reasoning"`
}

// AnalysisResult is the structured reply of an analysis run. It is replaced
// wholesale on each successful run.
type AnalysisResult struct {
	SignificantFactors  []string      `json:"significantFactors"`
	NextBrewSuggestions Suggestion    `json:"nextBrewSuggestions"`
	FullBrewMatrix      []MatrixEntry `json:"fullBrewMatrix"`
	AnalysisSummary     string        `json:"analysisSummary"`

	Provider  string    `json:"provider,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// Selection is the current shot/filter/coffee dropdown choice.
type Selection struct {
	ShotType   string `json:"shotType"`
	FilterType string `json:"filterType"`
	CoffeeType string `json:"coffeeType"`
}
