package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// StripFences removes a surrounding markdown code fence, with or without a
// json language tag.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

var requiredSuggestionFields = []string{"grindSetting", "doseGrams", "tampPressure", "shotType", "filterType"}

// ParseAnalysis decodes the model's reply text. All four top-level fields
// must be present and the primary suggestion must carry every required
// parameter; anything else is ErrInvalidResponse.
func ParseAnalysis(raw string) (models.AnalysisResult, error) {
	body := StripFences(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	for _, k := range []string{"significantFactors", "nextBrewSuggestions", "fullBrewMatrix", "analysisSummary"} {
		v, ok := fields[k]
		if !ok || string(v) == "null" {
			return models.AnalysisResult{}, fmt.Errorf("%w: missing %s", ErrInvalidResponse, k)
		}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := checkSuggestion(fields["nextBrewSuggestions"], result.NextBrewSuggestions); err != nil {
		return models.AnalysisResult{}, err
	}
	if result.SignificantFactors == nil {
		result.SignificantFactors = []string{}
	}
	return result, nil
}

func checkSuggestion(raw json.RawMessage, s models.Suggestion) error {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(raw, &present); err != nil {
		return fmt.Errorf("%w: nextBrewSuggestions: %v", ErrInvalidResponse, err)
	}
	for _, k := range requiredSuggestionFields {
		if v, ok := present[k]; !ok || string(v) == "null" {
			return fmt.Errorf("%w: nextBrewSuggestions missing %s", ErrInvalidResponse, k)
		}
	}

	blank := map[string]string{
		"grindSetting": s.GrindSetting,
		"tampPressure": s.TampPressure,
		"shotType":     s.ShotType,
		"filterType":   s.FilterType,
	}
	for _, k := range requiredSuggestionFields {
		if v, ok := blank[k]; ok && strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: nextBrewSuggestions has empty %s", ErrInvalidResponse, k)
		}
	}
	return nil
}
