package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const promptHeader = `Analyze the following espresso experiment data to identify significant factors influencing 'Taste Rating' (1-5, 5 being excellent) and suggest optimal parameters for the next brew. Treat the log as a design of experiments.

Input variables (factors you control): Grind Setting (text, can be "Pre-ground"), Dose (grams), Tamp Pressure (categorical: "20", "25", "30"), Shot Type (Single, Double), Filter Type (Single Wall, Dual Wall).
Resultant variables (outcomes you measure): Yield (grams), Brew Time (seconds), Water Temp (Celsius, optional), Puck Condition (Firm and Dry, Slightly Wet, Soupy, Cracked, Intact with no cracks, Channeling Evident), Taste Rating (1-5), and Notes.

When naming significant factors use exactly these names: "Grind Setting", "Dose (grams)", "Tamp Pressure", "Yield (grams)", "Brew Time (seconds)", "Puck Condition".

Here is the experiment data in JSON format:
`

const suggestionTemplate = `"grindSetting": "suggested_value",
    "doseGrams": suggested_value_float,
    "tampPressure": "suggested_value",
    "yieldGrams": suggested_value_float_or_null,
    "brewTimeSeconds": suggested_value_float_or_null,
    "waterTempCelsius": suggested_value_float_or_null,
    "puckCondition": "suggested_value_or_null"`

// BuildPrompt renders the analysis instruction with the log embedded as
// indented JSON. The reply structure lists all eight matrix cells.
func BuildPrompt(log []models.Experiment) (string, error) {
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding experiment log: %w", err)
	}

	var b strings.Builder
	b.WriteString(promptHeader)
	b.Write(data)
	b.WriteString("\n\nPlease provide your analysis and suggestions in a JSON object with the following structure:\n")
	b.WriteString("{\n  \"significantFactors\": [\"factor1\", \"factor2\"],\n")
	b.WriteString("  \"nextBrewSuggestions\": {\n    ")
	b.WriteString(suggestionTemplate)
	b.WriteString(",\n    \"shotType\": \"suggested_value\",\n    \"filterType\": \"suggested_value\"\n  },\n")
	b.WriteString("  \"fullBrewMatrix\": [\n")

	cells := MatrixCells()
	for i, c := range cells {
		fmt.Fprintf(&b, "    {\n    \"shotType\": %q,\n    \"filterType\": %q,\n    \"coffeeType\": %q,\n    ",
			c.ShotType, c.FilterType, c.CoffeeType)
		b.WriteString(suggestionTemplate)
		b.WriteString(",\n    \"reasoning\": \"A brief explanation for these settings.\"\n    }")
		if i < len(cells)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("  ],\n  \"analysisSummary\": \"A brief summary of the DOE analysis and findings.\"\n}\n")
	b.WriteString("For Pre-ground cells set grindSetting to \"Pre-ground\".\n")
	return b.String(), nil
}

// MatrixCells enumerates the eight shot x filter x coffee combinations in
// the order the reply is expected to list them.
func MatrixCells() []models.Selection {
	cells := make([]models.Selection, 0, 8)
	for _, shot := range []string{models.ShotSingle, models.ShotDouble} {
		for _, filter := range []string{models.FilterSingleWall, models.FilterDualWall} {
			for _, coffee := range []string{models.CoffeeBean, models.CoffeePreGround} {
				cells = append(cells, models.Selection{ShotType: shot, FilterType: filter, CoffeeType: coffee})
			}
		}
	}
	return cells
}
