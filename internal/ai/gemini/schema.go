package gemini

import (
	"google.golang.org/genai"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

var suggestionOrder = []string{
	"grindSetting", "doseGrams", "tampPressure", "shotType", "filterType",
	"yieldGrams", "brewTimeSeconds", "waterTempCelsius", "puckCondition",
}

func suggestionProperties() map[string]*genai.Schema {
	return map[string]*genai.Schema{
		"grindSetting":     {Type: genai.TypeString},
		"doseGrams":        {Type: genai.TypeNumber},
		"tampPressure":     {Type: genai.TypeString, Enum: models.TampPressures},
		"shotType":         {Type: genai.TypeString, Enum: []string{models.ShotSingle, models.ShotDouble}},
		"filterType":       {Type: genai.TypeString, Enum: []string{models.FilterSingleWall, models.FilterDualWall}},
		"yieldGrams":       {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"brewTimeSeconds":  {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"waterTempCelsius": {Type: genai.TypeNumber, Nullable: genai.Ptr(true)},
		"puckCondition":    {Type: genai.TypeString, Nullable: genai.Ptr(true)},
	}
}

var suggestionRequired = []string{"grindSetting", "doseGrams", "tampPressure", "shotType", "filterType"}

// ResponseSchema is the structured-output contract for an analysis reply.
func ResponseSchema() *genai.Schema {
	matrixProps := suggestionProperties()
	matrixProps["coffeeType"] = &genai.Schema{
		Type: genai.TypeString,
		Enum: []string{models.CoffeeBean, models.CoffeePreGround},
	}
	matrixProps["reasoning"] = &genai.Schema{Type: genai.TypeString}

	matrixOrder := append([]string{"shotType", "filterType", "coffeeType"}, suggestionOrder[:3]...)
	matrixOrder = append(matrixOrder, suggestionOrder[5:]...)
	matrixOrder = append(matrixOrder, "reasoning")

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"significantFactors": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
			"nextBrewSuggestions": {
				Type:             genai.TypeObject,
				Properties:       suggestionProperties(),
				Required:         suggestionRequired,
				PropertyOrdering: suggestionOrder,
			},
			"fullBrewMatrix": {
				Type:     genai.TypeArray,
				MinItems: genai.Ptr[int64](8),
				MaxItems: genai.Ptr[int64](8),
				Items: &genai.Schema{
					Type:             genai.TypeObject,
					Properties:       matrixProps,
					Required:         append([]string{"coffeeType", "reasoning"}, suggestionRequired...),
					PropertyOrdering: matrixOrder,
				},
			},
			"analysisSummary": {Type: genai.TypeString},
		},
		Required: []string{"significantFactors", "nextBrewSuggestions", "fullBrewMatrix", "analysisSummary"},
		PropertyOrdering: []string{
			"significantFactors", "nextBrewSuggestions", "fullBrewMatrix", "analysisSummary",
		},
	}
}
