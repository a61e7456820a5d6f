package models

// Temperature units.
const (
	UnitCelsius    = "C"
	UnitFahrenheit = "F"
)

// FormState is the draft experiment form. Values are kept as entered so
// that partially typed input survives between edits.
type FormState struct {
	GrindSetting    string `json:"grindSetting"`
	DoseGrams       string `json:"doseGrams"`
	YieldGrams      string `json:"yieldGrams"`
	BrewTimeSeconds string `json:"brewTimeSeconds"`
	WaterTemp       string `json:"waterTemp"`
	PuckCondition   string `json:"puckCondition"`
	TampPressure    string `json:"tampPressure"`
	ShotType        string `json:"shotType"`
	FilterType      string `json:"filterType"`
	TasteRating     string `json:"tasteRating"`
	Notes           string `json:"notes"`
	IsPreGround     bool   `json:"isPreGround"`
	TempUnit        string `json:"tempUnit"`
}

// FormView is the form plus everything derived from it for display.
type FormView struct {
	Form    FormState       `json:"form"`
	Range   *ParameterRange `json:"range"`
	Warning string          `json:"warning,omitempty"`
}

// GearItem is a piece of recommended equipment.
type GearItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	SearchURL   string   `json:"searchUrl"`
	Factors     []string `json:"factors"`
	Highlighted bool     `json:"highlighted"`
}
