package models

// Shot types.
const (
	ShotSingle = "Single"
	ShotDouble = "Double"
)

// Filter basket types.
const (
	FilterSingleWall = "Single Wall"
	FilterDualWall   = "Dual Wall"
)

// Coffee types used by the suggestion matrix.
const (
	CoffeeBean      = "Bean"
	CoffeePreGround = "Pre-ground"
)

// PreGroundGrind is the grind setting recorded for pre-ground coffee.
const PreGroundGrind = "Pre-ground"

// Tamp pressure choices in pounds.
var TampPressures = []string{"20", "25", "30"}

// Puck conditions observed after a shot.
var PuckConditions = []string{
	"Firm and Dry",
	"Slightly Wet",
	"Soupy",
	"Cracked",
	"Intact with no cracks",
	"Channeling Evident",
}

// Experiment is one recorded espresso shot. The JSON form is the stored
// format and is also what gets embedded in the analysis prompt.
type Experiment struct {
	ID               int64    `json:"id"`
	Date             string   `json:"date"`
	GrindSetting     string   `json:"grindSetting"`
	DoseGrams        float64  `json:"doseGrams"`
	YieldGrams       *float64 `json:"yieldGrams"`
	BrewTimeSeconds  *float64 `json:"brewTimeSeconds"`
	WaterTempCelsius *float64 `json:"waterTempCelsius"`
	PuckCondition    *string  `json:"puckCondition"`
	TampPressure     string   `json:"tampPressure"`
	ShotType         string   `json:"shotType"`
	FilterType       string   `json:"filterType"`
	TasteRating      *int     `json:"tasteRating"`
	Notes            string   `json:"notes"`
}

// ParameterRange is the notional perfect window for a shot/filter pair.
// Temperatures are Celsius.
type ParameterRange struct {
	ShotType   string  `json:"shotType"`
	FilterType string  `json:"filterType"`
	DoseMin    float64 `json:"doseMin"`
	DoseMax    float64 `json:"doseMax"`
	YieldMin   float64 `json:"yieldMin"`
	YieldMax   float64 `json:"yieldMax"`
	TimeMin    float64 `json:"timeMin"`
	TimeMax    float64 `json:"timeMax"`
	TempMin    float64 `json:"tempMin"`
	TempMax    float64 `json:"tempMax"`
	Puck       string  `json:"puck"`
}
