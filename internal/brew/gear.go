package brew

import (
	"net/url"
	"slices"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// Factor names the analysis reports as significant.
const (
	FactorDose   = "Dose (grams)"
	FactorYield  = "Yield (grams)"
	FactorTime   = "Brew Time (seconds)"
	FactorTamp   = "Tamp Pressure"
	FactorGrind  = "Grind Setting"
	FactorPuck   = "Puck Condition"
	grinderID    = "coffee-grinder"
	searchPrefix = "https://www.amazon.com/s?k="
)

type gearDef struct {
	id          string
	title       string
	description string
	searchTerm  string
	factors     []string
	alwaysShow  bool
}

var gearCatalog = []gearDef{
	{
		id:          "espresso-scale",
		title:       "Espresso Scale",
		description: "Crucial for precise measurement of coffee dose and espresso yield. Look for scales with 0.1 gram accuracy and a timer function.",
		searchTerm:  "espresso scale 0.1g with timer best seller",
		factors:     []string{FactorDose, FactorYield, FactorTime},
		alwaysShow:  true,
	},
	{
		id:          "espresso-tamper",
		title:       "Espresso Tamper",
		description: "Ensures an even and consistent puck. Consider calibrated tampers for repeatable pressure, or precision tampers matched to your basket size.",
		searchTerm:  "calibrated espresso tamper amazon choice",
		factors:     []string{FactorTamp},
		alwaysShow:  true,
	},
	{
		id:          grinderID,
		title:       "Coffee Grinder (Burr Grinder)",
		description: "A quality burr grinder provides consistent particle size, essential for good extraction.",
		searchTerm:  "espresso burr grinder electric highly rated",
		factors:     []string{FactorGrind},
	},
	{
		id:          "wdt-tool",
		title:       "WDT (Weiss Distribution Technique) Tool",
		description: "Breaks up clumps and distributes grounds evenly in the basket, reducing channeling.",
		searchTerm:  "WDT tool espresso best seller",
		factors:     []string{FactorPuck},
		alwaysShow:  true,
	},
	{
		id:          "puck-screen",
		title:       "Puck Screen / Sieve",
		description: "Sits on top of the puck to spread water evenly and keep the group head clean.",
		searchTerm:  "espresso puck screen amazon choice",
		factors:     []string{FactorPuck},
		alwaysShow:  true,
	},
	{
		id:          "bottomless-portafilter",
		title:       "Bottomless Portafilter",
		description: "Makes channeling and uneven extraction visible while the shot runs.",
		searchTerm:  "bottomless portafilter highly rated",
		factors:     []string{FactorPuck},
		alwaysShow:  true,
	},
	{
		id:          "nespresso-system",
		title:       "Nespresso System",
		description: "A single-serve alternative with consistent results when the manual process is not worth the effort.",
		searchTerm:  "nespresso machine and pods",
		alwaysShow:  true,
	},
}

// RecommendedGear lists the gear to show for the current significant
// factors. The grinder is hidden and never highlighted for pre-ground coffee.
func RecommendedGear(significant []string, preGround bool) []models.GearItem {
	items := make([]models.GearItem, 0, len(gearCatalog))
	for _, g := range gearCatalog {
		if !g.alwaysShow && preGround {
			continue
		}
		highlighted := false
		if !(g.id == grinderID && preGround) {
			for _, f := range significant {
				if slices.Contains(g.factors, f) {
					highlighted = true
					break
				}
			}
		}
		factors := g.factors
		if factors == nil {
			factors = []string{}
		}
		items = append(items, models.GearItem{
			ID:          g.id,
			Title:       g.title,
			Description: g.description,
			SearchURL:   searchPrefix + url.QueryEscape(g.searchTerm),
			Factors:     factors,
			Highlighted: highlighted,
		})
	}
	return items
}
