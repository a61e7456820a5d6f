package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/internal/client"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const none = "-"

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C8A27A"))
	labelStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF5F5F"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00"))
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#87D787"))
	borderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
}

func grams(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) + "g" }

func optGrams(v *float64) string {
	if v == nil {
		return none
	}
	return grams(*v)
}

func optSeconds(v *float64) string {
	if v == nil {
		return none
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "s"
}

func optTemp(c *float64, unit string) string {
	if c == nil {
		return none
	}
	return brew.FormatTemp(*c, unit)
}

func optString(s *string) string {
	if s == nil || *s == "" {
		return none
	}
	return *s
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}

func renderRange(w io.Writer, shot, filter string, info client.RangeInfo) {
	if !info.Defined || info.Display == nil {
		fmt.Fprintln(w, warnStyle.Render(orNone(info.Message)))
		return
	}
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Ideal range: %s shot, %s basket", shot, filter)))
	field(w, "Dose", info.Display.Dose)
	field(w, "Yield", info.Display.Yield)
	field(w, "Time", info.Display.Time)
	field(w, "Temperature", info.Display.Temp)
	field(w, "Puck", info.Display.Puck)
}

func renderLog(w io.Writer, p client.Page, unit string) {
	if p.Total == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No experiments recorded yet."))
		return
	}

	t := newTable("ID", "Date", "Grind", "Dose", "Yield", "Time", "Temp", "Puck", "Tamp", "Shot", "Filter", "Taste", "Notes")
	for _, e := range p.Experiments {
		taste := none
		if e.TasteRating != nil {
			taste = strconv.Itoa(*e.TasteRating) + "/5"
		}
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.Date,
			e.GrindSetting,
			grams(e.DoseGrams),
			optGrams(e.YieldGrams),
			optSeconds(e.BrewTimeSeconds),
			optTemp(e.WaterTempCelsius, unit),
			optString(e.PuckCondition),
			e.TampPressure+" lbs",
			e.ShotType,
			e.FilterType,
			taste,
			orNone(e.Notes),
		)
	}
	fmt.Fprintln(w, t.String())

	footer := fmt.Sprintf("Page %d, %d of %d experiments", p.Page, len(p.Experiments), p.Total)
	if p.HasNext {
		footer += fmt.Sprintf(" (next: --page %d)", p.Page+1)
	}
	fmt.Fprintln(w, mutedStyle.Render(footer))
}

func renderSummary(w io.Writer, s client.Summary) {
	if s.Total == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No experiments recorded yet."))
		return
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%d experiments", s.Total)))
	t := newTable("Shot", "Filter", "Coffee", "Shots", "Rated", "Avg taste", "Best", "Last")
	for _, g := range s.Groups {
		avg, best := none, none
		if g.AvgRating != nil {
			avg = strconv.FormatFloat(*g.AvgRating, 'f', 1, 64)
		}
		if g.BestRating != nil && g.BestID != nil {
			best = fmt.Sprintf("%d/5 (#%d)", *g.BestRating, *g.BestID)
		}
		t.Row(g.ShotType, g.FilterType, g.CoffeeType,
			strconv.Itoa(g.Count), strconv.Itoa(g.Rated), avg, best, g.LastDate)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, mutedStyle.Render("fingerprint "+s.Fingerprint))
}

func renderRecorded(w io.Writer, e models.Experiment) {
	fmt.Fprintln(w, highlightStyle.Render(fmt.Sprintf("Recorded experiment #%d", e.ID)))
	fmt.Fprintf(w, "%s, %s dose, %s %s shot in a %s basket\n",
		e.Date, grams(e.DoseGrams), e.GrindSetting, e.ShotType, e.FilterType)
	fmt.Fprintln(w, mutedStyle.Render("Analysis started. Run `brewctl analyze --wait` to see the result."))
}

func renderAnalysis(w io.Writer, st models.AnalysisState) {
	switch {
	case st.Busy:
		fmt.Fprintln(w, mutedStyle.Render("Analyzing experiments..."))
		return
	case st.Error != "":
		fmt.Fprintln(w, errorStyle.Render(st.Error))
		if st.ErrorCode != "" {
			fmt.Fprintln(w, mutedStyle.Render(st.ErrorCode))
		}
		fmt.Fprintln(w, mutedStyle.Render("Dismiss with `brewctl analyze --dismiss`."))
		return
	case st.Result == nil:
		fmt.Fprintln(w, mutedStyle.Render("No analysis yet. Record an experiment first."))
		return
	}

	r := st.Result
	fmt.Fprintln(w, titleStyle.Render("Analysis"))
	fmt.Fprintln(w, r.AnalysisSummary)
	fmt.Fprintln(w)

	fmt.Fprintln(w, titleStyle.Render("Significant factors"))
	for _, f := range r.SignificantFactors {
		fmt.Fprintf(w, "  • %s\n", f)
	}
	fmt.Fprintln(w)

	renderSuggestion(w, st.Selection, st.Displayed)
	fmt.Fprintln(w)

	if len(r.FullBrewMatrix) > 0 {
		fmt.Fprintln(w, titleStyle.Render("Suggestion matrix"))
		t := newTable("Shot", "Filter", "Coffee", "Grind", "Dose", "Yield", "Time", "Temp", "Tamp", "Reasoning")
		for _, e := range r.FullBrewMatrix {
			t.Row(e.ShotType, e.FilterType, e.CoffeeType, e.GrindSetting, grams(e.DoseGrams),
				optGrams(e.YieldGrams), optSeconds(e.BrewTimeSeconds),
				optTemp(e.WaterTempCelsius, models.UnitCelsius), e.TampPressure+" lbs", e.Reasoning)
		}
		fmt.Fprintln(w, t.String())
	}
}

func renderSuggestion(w io.Writer, sel *models.Selection, s *models.Suggestion) {
	title := "Next brew"
	if sel != nil {
		title = fmt.Sprintf("Next brew: %s shot, %s basket, %s", sel.ShotType, sel.FilterType, sel.CoffeeType)
	}
	fmt.Fprintln(w, titleStyle.Render(title))

	if s == nil {
		fmt.Fprintln(w, warnStyle.Render("No suggestion for this combination."))
		return
	}
	field(w, "Grind", s.GrindSetting)
	field(w, "Dose", grams(s.DoseGrams))
	field(w, "Yield", optGrams(s.YieldGrams))
	field(w, "Time", optSeconds(s.BrewTimeSeconds))
	field(w, "Temperature", optTemp(s.WaterTempCelsius, models.UnitCelsius))
	field(w, "Tamp", s.TampPressure+" lbs")
	field(w, "Puck", optString(s.PuckCondition))
}

func renderForm(w io.Writer, v models.FormView) {
	f := v.Form
	fmt.Fprintln(w, titleStyle.Render("Draft experiment"))

	grind := f.GrindSetting
	if f.IsPreGround {
		grind = models.PreGroundGrind
	}
	temp := none
	if f.WaterTemp != "" {
		temp = f.WaterTemp + "°" + f.TempUnit
	}
	taste := none
	if f.TasteRating != "" {
		taste = f.TasteRating + "/5"
	}
	tamp := none
	if f.TampPressure != "" {
		tamp = f.TampPressure + " lbs"
	}

	field(w, "Shot", orNone(f.ShotType))
	field(w, "Filter", orNone(f.FilterType))
	field(w, "Grind", orNone(grind))
	field(w, "Dose", withUnit(f.DoseGrams, "g"))
	field(w, "Yield", withUnit(f.YieldGrams, "g"))
	field(w, "Time", withUnit(f.BrewTimeSeconds, "s"))
	field(w, "Temperature", temp)
	field(w, "Tamp", tamp)
	field(w, "Puck", orNone(f.PuckCondition))
	field(w, "Taste", taste)
	field(w, "Notes", orNone(f.Notes))

	if v.Range != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Ideal: %s-%s dose, %s-%s yield, %g-%gs, %s",
			strconv.FormatFloat(v.Range.DoseMin, 'f', -1, 64), grams(v.Range.DoseMax),
			strconv.FormatFloat(v.Range.YieldMin, 'f', -1, 64), grams(v.Range.YieldMax),
			v.Range.TimeMin, v.Range.TimeMax,
			brew.TempRangeDisplay(*v.Range, f.TempUnit))))
	}
	if v.Warning != "" {
		fmt.Fprintln(w, warnStyle.Render(v.Warning))
	}
}

func withUnit(v, unit string) string {
	if strings.TrimSpace(v) == "" {
		return none
	}
	return v + unit
}

func renderGear(w io.Writer, items []models.GearItem) {
	fmt.Fprintln(w, titleStyle.Render("Recommended gear"))
	for _, g := range items {
		name := g.Title
		if g.Highlighted {
			name = highlightStyle.Render("★ " + g.Title)
		}
		fmt.Fprintln(w, name)
		fmt.Fprintln(w, "  "+g.Description)
		if g.Highlighted && len(g.Factors) > 0 {
			fmt.Fprintln(w, mutedStyle.Render("  relevant to: "+strings.Join(g.Factors, ", ")))
		}
		fmt.Fprintln(w, mutedStyle.Render("  "+g.SearchURL))
	}
}
