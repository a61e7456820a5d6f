package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kiranshivaraju/brewlog/pkg/models"
)

// formFlags binds one flag per draft field. Only flags the user set are
// applied, so the server's draft (and its prefill) survives otherwise.
type formFlags struct {
	grind     string
	dose      string
	yield     string
	brewTime  string
	temp      string
	unit      string
	puck      string
	tamp      string
	shot      string
	filter    string
	taste     string
	notes     string
	preGround bool
}

func (f *formFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.grind, "grind", "", "grind setting")
	fs.StringVar(&f.dose, "dose", "", "dose in grams")
	fs.StringVar(&f.yield, "yield", "", "yield in grams")
	fs.StringVar(&f.brewTime, "time", "", "brew time in seconds")
	fs.StringVar(&f.temp, "temp", "", "water temperature in the form's unit")
	fs.StringVar(&f.unit, "unit", "", "temperature unit (C or F)")
	fs.StringVar(&f.puck, "puck", "", "puck condition")
	fs.StringVar(&f.tamp, "tamp", "", "tamp pressure in lbs (20, 25 or 30)")
	fs.StringVar(&f.shot, "shot", "", "shot type (Single or Double)")
	fs.StringVar(&f.filter, "filter", "", "filter basket (Single Wall or Dual Wall)")
	fs.StringVar(&f.taste, "taste", "", "taste rating 1-5")
	fs.StringVar(&f.notes, "notes", "", "tasting notes")
	fs.BoolVar(&f.preGround, "pre-ground", false, "coffee is pre-ground")
}

// apply overlays the flags the user changed onto form.
func (f *formFlags) apply(fs *pflag.FlagSet, form models.FormState) models.FormState {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("grind", &form.GrindSetting, f.grind)
	set("dose", &form.DoseGrams, f.dose)
	set("yield", &form.YieldGrams, f.yield)
	set("time", &form.BrewTimeSeconds, f.brewTime)
	set("temp", &form.WaterTemp, f.temp)
	set("unit", &form.TempUnit, f.unit)
	set("puck", &form.PuckCondition, f.puck)
	set("tamp", &form.TampPressure, f.tamp)
	set("shot", &form.ShotType, f.shot)
	set("filter", &form.FilterType, f.filter)
	set("taste", &form.TasteRating, f.taste)
	set("notes", &form.Notes, f.notes)
	if fs.Changed("pre-ground") {
		form.IsPreGround = f.preGround
		if !f.preGround && form.GrindSetting == models.PreGroundGrind {
			form.GrindSetting = ""
		}
	}
	return form
}

func (f *formFlags) anyChanged(fs *pflag.FlagSet) bool {
	changed := false
	fs.Visit(func(fl *pflag.Flag) {
		if fl.Name != "server" && fl.Name != "timeout" {
			changed = true
		}
	})
	return changed
}

func newFormCommand(opts *options) *cobra.Command {
	flags := &formFlags{}

	cmd := &cobra.Command{
		Use:   "form",
		Short: "Show or edit the draft experiment",
		Long: `Without flags, shows the server's draft experiment with the ideal
range for its shot and filter type. With flags, updates those fields.
Changing --unit converts the draft temperature.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			c := opts.client()

			view, err := c.Form(ctx)
			if err != nil {
				return fmt.Errorf("get form: %w", err)
			}
			if flags.anyChanged(cmd.Flags()) {
				view, err = c.UpdateForm(ctx, flags.apply(cmd.Flags(), view.Form))
				if err != nil {
					return fmt.Errorf("update form: %w", err)
				}
			}
			renderForm(cmd.OutOrStdout(), view)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}

func newRecordCommand(opts *options) *cobra.Command {
	flags := &formFlags{}

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an espresso shot",
		Long: `Records the server's draft experiment with any flags applied on top,
then starts an analysis of the updated log. Grind, dose, tamp, shot and
filter type are required; blank optional numbers are stored as absent.`,
		Example: `  brewctl record --grind 12 --dose 18 --tamp 25 --shot Double --filter "Single Wall" --temp 93
  brewctl record --pre-ground --dose 14 --shot Double --filter "Dual Wall" --taste 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			c := opts.client()

			view, err := c.Form(ctx)
			if err != nil {
				return fmt.Errorf("get form: %w", err)
			}
			form := flags.apply(cmd.Flags(), view.Form)

			exp, err := c.Record(ctx, form)
			if err != nil {
				return fmt.Errorf("record experiment: %w", err)
			}
			renderRecorded(cmd.OutOrStdout(), exp)
			return nil
		},
	}
	flags.register(cmd.Flags())
	return cmd
}
