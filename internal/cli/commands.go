package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/brewlog/internal/brew"
	"github.com/kiranshivaraju/brewlog/internal/client"
	"github.com/kiranshivaraju/brewlog/pkg/models"
)

const pollInterval = 500 * time.Millisecond

func newRangesCommand(opts *options) *cobra.Command {
	var shot, filter, unit string

	cmd := &cobra.Command{
		Use:   "ranges",
		Short: "Show the ideal parameter range for a shot and filter type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			info, err := opts.client().Ranges(ctx, shot, filter, unit)
			if err != nil {
				return fmt.Errorf("get ranges: %w", err)
			}
			renderRange(cmd.OutOrStdout(), shot, filter, info)
			return nil
		},
	}
	cmd.Flags().StringVar(&shot, "shot", models.ShotDouble, "shot type (Single or Double)")
	cmd.Flags().StringVar(&filter, "filter", models.FilterSingleWall, "filter basket (Single Wall or Dual Wall)")
	cmd.Flags().StringVar(&unit, "unit", models.UnitCelsius, "temperature unit (C or F)")
	return cmd
}

func newLogCommand(opts *options) *cobra.Command {
	var page, limit int
	var summary bool
	var unit string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List recorded experiments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			c := opts.client()

			if summary {
				s, err := c.Summary(ctx)
				if err != nil {
					return fmt.Errorf("get summary: %w", err)
				}
				renderSummary(cmd.OutOrStdout(), s)
				return nil
			}

			p, err := c.Experiments(ctx, page, limit)
			if err != nil {
				return fmt.Errorf("list experiments: %w", err)
			}
			renderLog(cmd.OutOrStdout(), p, unit)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 50, "experiments per page")
	cmd.Flags().BoolVar(&summary, "summary", false, "group experiments by shot, filter and coffee type")
	cmd.Flags().StringVar(&unit, "unit", models.UnitCelsius, "temperature unit (C or F)")
	return cmd
}

func newAnalyzeCommand(opts *options) *cobra.Command {
	var wait, dismiss bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run or show the AI analysis of the log",
		Long: `Starts a new analysis of the whole experiment log. With --wait, polls
until it finishes and prints the result. An empty log is never analyzed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			c := opts.client()

			if dismiss {
				if err := c.DismissError(ctx); err != nil {
					return fmt.Errorf("dismiss error: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Analysis error dismissed.")
				return nil
			}

			st, err := c.RunAnalysis(ctx)
			if err != nil {
				return fmt.Errorf("start analysis: %w", err)
			}
			if wait && st.Busy {
				st, err = waitForAnalysis(ctx, c, pollInterval)
				if err != nil {
					return err
				}
			}
			renderAnalysis(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "wait for the analysis to finish")
	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "dismiss the last analysis error")
	return cmd
}

// waitForAnalysis polls until the latest dispatched analysis is no longer busy.
func waitForAnalysis(ctx context.Context, c *client.HTTPClient, interval time.Duration) (models.AnalysisState, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		st, err := c.Analysis(ctx)
		if err != nil {
			return models.AnalysisState{}, fmt.Errorf("get analysis: %w", err)
		}
		if !st.Busy {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return models.AnalysisState{}, fmt.Errorf("waiting for analysis: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func newSuggestCommand(opts *options) *cobra.Command {
	var sel models.Selection

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Show the suggestion for a shot, filter and coffee type",
		Long: `Without flags, shows the currently displayed suggestion. With all of
--shot, --filter and --coffee, selects that cell of the suggestion matrix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()
			c := opts.client()

			fs := cmd.Flags()
			if !fs.Changed("shot") && !fs.Changed("filter") && !fs.Changed("coffee") {
				st, err := c.Analysis(ctx)
				if err != nil {
					return fmt.Errorf("get analysis: %w", err)
				}
				renderSuggestion(cmd.OutOrStdout(), st.Selection, st.Displayed)
				return nil
			}

			res, err := c.Select(ctx, sel)
			if err != nil {
				return fmt.Errorf("select suggestion: %w", err)
			}
			renderSuggestion(cmd.OutOrStdout(), &res.Selection, res.Displayed)
			return nil
		},
	}
	cmd.Flags().StringVar(&sel.ShotType, "shot", "", "shot type (Single or Double)")
	cmd.Flags().StringVar(&sel.FilterType, "filter", "", "filter basket (Single Wall or Dual Wall)")
	cmd.Flags().StringVar(&sel.CoffeeType, "coffee", "", "coffee type (Bean or Pre-ground)")
	return cmd
}

func newGearCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "gear",
		Short: "Show recommended equipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			items, err := opts.client().Gear(ctx)
			if err != nil {
				return fmt.Errorf("get gear: %w", err)
			}
			renderGear(cmd.OutOrStdout(), items)
			return nil
		},
	}
}

func newConvertCommand() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert <temperature>",
		Short: "Convert a water temperature between C and F",
		Example: `  brewctl convert 93 --to F
  brewctl convert 200 --to C`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return fmt.Errorf("temperature must be a number, got %q", args[0])
			}
			to = strings.ToUpper(to)
			if !brew.ValidUnit(to) {
				return fmt.Errorf("--to must be C or F, got %q", to)
			}

			from := models.UnitCelsius
			if to == models.UnitCelsius {
				from = models.UnitFahrenheit
			}
			c := brew.ToCelsius(v, from)
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", brew.FormatTemp(c, from), brew.FormatTemp(c, to))
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", models.UnitFahrenheit, "target unit (C or F)")
	return cmd
}

func newResetCommand(opts *options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every recorded experiment",
		Long: `Deletes the whole experiment log, the analysis and the draft form.
This cannot be undone. Asks for confirmation unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), "Reset all experiments? This cannot be undone. [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()
			if err := opts.client().Reset(ctx); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All experiments deleted.")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
