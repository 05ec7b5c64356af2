package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/gkobilansky/conversion-goat/internal/stats"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newResultsCmd())
}

func newResultsCmd() *cobra.Command {
	var baseline float64
	var pf paramFlags

	cmd := &cobra.Command{
		Use:   "results <name>",
		Short: "Show the full analysis for an experiment",
		Long: `Show conversion rates with Wilson intervals, the sample size verdict, the
confidence interval for the difference and a two-proportion z-test.

Without --baseline the control group's observed rate is the baseline.

Example:
  cvg results landing --baseline 0.1204`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				ctx := context.Background()

				exp, err := s.GetExperiment(ctx, name)
				if err != nil {
					return notFound(err, name)
				}
				records, err := s.GetRecords(ctx, name)
				if err != nil {
					return fmt.Errorf("failed to get records: %w", err)
				}

				summary, err := newAnalyzer().Summarize(records, baseline, pf.params(cmd))
				if err != nil {
					return err
				}

				printResults(cmd, exp, summary)
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&baseline, "baseline", "b", 0, "baseline conversion rate (default: observed control rate)")
	addParamFlags(cmd, &pf)

	return cmd
}

func printResults(cmd *cobra.Command, exp *store.Experiment, summary *stats.Summary) {
	out := cmd.OutOrStdout()
	level := (1 - summary.Params.ConfidenceLevel) * 100

	// Print header
	fmt.Fprintf(out, "EXPERIMENT: %s\n", exp.Name)
	if exp.Source != "" {
		fmt.Fprintf(out, "SOURCE: %s\n", exp.Source)
	}
	fmt.Fprintf(out, "RECORDS: %s clean of %s raw\n", formatNumber(exp.CleanRecords), formatNumber(exp.RawRecords))
	fmt.Fprintf(out, "CREATED: %s\n", exp.CreatedAt.Format("2006-01-02"))
	fmt.Fprintln(out)

	// Print table header
	fmt.Fprintf(out, "GROUP      PAGE      USERS    CONVERSIONS  RATE     %g%% CI\n", level)
	fmt.Fprintln(out, strings.Repeat("─", 64))

	for _, g := range []struct {
		report stats.GroupReport
		wilson stats.Interval
	}{
		{summary.Control, summary.ControlWilson},
		{summary.Treatment, summary.TreatmentWilson},
	} {
		fmt.Fprintf(out, "%-9s  %-8s  %-7d  %-11d  %-7s  [%.1f%%, %.1f%%]\n",
			g.report.Group,
			g.report.Page,
			g.report.TotalUsers,
			g.report.Conversions,
			formatPercent(g.report.ConversionRate),
			g.wilson.Lower*100,
			g.wilson.Upper*100,
		)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, summary.Control.Message())
	fmt.Fprintln(out, summary.Treatment.Message())
	fmt.Fprintln(out)

	source := "given"
	if summary.BaselineObserved {
		source = "observed in control"
	}
	fmt.Fprintf(out, "Baseline rate: %s (%s)\n", formatPercent(summary.Baseline), source)
	fmt.Fprintln(out, stats.SampleSizeMessage(summary.RequiredSize))
	fmt.Fprintln(out, summary.Verdict.Message())
	fmt.Fprintln(out)

	d := summary.Difference
	fmt.Fprintf(out, "Difference (treatment - control): %.6f\n", d.Delta)
	fmt.Fprintf(out, "%g%% confidence interval: [%.6f, %.6f]\n", level, d.Lower, d.Upper)

	z := summary.ZTest
	verdict := "not significant"
	if z.Significant {
		verdict = "significant"
	}
	fmt.Fprintf(out, "Z-test: z=%.3f, p=%.4f (%s at alpha %g)\n", z.Z, z.PValue, verdict, summary.Params.ConfidenceLevel)
}
