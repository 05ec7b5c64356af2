package cli

import (
	"context"
	"fmt"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/stats"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	var baseline float64
	var pf paramFlags

	cmd := &cobra.Command{
		Use:   "check <name>",
		Short: "Check whether both groups are large enough",
		Long: `Compare the stored group sizes against the required sample size.

Example:
  cvg check landing --baseline 0.1204`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				records, err := s.GetRecords(context.Background(), name)
				if err != nil {
					return notFound(err, name)
				}

				analyzer := newAnalyzer()
				control, err := analyzer.ReportConversions(records, experiment.GroupControl)
				if err != nil {
					return err
				}
				treatment, err := analyzer.ReportConversions(records, experiment.GroupTreatment)
				if err != nil {
					return err
				}

				verdict, required, err := analyzer.CheckSampleSizes(control.TotalUsers, treatment.TotalUsers, baseline, pf.params(cmd))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, stats.SampleSizeMessage(required))
				fmt.Fprintf(out, "Control users:    %s\n", formatNumber(control.TotalUsers))
				fmt.Fprintf(out, "Treatment users:  %s\n", formatNumber(treatment.TotalUsers))
				fmt.Fprintln(out, verdict.Message())
				return nil
			})
		},
	}

	cmd.Flags().Float64VarP(&baseline, "baseline", "b", 0, "baseline conversion rate")
	cmd.MarkFlagRequired("baseline")
	addParamFlags(cmd, &pf)

	return cmd
}
