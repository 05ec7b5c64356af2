package cli

import (
	"fmt"

	"github.com/gkobilansky/conversion-goat/internal/stats"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSampleSizeCmd())
}

func newSampleSizeCmd() *cobra.Command {
	var baseline float64
	var pf paramFlags

	cmd := &cobra.Command{
		Use:   "sample-size",
		Short: "Compute the required sample size per group",
		Long: `Compute the number of users each group needs to detect the practical
significance at the configured alpha and power.

Example:
  cvg sample-size --baseline 0.1204 --practical-significance 0.01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := newAnalyzer().RequiredSampleSize(baseline, pf.params(cmd))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), stats.SampleSizeMessage(n))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&baseline, "baseline", "b", 0, "baseline conversion rate")
	cmd.MarkFlagRequired("baseline")
	addParamFlags(cmd, &pf)

	return cmd
}
