package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCICmd())
}

func newCICmd() *cobra.Command {
	var convControl, convTreatment, totalControl, totalTreatment int
	var alpha float64

	cmd := &cobra.Command{
		Use:   "ci",
		Short: "Confidence interval for the difference in conversion rates",
		Long: `Build a confidence interval for treatment rate minus control rate from
raw counts.

Example:
  cvg ci --conversions-control 5329 --conversions-treatment 5648 \
         --total-control 58583 --total-treatment 56350`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("alpha") {
				alpha = cfg.Params().ConfidenceLevel
			}

			ci, err := newAnalyzer().DifferenceCI(convControl, convTreatment, totalControl, totalTreatment, alpha)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Difference (treatment - control): %.6f\n", ci.Delta)
			fmt.Fprintf(out, "%g%% confidence interval: [%.6f, %.6f]\n", (1-alpha)*100, ci.Lower, ci.Upper)
			return nil
		},
	}

	cmd.Flags().IntVar(&convControl, "conversions-control", 0, "conversions in the control group")
	cmd.Flags().IntVar(&convTreatment, "conversions-treatment", 0, "conversions in the treatment group")
	cmd.Flags().IntVar(&totalControl, "total-control", 0, "users in the control group")
	cmd.Flags().IntVar(&totalTreatment, "total-treatment", 0, "users in the treatment group")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "significance level")
	cmd.MarkFlagRequired("total-control")
	cmd.MarkFlagRequired("total-treatment")

	return cmd
}
