package cli

import (
	"context"
	"fmt"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newReportCmd())
}

func newReportCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "report <name>",
		Short: "Report conversions for one group",
		Long: `Report conversions, total users and conversion rate for one group of a
stored experiment.

Example:
  cvg report landing --group treatment`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				records, err := s.GetRecords(context.Background(), name)
				if err != nil {
					return notFound(err, name)
				}

				report, err := newAnalyzer().ReportConversions(records, experiment.Group(group))
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, report.Message())
				fmt.Fprintf(out, "Conversions:      %s\n", formatNumber(report.Conversions))
				fmt.Fprintf(out, "Total users:      %s\n", formatNumber(report.TotalUsers))
				fmt.Fprintf(out, "Conversion rate:  %s\n", formatPercent(report.ConversionRate))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", string(experiment.GroupControl), "group to report (control or treatment)")

	return cmd
}
