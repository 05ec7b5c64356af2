package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored experiments",
	Long:  `List all stored experiment datasets with per-group users and conversions.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		experiments, err := s.ListExperiments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list experiments: %w", err)
		}

		if len(experiments) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No experiments yet.")
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Store one with:")
			fmt.Fprintln(cmd.OutOrStdout(), "  cvg clean ab_data.csv --save landing")
			return nil
		}

		// Print table
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tRECORDS\tCONTROL\tTREATMENT\tSOURCE\tCREATED")

		for _, exp := range experiments {
			counts, err := s.GetGroupCounts(ctx, exp.Name)
			if err != nil {
				return fmt.Errorf("failed to get counts for experiment %s: %w", exp.Name, err)
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				exp.Name,
				formatNumber(exp.CleanRecords),
				formatGroup(counts, experiment.GroupControl),
				formatGroup(counts, experiment.GroupTreatment),
				exp.Source,
				exp.CreatedAt.Format("2006-01-02"),
			)
		}

		return w.Flush()
	})
}

// formatGroup prints "conversions/users" for a group.
func formatGroup(counts []store.GroupCounts, group experiment.Group) string {
	users, conversions := 0, 0
	for _, c := range counts {
		if c.Group == group {
			users += c.Users
			conversions += c.Conversions
		}
	}
	return fmt.Sprintf("%s/%s", formatNumber(conversions), formatNumber(users))
}
