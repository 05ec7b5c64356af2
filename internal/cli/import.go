package cli

import (
	"context"
	"fmt"

	"github.com/gkobilansky/conversion-goat/internal/dataset"
	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newImportCmd())
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name> <clean.csv>",
		Short: "Store a dataset under a name",
		Long: `Store a CSV dataset under a name, replacing any dataset already stored
there. The file is cleaned again on the way in.

Example:
  cvg import landing ab_clean.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, input := args[0], args[1]

			raw, err := dataset.ReadFile(input, cfg.DatasetColumns())
			if err != nil {
				return err
			}
			clean, summary := experiment.CleanWithSummary(raw)

			return withStore(func(s *store.SQLiteStore) error {
				exp, err := s.SaveExperiment(context.Background(), name, input, summary.Raw, clean)
				if err != nil {
					return fmt.Errorf("failed to save experiment: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s records into '%s'", formatNumber(exp.CleanRecords), exp.Name)
				if dropped := summary.Raw - summary.Clean; dropped > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), " (%s rows dropped while cleaning)", formatNumber(dropped))
				}
				fmt.Fprintln(cmd.OutOrStdout())
				return nil
			})
		},
	}
}
