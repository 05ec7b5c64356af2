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
	rootCmd.AddCommand(newCleanCmd())
}

func newCleanCmd() *cobra.Command {
	var outPath, saveName string

	cmd := &cobra.Command{
		Use:   "clean <input.csv>",
		Short: "Clean a raw experiment export",
		Long: `Drop rows where a group saw the other group's landing page, then keep
only the last row for every user.

Examples:
  cvg clean ab_data.csv --out ab_clean.csv
  cvg clean ab_data.csv --save landing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]

			raw, err := dataset.ReadFile(input, cfg.DatasetColumns())
			if err != nil {
				return err
			}

			clean, summary := experiment.CleanWithSummary(raw)
			printCleanSummary(cmd, summary)

			if outPath != "" {
				if err := dataset.WriteFile(outPath, clean, cfg.DatasetColumns()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			}

			if saveName != "" {
				return withStore(func(s *store.SQLiteStore) error {
					exp, err := s.SaveExperiment(context.Background(), saveName, input, summary.Raw, clean)
					if err != nil {
						return fmt.Errorf("failed to save experiment: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Saved %d records as '%s'\n", exp.CleanRecords, exp.Name)
					return nil
				})
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the clean dataset to this CSV file")
	cmd.Flags().StringVar(&saveName, "save", "", "store the clean dataset under this name")

	return cmd
}

func printCleanSummary(cmd *cobra.Command, summary experiment.CleanSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Raw records:        %s\n", formatNumber(summary.Raw))
	fmt.Fprintf(out, "Mismatched pages:   %s\n", formatNumber(summary.Mismatched))
	fmt.Fprintf(out, "Duplicate users:    %s\n", formatNumber(summary.Duplicates))
	fmt.Fprintf(out, "Clean records:      %s\n", formatNumber(summary.Clean))
}
