package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored experiment",
		Long: `Delete a stored experiment and all of its records.

Example:
  cvg delete landing --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			return withStore(func(s *store.SQLiteStore) error {
				ctx := context.Background()

				exp, err := s.GetExperiment(ctx, name)
				if err != nil {
					return notFound(err, name)
				}

				if !yes {
					confirmed, err := confirmDelete(exp)
					if err != nil {
						return err
					}
					if !confirmed {
						fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
						return nil
					}
				}

				if err := s.DeleteExperiment(ctx, name); err != nil {
					return notFound(err, name)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted '%s' (%s records)\n", name, formatNumber(exp.CleanRecords))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}

func confirmDelete(exp *store.Experiment) (bool, error) {
	prompt := promptui.Prompt{
		Label:     fmt.Sprintf("Delete '%s' with %s records", exp.Name, formatNumber(exp.CleanRecords)),
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
