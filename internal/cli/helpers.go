package cli

import (
	"errors"
	"fmt"

	"github.com/gkobilansky/conversion-goat/internal/logging"
	"github.com/gkobilansky/conversion-goat/internal/stats"
	"github.com/gkobilansky/conversion-goat/internal/store"
	"github.com/spf13/cobra"
)

// withStore opens the database, executes the function, and handles cleanup.
func withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

func newAnalyzer() *stats.Analyzer {
	return stats.NewAnalyzer(logging.New("stats"))
}

// notFound turns store.ErrNotFound into a message naming the experiment.
func notFound(err error, name string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("experiment '%s' not found", name)
	}
	return err
}

// paramFlags are the test parameter flags shared by sample-size, check and results.
type paramFlags struct {
	practicalSignificance float64
	alpha                 float64
	power                 float64
}

func addParamFlags(cmd *cobra.Command, pf *paramFlags) {
	defaults := stats.DefaultParams()
	cmd.Flags().Float64Var(&pf.practicalSignificance, "practical-significance", defaults.PracticalSignificance, "minimum lift worth detecting")
	cmd.Flags().Float64Var(&pf.alpha, "alpha", defaults.ConfidenceLevel, "significance level")
	cmd.Flags().Float64Var(&pf.power, "power", defaults.Sensitivity, "statistical power")
}

// params overlays flags set on the command line onto the configured parameters.
func (pf *paramFlags) params(cmd *cobra.Command) stats.Params {
	p := cfg.Params()
	if cmd.Flags().Changed("practical-significance") {
		p.PracticalSignificance = pf.practicalSignificance
	}
	if cmd.Flags().Changed("alpha") {
		p.ConfidenceLevel = pf.alpha
	}
	if cmd.Flags().Changed("power") {
		p.Sensitivity = pf.power
	}
	return p
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}

func formatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}
