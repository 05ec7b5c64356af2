package stats

import (
	"io"
	"log/slog"
	"math"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
)

// Analyzer runs the calculations and reports each result to a logger.
// The returned values are identical to the package-level functions.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer returns an Analyzer that logs to logger. A nil logger discards events.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Analyzer{logger: logger}
}

func (a *Analyzer) ReportConversions(records []experiment.Record, group experiment.Group) (GroupReport, error) {
	report, err := ReportConversions(records, group)
	if err != nil {
		a.logger.Warn("conversion report failed", "group", group, "kind", Kind(err), "error", err)
		return GroupReport{}, err
	}

	a.logger.Info(report.Message(),
		"group", report.Group,
		"page", report.Page,
		"share_percent", report.SharePercent,
		"conversions", report.Conversions,
		"total_users", report.TotalUsers,
	)
	return report, nil
}

func (a *Analyzer) RequiredSampleSize(baseline float64, p Params) (float64, error) {
	n, err := RequiredSampleSize(baseline, p)
	if err != nil {
		return 0, err
	}

	a.logger.Info(SampleSizeMessage(n),
		"baseline_rate", baseline,
		"required", n,
		"per_group", int(math.Round(n)),
	)
	return n, nil
}

func (a *Analyzer) CheckSampleSizes(control, treatment int, baseline float64, p Params) (Verdict, float64, error) {
	required, err := a.RequiredSampleSize(baseline, p)
	if err != nil {
		return 0, 0, err
	}

	verdict := Classify(control, treatment, required)
	a.logger.Info(verdict.Message(),
		"verdict", verdict.String(),
		"control", control,
		"treatment", treatment,
		"required", required,
	)
	return verdict, required, nil
}

// DifferenceCI has no status line; it is here so callers can use one type.
func (a *Analyzer) DifferenceCI(convControl, convTreatment, totalControl, totalTreatment int, alpha float64) (ConfidenceInterval, error) {
	return DifferenceCI(convControl, convTreatment, totalControl, totalTreatment, alpha)
}
