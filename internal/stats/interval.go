package stats

import (
	"fmt"
	"math"
)

// ConfidenceInterval bounds the difference in conversion rates (treatment minus control).
type ConfidenceInterval struct {
	Lower float64
	Upper float64
	Delta float64
	Level float64 // significance level used
}

// DifferenceCI builds the two-sided Wald interval for the difference of two
// independent proportions at significance level alpha.
func DifferenceCI(convControl, convTreatment, totalControl, totalTreatment int, alpha float64) (ConfidenceInterval, error) {
	if err := checkCounts(convControl, totalControl, "control group"); err != nil {
		return ConfidenceInterval{}, err
	}
	if err := checkCounts(convTreatment, totalTreatment, "treatment group"); err != nil {
		return ConfidenceInterval{}, err
	}
	if !inUnitInterval(alpha) {
		return ConfidenceInterval{}, invalidf("confidence level %v must be in (0, 1)", alpha)
	}

	pc := float64(convControl) / float64(totalControl)
	pt := float64(convTreatment) / float64(totalTreatment)

	delta := pt - pc
	variance := pt*(1-pt)/float64(totalTreatment) + pc*(1-pc)/float64(totalControl)
	sd := math.Sqrt(variance)
	z := criticalValue(alpha)

	return ConfidenceInterval{
		Lower: delta - z*sd,
		Upper: delta + z*sd,
		Delta: delta,
		Level: alpha,
	}, nil
}

// checkCounts validates a conversions/total pair before it is used as a ratio.
// label names the counts in error messages.
func checkCounts(conversions, total int, label string) error {
	if total == 0 {
		return fmt.Errorf("%w: %s has no users", ErrDivisionByZero, label)
	}
	if total < 0 {
		return invalidf("%s total %d is negative", label, total)
	}
	if conversions < 0 || conversions > total {
		return invalidf("%s conversions %d must be within [0, %d]", label, conversions, total)
	}
	return nil
}
