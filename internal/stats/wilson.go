package stats

import "math"

// WilsonInterval calculates the Wilson score confidence interval for a
// single group's conversion rate at significance level alpha. It behaves
// better than the normal approximation for small groups and rates near 0 or 1.
func WilsonInterval(successes, trials int, alpha float64) (lower, upper float64, err error) {
	if err := checkCounts(successes, trials, "sample"); err != nil {
		return 0, 0, err
	}
	if !inUnitInterval(alpha) {
		return 0, 0, invalidf("confidence level %v must be in (0, 1)", alpha)
	}

	z := criticalValue(alpha)
	p := float64(successes) / float64(trials)
	n := float64(trials)

	denominator := 1 + z*z/n
	center := (p + z*z/(2*n)) / denominator
	spread := (z / denominator) * math.Sqrt(p*(1-p)/n+z*z/(4*n*n))

	lower = math.Max(0, center-spread)
	upper = math.Min(1, center+spread)

	return lower, upper, nil
}
