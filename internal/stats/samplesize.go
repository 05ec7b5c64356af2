package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// EffectSize returns Cohen's h for two proportions: the difference between
// their arcsine-transformed values.
func EffectSize(p1, p2 float64) float64 {
	return 2*math.Asin(math.Sqrt(p1)) - 2*math.Asin(math.Sqrt(p2))
}

// RequiredSampleSize returns the minimum number of users per group needed to
// detect a change of p.PracticalSignificance from baseline with a two-sided
// two-sample z-test at significance p.ConfidenceLevel and power p.Sensitivity.
// Groups are assumed equal in size. The result is not rounded.
func RequiredSampleSize(baseline float64, p Params) (float64, error) {
	if !inUnitInterval(baseline) {
		return 0, invalidf("baseline rate %v must be in (0, 1)", baseline)
	}
	target := baseline + p.PracticalSignificance
	if !inUnitInterval(target) {
		return 0, invalidf("baseline rate plus practical significance %v must be in (0, 1)", target)
	}
	if err := p.validate(); err != nil {
		return 0, err
	}

	h := math.Abs(EffectSize(baseline, target))
	if h == 0 || math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, invalidf("effect size %v is not usable", h)
	}

	crit := criticalValue(p.ConfidenceLevel)

	// The closed form ignores the far rejection tail, so it never
	// undershoots: power(upper) >= Sensitivity while power(0) = alpha.
	zPower := distuv.UnitNormal.Quantile(p.Sensitivity)
	upper := 2 * (crit + zPower) * (crit + zPower) / (h * h)
	lower := 0.0

	for i := 0; i < 200; i++ {
		mid := lower + (upper-lower)/2
		if mid == lower || mid == upper {
			break
		}
		if power(h, crit, mid) < p.Sensitivity {
			lower = mid
		} else {
			upper = mid
		}
	}

	return upper, nil
}

// power of the two-sided test with n users in each group.
func power(h, crit, n float64) float64 {
	shift := h * math.Sqrt(n/2)
	return distuv.UnitNormal.Survival(crit-shift) + distuv.UnitNormal.CDF(-crit-shift)
}

// SampleSizeMessage is the operator-facing status line for a required size.
func SampleSizeMessage(n float64) string {
	return fmt.Sprintf("Required sample size: %.0f per group", math.Round(n))
}
