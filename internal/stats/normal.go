package stats

import "gonum.org/v1/gonum/stat/distuv"

// criticalValue is the two-sided z critical value for significance level alpha.
func criticalValue(alpha float64) float64 {
	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	if z < 0 {
		return -z
	}
	return z
}
