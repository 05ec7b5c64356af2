package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZTestResult is the outcome of a two-proportion z-test.
type ZTestResult struct {
	Z           float64
	PValue      float64
	Significant bool
}

// TwoProportionZTest tests H0: both groups convert at the same rate, against
// the two-sided alternative, using the pooled standard error.
func TwoProportionZTest(convControl, totalControl, convTreatment, totalTreatment int, alpha float64) (ZTestResult, error) {
	if err := checkCounts(convControl, totalControl, "control group"); err != nil {
		return ZTestResult{}, err
	}
	if err := checkCounts(convTreatment, totalTreatment, "treatment group"); err != nil {
		return ZTestResult{}, err
	}
	if !inUnitInterval(alpha) {
		return ZTestResult{}, invalidf("confidence level %v must be in (0, 1)", alpha)
	}

	pc := float64(convControl) / float64(totalControl)
	pt := float64(convTreatment) / float64(totalTreatment)

	// Pooled proportion under the null hypothesis
	pooled := float64(convControl+convTreatment) / float64(totalControl+totalTreatment)
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(totalControl) + 1/float64(totalTreatment)))

	// Everyone or no one converted in both groups
	if se == 0 {
		return ZTestResult{Z: 0, PValue: 1}, nil
	}

	z := (pt - pc) / se
	pValue := 2 * distuv.UnitNormal.Survival(math.Abs(z))

	return ZTestResult{
		Z:           z,
		PValue:      pValue,
		Significant: pValue < alpha,
	}, nil
}
