package stats

const (
	DefaultPracticalSignificance = 0.01
	DefaultConfidenceLevel       = 0.05
	DefaultSensitivity           = 0.8
)

// Params configures sample size estimation.
type Params struct {
	// PracticalSignificance is the smallest change in conversion rate worth detecting.
	PracticalSignificance float64
	// ConfidenceLevel is the significance level alpha (Type I error rate), not a percentage.
	ConfidenceLevel float64
	// Sensitivity is the statistical power (1 - Type II error rate).
	Sensitivity float64
}

func DefaultParams() Params {
	return Params{
		PracticalSignificance: DefaultPracticalSignificance,
		ConfidenceLevel:       DefaultConfidenceLevel,
		Sensitivity:           DefaultSensitivity,
	}
}

func (p Params) validate() error {
	if !inUnitInterval(p.ConfidenceLevel) {
		return invalidf("confidence level %v must be in (0, 1)", p.ConfidenceLevel)
	}
	if !inUnitInterval(p.Sensitivity) {
		return invalidf("sensitivity %v must be in (0, 1)", p.Sensitivity)
	}
	if p.Sensitivity <= p.ConfidenceLevel {
		return invalidf("sensitivity %v must exceed confidence level %v", p.Sensitivity, p.ConfidenceLevel)
	}
	return nil
}

func inUnitInterval(x float64) bool {
	return x > 0 && x < 1
}
