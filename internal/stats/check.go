package stats

// Verdict classifies whether both groups reached the required sample size.
type Verdict int

const (
	BothSufficient Verdict = iota
	TreatmentInsufficient
	ControlInsufficient
	BothInsufficient
)

func (v Verdict) String() string {
	switch v {
	case BothSufficient:
		return "both_sufficient"
	case TreatmentInsufficient:
		return "treatment_insufficient"
	case ControlInsufficient:
		return "control_insufficient"
	case BothInsufficient:
		return "both_insufficient"
	default:
		return "unknown"
	}
}

// Message is the operator-facing status line for the verdict.
func (v Verdict) Message() string {
	switch v {
	case BothSufficient:
		return "Control and treatment groups are sufficiently large to conduct hypothesis testing"
	case TreatmentInsufficient:
		return "Treatment group not sufficiently large to conduct hypothesis testing."
	case ControlInsufficient:
		return "Control group not sufficiently large to conduct hypothesis testing."
	default:
		return "Control and treatment groups not sufficiently large to conduct hypothesis testing."
	}
}

// Classify compares realized group sizes against a required size.
func Classify(control, treatment int, required float64) Verdict {
	controlOK := float64(control) >= required
	treatmentOK := float64(treatment) >= required

	switch {
	case controlOK && treatmentOK:
		return BothSufficient
	case controlOK:
		return TreatmentInsufficient
	case treatmentOK:
		return ControlInsufficient
	default:
		return BothInsufficient
	}
}

// CheckSampleSizes estimates the required size for baseline and classifies
// the realized group sizes against it. The required size is returned as well.
func CheckSampleSizes(control, treatment int, baseline float64, p Params) (Verdict, float64, error) {
	required, err := RequiredSampleSize(baseline, p)
	if err != nil {
		return 0, 0, err
	}
	return Classify(control, treatment, required), required, nil
}
