package stats

import "github.com/gkobilansky/conversion-goat/internal/experiment"

// Interval is a plain lower/upper pair.
type Interval struct {
	Lower float64
	Upper float64
}

// Summary is the full analysis of a cleaned control/treatment dataset.
type Summary struct {
	Control         GroupReport
	Treatment       GroupReport
	ControlWilson   Interval
	TreatmentWilson Interval
	Difference      ConfidenceInterval
	ZTest           ZTestResult

	Params           Params
	Baseline         float64
	BaselineObserved bool // baseline taken from the control group's rate
	RequiredSize     float64
	Verdict          Verdict
}

// Summarize reports both groups, then sizes the test and compares the rates.
// A baseline of 0 means "use the observed control conversion rate".
func (a *Analyzer) Summarize(records []experiment.Record, baseline float64, p Params) (*Summary, error) {
	control, err := a.ReportConversions(records, experiment.GroupControl)
	if err != nil {
		return nil, err
	}
	treatment, err := a.ReportConversions(records, experiment.GroupTreatment)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Control:   control,
		Treatment: treatment,
		Params:    p,
		Baseline:  baseline,
	}
	if baseline == 0 {
		summary.Baseline = control.ConversionRate
		summary.BaselineObserved = true
	}

	summary.Verdict, summary.RequiredSize, err = a.CheckSampleSizes(control.TotalUsers, treatment.TotalUsers, summary.Baseline, p)
	if err != nil {
		return nil, err
	}

	summary.Difference, err = DifferenceCI(control.Conversions, treatment.Conversions, control.TotalUsers, treatment.TotalUsers, p.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	summary.ZTest, err = TwoProportionZTest(control.Conversions, control.TotalUsers, treatment.Conversions, treatment.TotalUsers, p.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	summary.ControlWilson.Lower, summary.ControlWilson.Upper, err = WilsonInterval(control.Conversions, control.TotalUsers, p.ConfidenceLevel)
	if err != nil {
		return nil, err
	}
	summary.TreatmentWilson.Lower, summary.TreatmentWilson.Upper, err = WilsonInterval(treatment.Conversions, treatment.TotalUsers, p.ConfidenceLevel)
	if err != nil {
		return nil, err
	}

	return summary, nil
}
