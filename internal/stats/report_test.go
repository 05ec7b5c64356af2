package stats_test

import (
	"errors"
	"testing"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/stats"
)

func sampleRecords() []experiment.Record {
	return []experiment.Record{
		{UserID: "1", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: false},
		{UserID: "2", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: true},
		{UserID: "3", Group: experiment.GroupTreatment, Page: experiment.PageNew, Converted: false},
		{UserID: "4", Group: experiment.GroupControl, Page: experiment.PageOld, Converted: false},
		{UserID: "5", Group: experiment.GroupTreatment, Page: experiment.PageNew, Converted: true},
	}
}

func TestReportConversions_Control(t *testing.T) {
	report, err := stats.ReportConversions(sampleRecords(), experiment.GroupControl)
	if err != nil {
		t.Fatalf("ReportConversions failed: %v", err)
	}

	if report.Conversions != 1 {
		t.Errorf("got %d conversions, want 1", report.Conversions)
	}
	if report.TotalUsers != 3 {
		t.Errorf("got %d total users, want 3", report.TotalUsers)
	}
	if report.ConversionRate != 0.3333333333333333 {
		t.Errorf("got rate %v, want 0.3333333333333333", report.ConversionRate)
	}
	if report.SharePercent != 60 {
		t.Errorf("got share %v, want 60", report.SharePercent)
	}
	if report.Page != experiment.PageOld {
		t.Errorf("got page %s, want old_page", report.Page)
	}
}

func TestReportConversions_Message(t *testing.T) {
	report, err := stats.ReportConversions(sampleRecords(), experiment.GroupControl)
	if err != nil {
		t.Fatalf("ReportConversions failed: %v", err)
	}

	want := "Percentage of control users who saw [old_page]: 60.0%"
	if got := report.Message(); got != want {
		t.Errorf("got message %q, want %q", got, want)
	}
}

func TestReportConversions_ShareRounding(t *testing.T) {
	records := append(sampleRecords(),
		experiment.Record{UserID: "6", Group: experiment.GroupTreatment, Page: experiment.PageNew},
		experiment.Record{UserID: "7", Group: experiment.GroupControl, Page: experiment.PageOld},
	)

	// 3 of 7 users
	report, err := stats.ReportConversions(records, experiment.GroupTreatment)
	if err != nil {
		t.Fatalf("ReportConversions failed: %v", err)
	}
	if report.SharePercent != 42.86 {
		t.Errorf("got share %v, want 42.86", report.SharePercent)
	}
}

func TestReportConversions_Idempotent(t *testing.T) {
	records := sampleRecords()

	first, err := stats.ReportConversions(records, experiment.GroupTreatment)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := stats.ReportConversions(records, experiment.GroupTreatment)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if first != second {
		t.Errorf("results differ: %+v vs %+v", first, second)
	}
}

func TestReportConversions_RateBounds(t *testing.T) {
	for _, group := range []experiment.Group{experiment.GroupControl, experiment.GroupTreatment} {
		report, err := stats.ReportConversions(sampleRecords(), group)
		if err != nil {
			t.Fatalf("ReportConversions(%s) failed: %v", group, err)
		}
		if report.ConversionRate != float64(report.Conversions)/float64(report.TotalUsers) {
			t.Errorf("%s: rate %v != conversions/total", group, report.ConversionRate)
		}
		if report.ConversionRate < 0 || report.ConversionRate > 1 {
			t.Errorf("%s: rate %v out of [0, 1]", group, report.ConversionRate)
		}
	}
}

func TestReportConversions_MultiplePages(t *testing.T) {
	records := sampleRecords()
	records = append(records, experiment.Record{UserID: "6", Group: experiment.GroupControl, Page: experiment.PageNew})

	_, err := stats.ReportConversions(records, experiment.GroupControl)
	if !errors.Is(err, stats.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}

	var integrityErr *stats.DataIntegrityError
	if !errors.As(err, &integrityErr) {
		t.Fatalf("expected *DataIntegrityError, got %T", err)
	}
	if len(integrityErr.Pages) != 2 {
		t.Errorf("expected 2 pages in error, got %v", integrityErr.Pages)
	}
	if stats.Kind(err) != "data_integrity" {
		t.Errorf("got kind %q, want data_integrity", stats.Kind(err))
	}
}

func TestReportConversions_EmptyGroup(t *testing.T) {
	_, err := stats.ReportConversions(sampleRecords(), "holdout")
	if !errors.Is(err, stats.ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}
