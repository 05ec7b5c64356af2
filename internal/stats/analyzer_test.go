package stats_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/gkobilansky/conversion-goat/internal/experiment"
	"github.com/gkobilansky/conversion-goat/internal/stats"
)

func newTestAnalyzer() (*stats.Analyzer, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return stats.NewAnalyzer(logger), &buf
}

func TestAnalyzer_ReportConversionsLogsShare(t *testing.T) {
	a, buf := newTestAnalyzer()

	report, err := a.ReportConversions(sampleRecords(), experiment.GroupControl)
	if err != nil {
		t.Fatalf("ReportConversions failed: %v", err)
	}

	want, _ := stats.ReportConversions(sampleRecords(), experiment.GroupControl)
	if report != want {
		t.Errorf("analyzer result %+v differs from pure result %+v", report, want)
	}

	out := buf.String()
	for _, expected := range []string{"Percentage of control users who saw [old_page]: 60.0%", "share_percent=60", "total_users=3"} {
		if !strings.Contains(out, expected) {
			t.Errorf("log missing %q\n\nGot:\n%s", expected, out)
		}
	}
}

func TestAnalyzer_ReportConversionsLogsFailure(t *testing.T) {
	a, buf := newTestAnalyzer()

	records := append(sampleRecords(), experiment.Record{UserID: "9", Group: experiment.GroupTreatment, Page: experiment.PageOld})
	_, err := a.ReportConversions(records, experiment.GroupTreatment)
	if !errors.Is(err, stats.ErrDataIntegrity) {
		t.Fatalf("expected ErrDataIntegrity, got %v", err)
	}
	if !strings.Contains(buf.String(), "kind=data_integrity") {
		t.Errorf("expected failure to be logged, got:\n%s", buf.String())
	}
}

func TestAnalyzer_CheckSampleSizesLogsVerdict(t *testing.T) {
	a, buf := newTestAnalyzer()

	verdict, _, err := a.CheckSampleSizes(100, 100, 0.1204, stats.DefaultParams())
	if err != nil {
		t.Fatalf("CheckSampleSizes failed: %v", err)
	}
	if verdict != stats.BothInsufficient {
		t.Errorf("got %s, want both_insufficient", verdict)
	}

	out := buf.String()
	for _, expected := range []string{"Required sample size: 17210 per group", "verdict=both_insufficient"} {
		if !strings.Contains(out, expected) {
			t.Errorf("log missing %q\n\nGot:\n%s", expected, out)
		}
	}
}

func TestAnalyzer_NilLogger(t *testing.T) {
	a := stats.NewAnalyzer(nil)

	if _, err := a.RequiredSampleSize(0.1204, stats.DefaultParams()); err != nil {
		t.Errorf("RequiredSampleSize failed with nil logger: %v", err)
	}
	if _, err := a.DifferenceCI(5329, 5648, 58583, 56350, 0.05); err != nil {
		t.Errorf("DifferenceCI failed with nil logger: %v", err)
	}
}
