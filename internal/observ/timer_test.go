package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.End(load, "3 files")
	err := tm.Measure("query", func() error { return errors.New("bad ref") })
	if err == nil || err.Error() != "bad ref" {
		t.Fatalf("Measure error = %v", err)
	}
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(report.Phases))
	}
	if report.Phases[0].Note != "3 files" || report.Phases[1].Note != "failed" {
		t.Fatalf("notes = %q, %q", report.Phases[0].Note, report.Phases[1].Note)
	}
	if report.TotalMS < report.Phases[0].DurationMS {
		t.Fatalf("total %f below a phase", report.TotalMS)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "load", "(3 files)", "query", "total"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("Report = %+v", r)
	}
}
