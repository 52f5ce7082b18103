package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeQuery, true},
		{LevelPhase, ScopeSelect, false},
		{LevelDetail, ScopeSelect, true},
		{LevelDetail, ScopeCandidate, false},
		{LevelDebug, ScopeCandidate, true},
	}
	for _, tt := range tests {
		t.Run(tt.level.String()+"/"+tt.scope.String(), func(t *testing.T) {
			if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
				t.Fatalf("ShouldEmit = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel accepted loud")
	}
	if m, err := ParseMode("Both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeSelect, name, 0, "")
	}
	events := r.Snapshot()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []string{"c", "d", "e"} {
		if events[i].Name != want {
			t.Fatalf("event %d = %s, want %s", i, events[i].Name, want)
		}
	}
}

func TestSpanNesting(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	outer := Begin(r, ScopeQuery, "iter-item", 0)
	inner := Begin(r, ScopeSelect, "select", outer.ID())
	inner.WithExtra("ref", "<Vec<i32> as IntoIterator>")
	inner.End("ok")
	// Candidate scope is below the tracer level.
	Point(r, ScopeCandidate, "candidate", inner.ID(), "impl")
	outer.End("i32")

	events := r.Snapshot()
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	end := events[2]
	if end.Kind != KindSpanEnd || end.ParentID != outer.ID() || end.Extra["ref"] == "" {
		t.Fatalf("inner end = %+v", end)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatNDJSON); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines", len(lines))
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[2]), &decoded); err != nil {
		t.Fatalf("line is not JSON: %v", err)
	}
	if decoded["name"] != "select" || decoded["detail"] != "ok" {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestDisabledTracerDropsEverything(t *testing.T) {
	r := NewRingTracer(4, LevelOff)
	s := Begin(r, ScopeDriver, "load", 0)
	s.End("done")
	if s.ID() != 0 || len(r.Snapshot()) != 0 {
		t.Fatalf("disabled tracer recorded events")
	}
}

func TestTracerInContext(t *testing.T) {
	if got := FromContext(context.Background()); got != Nop {
		t.Fatalf("empty context = %T, want Nop", got)
	}
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	if got := FromContext(ctx); got != Tracer(r) {
		t.Fatalf("FromContext = %T, want the attached ring tracer", got)
	}
	if got := FromContext(WithTracer(ctx, nil)); got != Nop {
		t.Fatalf("nil tracer = %T, want Nop", got)
	}
}
