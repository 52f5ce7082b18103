package resolve

import (
	"testing"

	"traitres/internal/trace"
)

func TestSelectTracing(t *testing.T) {
	f := newFixture(t)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	l := f.lookup(WithTracer(ring))
	if res := l.Select(f.ref("Vec<i32>: Foo"), 0); res.Kind() != ResultOk {
		t.Fatalf("Select = %s", res)
	}

	var selectEnd *trace.Event
	candidates := 0
	events := ring.Snapshot()
	for i := range events {
		ev := &events[i]
		switch {
		case ev.Kind == trace.KindSpanEnd && ev.Name == "select":
			selectEnd = ev
		case ev.Kind == trace.KindPoint && ev.Name == "candidate":
			candidates++
		}
	}
	if selectEnd == nil {
		t.Fatalf("no select span in %v", events)
	}
	if selectEnd.Detail != "ok" || selectEnd.Extra["ref"] != "<Vec<i32> as Foo>" {
		t.Fatalf("select end = %+v", selectEnd)
	}
	if candidates != 1 {
		t.Fatalf("got %d candidate points, want 1", candidates)
	}
}
