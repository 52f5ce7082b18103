package resolve

import (
	"errors"
	"testing"
)

func TestSelectionResult(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name string
		res  SelectionResult[int]
		kind ResultKind
		err  error
		str  string
	}{
		{"Ok", OkResult(7), ResultOk, nil, "Ok(7)"},
		{"Ambiguous", AmbiguousResult[int](), ResultAmbiguous, ErrAmbiguous, "Ambiguous"},
		{"ErrNil", ErrResult[int](nil), ResultErr, ErrNoImplementation, "Err(no implementation)"},
		{"ErrCause", ErrResult[int](cause), ResultErr, cause, "Err(boom)"},
		{"Zero", SelectionResult[int]{}, ResultErr, ErrNoImplementation, "Err(no implementation)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.res.Kind() != tt.kind {
				t.Fatalf("Kind = %s, want %s", tt.res.Kind(), tt.kind)
			}
			if err := tt.res.Err(); !errors.Is(err, tt.err) || (tt.err == nil) != (err == nil) {
				t.Fatalf("Err = %v, want %v", err, tt.err)
			}
			if got := tt.res.String(); got != tt.str {
				t.Fatalf("String = %q, want %q", got, tt.str)
			}
			if _, ok := tt.res.Ok(); ok != (tt.kind == ResultOk) {
				t.Fatalf("Ok reported %v", ok)
			}
		})
	}
}

func TestMapResult(t *testing.T) {
	double := func(v int) int { return v * 2 }
	if v, ok := MapResult(OkResult(21), double).Ok(); !ok || v != 42 {
		t.Fatalf("MapResult(Ok) = %d, %v", v, ok)
	}
	if r := MapResult(AmbiguousResult[int](), double); !r.IsAmbiguous() {
		t.Fatalf("MapResult(Ambiguous) = %s", r)
	}
	called := false
	r := MapResult(ErrResult[int](ErrRecursionLimit), func(v int) int {
		called = true
		return v
	})
	if called {
		t.Fatalf("mapping ran on an Err result")
	}
	if !errors.Is(r.Err(), ErrRecursionLimit) || !errors.Is(r.Err(), ErrNoImplementation) {
		t.Fatalf("MapResult(Err) lost the cause: %v", r.Err())
	}
}
