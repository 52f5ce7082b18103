package resolve

import (
	"errors"
	"testing"

	"traitres/internal/infer"
	"traitres/internal/types"
)

func TestSelect(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		ref  string
		kind ResultKind
		impl string
	}{
		{"Vec<i32>: Foo", ResultOk, "impl<T> Foo for Vec<T>"},
		{"i32: Foo", ResultErr, ""},
		{"i32: Bar", ResultOk, "impl Bar for i32"},
		{"{integer}: Bar", ResultAmbiguous, ""},
		{"_: Bar", ResultAmbiguous, ""},
		{"bool: Bar", ResultErr, ""},
		{"Point: Clone", ResultOk, "Clone"},
		{"Point: Copy", ResultErr, ""},
		{"Meters: PartialEq", ResultOk, "impl PartialEq for Meters"},
		{"Meters: PartialEq<i32>", ResultOk, "impl PartialEq<i32> for Meters"},
		{"Meters: PartialEq<u8>", ResultErr, ""},
		{"i32: PartialEq", ResultOk, "PartialEq"},
		{"(): PartialEq", ResultErr, ""},
		{"(): Clone", ResultOk, "Clone"},
		{"f64: Eq", ResultErr, ""},
		{"str: Copy", ResultErr, ""},
		{"fn(i32) -> bool: Fn(i32) -> bool", ResultOk, "Fn"},
		{"Vec<String>: Clone", ResultOk, "impl<T> Clone for Vec<T>"},
		{"Opaque: Clone", ResultErr, ""},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			res := f.lookup().Select(f.ref(tt.ref), 0)
			if res.Kind() != tt.kind {
				t.Fatalf("Select(%s) = %s, want %s", tt.ref, res, tt.kind)
			}
			if tt.kind == ResultErr && !errors.Is(res.Err(), ErrNoImplementation) {
				t.Fatalf("Select(%s) error = %v", tt.ref, res.Err())
			}
			if tt.kind == ResultAmbiguous && !errors.Is(res.Err(), ErrAmbiguous) {
				t.Fatalf("Select(%s) error = %v", tt.ref, res.Err())
			}
			if sel, ok := res.Ok(); ok && sel.Impl.String() != tt.impl {
				t.Fatalf("Select(%s) impl = %s, want %s", tt.ref, sel.Impl, tt.impl)
			}
		})
	}
}

func TestSelectBindsImplGenerics(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	sel, ok := l.Select(f.ref("Vec<String>: Foo"), 0).Ok()
	if !ok {
		t.Fatalf("Select failed")
	}
	impl, ok := sel.Impl.(*types.ImplItem)
	if !ok {
		t.Fatalf("selected %T, want impl", sel.Impl)
	}
	got, ok := sel.Subst.Get(impl.Generics()[0])
	if !ok {
		t.Fatalf("T not in subst %v", sel.Subst)
	}
	if got := l.Context().ResolveTypeVarsIfPossible(got); got.String() != "String" {
		t.Fatalf("T = %s, want String", got)
	}
	if len(sel.Obligations) != 0 {
		t.Fatalf("got %d obligations, want 0", len(sel.Obligations))
	}
}

func TestSelectEmitsImplBounds(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	sel, ok := l.Select(f.ref("Vec<Opaque>: Clone"), 0).Ok()
	if !ok {
		t.Fatalf("Select failed")
	}
	if len(sel.Obligations) != 1 {
		t.Fatalf("got %d obligations, want 1", len(sel.Obligations))
	}
	o := sel.Obligations[0]
	if o.Depth != 1 {
		t.Fatalf("obligation depth = %d, want 1", o.Depth)
	}
	if _, err := l.EvaluateObligations(sel.Obligations); !errors.Is(err, ErrNoImplementation) {
		t.Fatalf("EvaluateObligations error = %v", err)
	}
}

func TestSelectIdempotent(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	ref := f.ref("Vec<String>: Clone")
	first := l.Select(ref, 0)
	second := l.Select(ref, 0)
	if first.Kind() != second.Kind() {
		t.Fatalf("kinds differ: %s vs %s", first, second)
	}
	a, _ := first.Ok()
	b, _ := second.Ok()
	if a.Impl != b.Impl || len(a.Obligations) != len(b.Obligations) {
		t.Fatalf("selections differ: %s vs %s", a, b)
	}
}

func TestSelectDeterministic(t *testing.T) {
	var impls []types.TraitOrImpl
	for range 3 {
		f := newFixture(t)
		sel, ok := f.lookup().Select(f.ref("Meters: PartialEq<i32>"), 0).Ok()
		if !ok {
			t.Fatalf("Select failed")
		}
		impls = append(impls, sel.Impl)
	}
	for _, impl := range impls[1:] {
		if impl.String() != impls[0].String() {
			t.Fatalf("selections differ: %s vs %s", impl, impls[0])
		}
	}
}

func TestSelectionCacheFreshening(t *testing.T) {
	f := newFixture(t)
	// Different variables, same shape: the second query hits the cache.
	f.lookup().Select(f.ref("Vec<_>: Clone"), 0)
	f.lookup().Select(f.ref("Vec<_>: Clone"), 0)
	stats := f.caches.SelectionStats()
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Fatalf("stats = %+v, want 1 miss and 1 hit", stats)
	}

	// A cached candidate is confirmed against the new variables.
	l := f.lookup()
	ref := f.ref("Vec<_>: Clone")
	sel, ok := l.Select(ref, 0).Ok()
	if !ok || len(sel.Obligations) != 1 {
		t.Fatalf("Select = %v", sel)
	}
	ctx := l.Context()
	elem := ctx.ResolveTypeVarsIfPossible(ref.SelfTy.(types.Adt).TypeArgs()[0])
	pred, ok := sel.Obligations[0].Predicate.(infer.TraitPredicate)
	if !ok {
		t.Fatalf("obligation %s is not a trait predicate", sel.Obligations[0])
	}
	if got := ctx.ResolveTypeVarsIfPossible(pred.Ref.SelfTy); !types.Equal(got, elem) {
		t.Fatalf("obligation self = %s, want %s", got, elem)
	}
}

func TestSelectRecursionLimit(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	err := l.Implements(types.I32, f.trait("Deep"))
	if !errors.Is(err, ErrRecursionLimit) {
		t.Fatalf("Implements error = %v, want recursion limit", err)
	}
	if !errors.Is(err, ErrNoImplementation) {
		t.Fatalf("recursion limit does not read as no implementation: %v", err)
	}
	res := l.Select(f.ref("i32: Deep"), RecursionLimit+1)
	if !errors.Is(res.Err(), ErrRecursionLimit) {
		t.Fatalf("Select past the limit = %s", res)
	}
}

func TestSelectTypeParameter(t *testing.T) {
	f := newFixture(t)
	q := f.query("T: Copy", "U")
	tests := []struct {
		ref  string
		kind ResultKind
	}{
		{"T: Copy", ResultOk},
		{"T: Clone", ResultOk},
		{"T: Debug", ResultErr},
		{"U: Clone", ResultErr},
		{"Vec<T>: Clone", ResultOk},
		{"dyn Copy: Clone", ResultOk},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ref, err := q.TraitRef(tt.ref)
			if err != nil {
				t.Fatalf("TraitRef: %v", err)
			}
			if res := f.lookup().Select(ref, 0); res.Kind() != tt.kind {
				t.Fatalf("Select(%s) = %s, want %s", tt.ref, res, tt.kind)
			}
		})
	}
}

func TestImplements(t *testing.T) {
	f := newFixture(t)
	clone := f.trait("Clone")
	tests := []struct {
		ty   string
		want error
	}{
		{"Vec<String>", nil},
		{"Vec<Vec<Point>>", nil},
		{"Vec<Opaque>", ErrNoImplementation},
		{"Option<Pixel>", nil},
		{"Vec<_>", ErrAmbiguous},
	}
	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			l := f.lookup()
			err := l.Implements(f.ty(tt.ty), clone)
			if tt.want == nil && err != nil {
				t.Fatalf("Implements(%s) = %v", tt.ty, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("Implements(%s) = %v, want %v", tt.ty, err, tt.want)
			}
			if n := l.Context().Bindings(); n != 0 {
				t.Fatalf("Implements left %d bindings", n)
			}
		})
	}
}

func TestEvaluateObligationsCommits(t *testing.T) {
	f := newFixture(t)
	q := f.query("F: Fn(i32) -> bool")
	ref, err := q.TraitRef("F: Fn(_) -> _")
	if err != nil {
		t.Fatalf("TraitRef: %v", err)
	}
	l := f.lookup()
	sel, ok := l.Select(ref, 0).Ok()
	if !ok {
		t.Fatalf("Select failed")
	}
	if len(sel.Obligations) != 2 {
		t.Fatalf("got %d obligations, want 2", len(sel.Obligations))
	}
	pending, err := l.EvaluateObligations(sel.Obligations)
	if err != nil || len(pending) != 0 {
		t.Fatalf("EvaluateObligations = %v, %v", pending, err)
	}
	fn, ok := l.AsTyFunctionBound(ref.Trait)
	if !ok {
		t.Fatalf("AsTyFunctionBound failed")
	}
	got := l.Context().ResolveTypeVarsIfPossible(types.Function{Params: fn.Params, Ret: fn.Ret})
	if got.String() != "fn(i32) -> bool" {
		t.Fatalf("resolved bound = %s, want fn(i32) -> bool", got)
	}
}
