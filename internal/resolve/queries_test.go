package resolve

import (
	"testing"

	"traitres/internal/types"
	"traitres/internal/world"
)

func TestCoercionSequence(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		ty   string
		want []string
	}{
		{"i32", []string{"i32"}},
		{"&Vec<i32>", []string{"&Vec<i32>", "Vec<i32>", "[i32]"}},
		{"&&str", []string{"&&str", "&str", "str"}},
		{"*const u8", []string{"*const u8", "u8"}},
		{"String", []string{"String", "str"}},
		{"Box<Box<i32>>", []string{"Box<Box<i32>>", "Box<i32>", "i32"}},
		{"[u8; 4]", []string{"[u8; 4]", "[u8]"}},
		{"&[u8; 4]", []string{"&[u8; 4]", "[u8; 4]", "[u8]"}},
	}
	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			var got []string
			for ty := range f.lookup().CoercionSequence(f.ty(tt.ty)) {
				got = append(got, ty.String())
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("step %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCoercionSequenceIsLazy(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	for ty := range l.CoercionSequence(f.ty("Box<Box<String>>")) {
		if ty.String() != "Box<Box<String>>" {
			t.Fatalf("first element = %s", ty)
		}
		break
	}
	if stats := f.caches.SelectionStats(); stats.Hits+stats.Misses != 0 {
		t.Fatalf("stopping after the first element still selected: %+v", stats)
	}

	var n int
	for range l.CoercionSequence(f.ty("Box<Box<String>>")) {
		n++
		if n == 2 {
			break
		}
	}
	if stats := f.caches.SelectionStats(); stats.Hits+stats.Misses != 1 {
		t.Fatalf("two elements took %d selections, want 1", stats.Hits+stats.Misses)
	}
}

func TestDeref(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	tests := []struct {
		ty   string
		want string
	}{
		{"&mut u8", "u8"},
		{"String", "str"},
		{"Vec<bool>", "[bool]"},
		{"i32", ""},
		{"Opaque", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			got := l.Deref(f.ty(tt.ty))
			switch {
			case got == nil && tt.want != "":
				t.Fatalf("Deref(%s) = nil, want %s", tt.ty, tt.want)
			case got != nil && got.String() != tt.want:
				t.Fatalf("Deref(%s) = %s, want %q", tt.ty, got, tt.want)
			}
		})
	}
}

func TestFindIteratorItemType(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		ty   string
		want string
	}{
		{"Vec<i32>", "i32"},
		{"&Vec<i32>", "&i32"},
		{"IntoIter<String>", "String"},
		{"Iter<u8>", "&u8"},
		{"IterMut<u8>", "&mut u8"},
	}
	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			p := f.lookup().FindIteratorItemType(f.ty(tt.ty))
			if p == nil {
				t.Fatalf("FindIteratorItemType(%s) = nil", tt.ty)
			}
			if p.Value.String() != tt.want {
				t.Fatalf("FindIteratorItemType(%s) = %s, want %s", tt.ty, p.Value, tt.want)
			}
			if len(p.Obligations) != 0 {
				t.Fatalf("got %d obligations, want 0", len(p.Obligations))
			}
		})
	}
	if p := f.lookup().FindIteratorItemType(types.I32); p != nil {
		t.Fatalf("i32 is not iterable, got %s", p.Value)
	}
}

func TestFindIteratorItemTypeThroughBound(t *testing.T) {
	f := newFixture(t)
	q := f.query("I: Iterator<Item = char>", "K")
	l := f.lookup()
	i, err := q.Type("I")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if p := l.FindIteratorItemType(i); p == nil || p.Value.String() != "char" {
		t.Fatalf("I: got %v, want char", p)
	}
	k, err := q.Type("K")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	if p := l.FindIteratorItemType(k); p != nil {
		t.Fatalf("unbounded K: got %s", p.Value)
	}
}

func TestLegacyIteratorLookup(t *testing.T) {
	const src = `
[[trait]]
name = "Iterator"
assoc = ["Item"]

[[struct]]
name = "Counter"

[[impl]]
trait = "Iterator"
for = "Counter"
assoc = { Item = "u32" }
`
	p, err := world.Parse("legacy", src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	counter, err := world.ParseType(p, "Counter")
	if err != nil {
		t.Fatalf("ParseType: %v", err)
	}

	got := New(p, nil).FindIteratorItemType(counter)
	if got == nil || got.Value.String() != "u32" {
		t.Fatalf("legacy lookup = %v, want u32", got)
	}
	if got := New(p, nil, WithLegacyIteratorLookup(false)).FindIteratorItemType(counter); got != nil {
		t.Fatalf("disabled legacy lookup = %s, want nil", got.Value)
	}
}

func TestFindArithmeticBinaryExprOutputType(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		lhs, rhs string
		op       ArithmeticOp
		want     string
	}{
		{"i32", "i32", OpAdd, "i32"},
		{"f64", "f64", OpMul, "f64"},
		{"u8", "u8", OpShl, "u8"},
		{"bool", "bool", OpAdd, ""},
		{"String", "String", OpSub, ""},
	}
	for _, tt := range tests {
		t.Run(tt.lhs+tt.op.Sign()+tt.rhs, func(t *testing.T) {
			p := f.lookup().FindArithmeticBinaryExprOutputType(f.ty(tt.lhs), f.ty(tt.rhs), tt.op)
			switch {
			case p == nil && tt.want != "":
				t.Fatalf("got nil, want %s", tt.want)
			case p != nil && p.Value.String() != tt.want:
				t.Fatalf("got %s, want %q", p.Value, tt.want)
			}
		})
	}
}

func TestFindOverloadedOpImpl(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	if got := l.FindOverloadedOpImpl(types.I32, types.I32, OpAdd); got == nil || got.String() != "Add" {
		t.Fatalf("i32 + i32 = %v", got)
	}
	if got := l.FindOverloadedOpImpl(f.ty("Meters"), types.I32, OpEq); got == nil || got.String() != "impl PartialEq<i32> for Meters" {
		t.Fatalf("Meters == i32 = %v", got)
	}
	if got := l.FindOverloadedOpImpl(types.Unit, types.Unit, OpLt); got != nil {
		t.Fatalf("() < () = %v", got)
	}
	if got := l.FindOverloadedOpImpl(types.I64, types.I64, ArithmeticAssignmentOp{Op: OpAdd}); got != nil {
		t.Fatalf("i64 += i64 = %v, want nil without an impl", got)
	}
}

func TestFindIndexOutputType(t *testing.T) {
	f := newFixture(t)
	p := f.lookup().FindIndexOutputType(f.ty("Vec<u16>"), types.Usize)
	if p == nil || p.Value.String() != "u16" {
		t.Fatalf("Vec<u16>[usize] = %v", p)
	}
	if p := f.lookup().FindIndexOutputType(f.ty("Vec<u16>"), types.Bool); p != nil {
		t.Fatalf("Vec<u16>[bool] = %s", p.Value)
	}
}

func TestIsCopy(t *testing.T) {
	f := newFixture(t)
	q := f.query("T: Copy", "U: Clone")
	tests := []struct {
		ty   string
		want bool
	}{
		{"i32", true},
		{"bool", true},
		{"()", true},
		{"str", false},
		{"Point", false},
		{"Pixel", true},
		{"String", false},
		{"T", true},
		{"U", false},
	}
	l := f.lookup()
	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			ty, err := q.Type(tt.ty)
			if err != nil {
				t.Fatalf("Type: %v", err)
			}
			if got := l.IsCopy(ty); got != tt.want {
				t.Fatalf("IsCopy(%s) = %v, want %v", tt.ty, got, tt.want)
			}
		})
	}
}

func TestAsTyFunction(t *testing.T) {
	f := newFixture(t)
	q := f.query("F: Fn(i32, bool) -> String", "G: FnMut()", "H: Clone")
	tests := []struct {
		ty   string
		want string
	}{
		{"fn(u8) -> u8", "fn(u8) -> u8"},
		{"F", "fn(i32, bool) -> String"},
		{"G", "fn()"},
		{"H", ""},
		{"i32", ""},
	}
	for _, tt := range tests {
		t.Run(tt.ty, func(t *testing.T) {
			ty, err := q.Type(tt.ty)
			if err != nil {
				t.Fatalf("Type: %v", err)
			}
			l := f.lookup()
			got := l.AsTyFunction(ty)
			switch {
			case got == nil && tt.want != "":
				t.Fatalf("AsTyFunction(%s) = nil, want %s", tt.ty, tt.want)
			case got != nil && tt.want == "":
				t.Fatalf("AsTyFunction(%s) = %s, want nil", tt.ty, got.Value)
			case got != nil:
				fn := l.Context().ResolveTypeVarsIfPossible(got.Value)
				if fn.String() != tt.want {
					t.Fatalf("AsTyFunction(%s) = %s, want %s", tt.ty, fn, tt.want)
				}
			}
		})
	}
}

func TestFindImplsAndTraits(t *testing.T) {
	f := newFixture(t)
	l := f.lookup()
	vec := f.ty("Vec<String>")
	got := l.FindImplsAndTraits(vec)
	want := map[string]bool{"Deref": false, "Clone": false, "Foo": false, "Index": false, "IntoIterator": false}
	for _, it := range got {
		if it.Trait == nil {
			continue
		}
		if _, ok := want[it.Trait.Trait.Name]; ok {
			want[it.Trait.Trait.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("missing %s in %v", name, got)
		}
	}
	l.FindImplsAndTraits(vec)
	if stats := f.caches.ImplsAndTraitsStats(); stats.Hits != 1 {
		t.Fatalf("stats = %+v, want one hit", stats)
	}

	point := l.FindImplsAndTraits(f.ty("Point"))
	if len(point) < 2 || point[0].String() != "Clone" || point[1].String() != "PartialEq" {
		t.Fatalf("Point derives first, got %v", point)
	}
	if got := l.FindImplsAndTraits(types.Unknown{}); len(got) != 0 {
		t.Fatalf("Unknown: got %v", got)
	}
}

func TestSelectProjectionFromBlanketImpl(t *testing.T) {
	f := newFixture(t, `
[[trait]]
name = "Wrap"
assoc = ["Out"]

[[impl]]
params = ["T"]
trait = "Wrap"
for = "T"
assoc = { Out = "Vec<T>" }
`)
	q := f.query("U")
	u, err := q.Type("U")
	if err != nil {
		t.Fatalf("Type: %v", err)
	}
	wrap := f.trait("Wrap")
	to := TraitAndOutput{Trait: wrap, Output: wrap.FindAssociatedType("Out")}
	for _, ty := range []types.Ty{u, types.I32} {
		t.Run(ty.String(), func(t *testing.T) {
			res := f.lookup().SelectProjectionFor(to, ty)
			p, ok := res.Ok()
			if !ok {
				t.Fatalf("SelectProjectionFor = %s", res)
			}
			want := "Vec<" + ty.String() + ">"
			if p == nil || p.Value.String() != want {
				t.Fatalf("projection = %v, want %s", p, want)
			}
		})
	}
}
