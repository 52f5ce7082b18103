package types

import "testing"

func newVec() (*AdtItem, TypeParameter) {
	decl := NewTypeParamDecl(2, "T", nil)
	return &AdtItem{ID: 1, Name: "Vec", Path: "alloc::vec::Vec", TypeParams: []*TypeParamDecl{decl}}, NamedParam(decl)
}

func TestTyString(t *testing.T) {
	vec, _ := newVec()
	tests := []struct {
		ty   Ty
		want string
	}{
		{I32, "i32"},
		{Unit, "()"},
		{Reference{Referenced: Str}, "&str"},
		{Reference{Referenced: U8, Mutable: true}, "&mut u8"},
		{Pointer{Referenced: U8}, "*const u8"},
		{Pointer{Referenced: U8, Mutable: true}, "*mut u8"},
		{Function{Params: []Ty{I32, Bool}, Ret: Unit}, "fn(i32, bool)"},
		{Function{Params: []Ty{I32}, Ret: Bool}, "fn(i32) -> bool"},
		{Tuple{Types: []Ty{I32}}, "(i32,)"},
		{Tuple{Types: []Ty{I32, Char}}, "(i32, char)"},
		{Array{Base: U8, Size: 4}, "[u8; 4]"},
		{Array{Base: U8, Size: UnknownArraySize}, "[u8; <unknown>]"},
		{Slice{Elem: Bool}, "[bool]"},
		{NewAdt(vec, I64), "Vec<i64>"},
		{NewAdt(vec), "Vec<T>"},
		{Unknown{}, "{unknown}"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.ty.String(); got != tt.want {
				t.Fatalf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrimitiveByName(t *testing.T) {
	for _, name := range []string{"bool", "()", "!", "u128", "f32", "usize"} {
		p, ok := PrimitiveByName(name)
		if !ok || p.String() != name {
			t.Fatalf("PrimitiveByName(%q) = %v, %v", name, p, ok)
		}
	}
	if _, ok := PrimitiveByName("<invalid>"); ok {
		t.Fatalf("the invalid primitive resolved by name")
	}
	if _, ok := PrimitiveByName("int"); ok {
		t.Fatalf("int resolved")
	}
	if !I8.IsInteger() || I8.IsFloat() || !F64.IsNumeric() || Bool.IsNumeric() {
		t.Fatalf("numeric classification is wrong")
	}
}

func TestEqualAndKey(t *testing.T) {
	vec, _ := newVec()
	v := NewTyVar()
	tests := []struct {
		name string
		a, b Ty
		want bool
	}{
		{"same adt", NewAdt(vec, I32), NewAdt(vec, I32), true},
		{"adt args", NewAdt(vec, I32), NewAdt(vec, U32), false},
		{"mutability", Reference{Referenced: I32}, Reference{Referenced: I32, Mutable: true}, false},
		{"array size", Array{Base: U8, Size: 3}, Array{Base: U8, Size: 4}, false},
		{"same var", Reference{Referenced: v}, Reference{Referenced: v}, true},
		{"distinct vars", v, NewTyVar(), false},
		{"ref vs pointer", Reference{Referenced: U8}, Pointer{Referenced: U8}, false},
		{"functions", Function{Params: []Ty{I32}, Ret: Bool}, Function{Params: []Ty{I32}, Ret: Bool}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal(%s, %s) = %v", tt.a, tt.b, got)
			}
			if got := Key(tt.a) == Key(tt.b); got != tt.want {
				t.Fatalf("Key equality for %s and %s = %v", tt.a, tt.b, got)
			}
		})
	}
}

func TestSubstitute(t *testing.T) {
	vec, param := newVec()
	generic := Reference{Referenced: NewAdt(vec)}
	got := Substitute(generic, SubstOf(SubstEntry{Param: param, Ty: stringTy()}))
	if got.String() != "&Vec<String>" {
		t.Fatalf("Substitute = %s", got)
	}
	if generic.String() != "&Vec<T>" {
		t.Fatalf("Substitute mutated its input: %s", generic)
	}
	if !HasTypeParameter(generic) || HasTypeParameter(got) {
		t.Fatalf("HasTypeParameter is wrong")
	}
}

// stringTy is a stand-in ADT for substitution tests.
func stringTy() Ty {
	return NewAdt(&AdtItem{ID: 9, Name: "String", Path: "alloc::string::String"})
}

func TestFreshenIsCanonical(t *testing.T) {
	a, b := NewTyVar(), NewTyVar()
	c, d := NewTyVar(), NewTyVar()
	left := Tuple{Types: []Ty{a, b, a}}
	right := Tuple{Types: []Ty{d, c, d}}
	if Key(Freshen(left)) != Key(Freshen(right)) {
		t.Fatalf("same shape freshened differently: %s vs %s", Freshen(left), Freshen(right))
	}
	other := Tuple{Types: []Ty{c, c, d}}
	if Key(Freshen(left)) == Key(Freshen(other)) {
		t.Fatalf("different shapes share a key: %s", Freshen(other))
	}
	if HasInfer(Freshen(left)) {
		t.Fatalf("freshened type still holds inference variables")
	}
}

func TestLazyBoundsComputedOnce(t *testing.T) {
	var calls int
	decl := NewTypeParamDecl(3, "U", func() []BoundElement {
		calls++
		return []BoundElement{NewBound(&TraitItem{ID: 4, Name: "Clone"})}
	})
	for range 3 {
		if got := decl.Bounds(); len(got) != 1 || got[0].Trait.Name != "Clone" {
			t.Fatalf("Bounds() = %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("supplier ran %d times", calls)
	}
	decl.SetBoundsSupplier(func() []BoundElement { return nil })
	if len(decl.Bounds()) != 1 {
		t.Fatalf("late supplier replaced computed bounds")
	}
}

func TestSelfReferentialBounds(t *testing.T) {
	var decl *TypeParamDecl
	decl = NewTypeParamDecl(5, "T", func() []BoundElement {
		if inner := decl.Bounds(); inner != nil {
			t.Fatalf("re-entrant Bounds() = %v, want nil", inner)
		}
		return nil
	})
	if got := decl.Bounds(); got != nil {
		t.Fatalf("Bounds() = %v", got)
	}
}
