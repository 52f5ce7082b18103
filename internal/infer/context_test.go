package infer

import (
	"testing"

	"traitres/internal/types"
)

func TestCombineTypes(t *testing.T) {
	tests := []struct {
		name    string
		pair    func() (types.Ty, types.Ty)
		ok      bool
		resolve string
	}{
		{"var binds", func() (types.Ty, types.Ty) {
			v := types.NewTyVar()
			return types.Reference{Referenced: v}, types.Reference{Referenced: types.I32}
		}, true, "&i32"},
		{"int var takes integer", func() (types.Ty, types.Ty) {
			return types.NewIntVar(), types.U8
		}, true, "u8"},
		{"int var rejects float", func() (types.Ty, types.Ty) {
			return types.NewIntVar(), types.F64
		}, false, ""},
		{"float var rejects integer", func() (types.Ty, types.Ty) {
			return types.NewFloatVar(), types.I32
		}, false, ""},
		{"mutability differs", func() (types.Ty, types.Ty) {
			return types.Reference{Referenced: types.I32}, types.Reference{Referenced: types.I32, Mutable: true}
		}, false, ""},
		{"unknown array size", func() (types.Ty, types.Ty) {
			return types.Array{Base: types.NewTyVar(), Size: types.UnknownArraySize}, types.Array{Base: types.Bool, Size: 3}
		}, true, "[bool; <unknown>]"},
		{"tuple both ways", func() (types.Ty, types.Ty) {
			return types.Tuple{Types: []types.Ty{types.I32, types.NewTyVar()}},
				types.Tuple{Types: []types.Ty{types.NewTyVar(), types.Bool}}
		}, true, "(i32, bool)"},
		{"occurs check", func() (types.Ty, types.Ty) {
			v := types.NewTyVar()
			return v, types.Reference{Referenced: v}
		}, false, ""},
		{"unknown unifies", func() (types.Ty, types.Ty) {
			return types.Unknown{}, types.Str
		}, true, "{unknown}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext()
			a, b := tt.pair()
			if got := ctx.CombineTypes(a, b); got != tt.ok {
				t.Fatalf("CombineTypes(%s, %s) = %v", a, b, got)
			}
			if !tt.ok {
				if n := ctx.Bindings(); n != 0 {
					t.Fatalf("failed combine left %d bindings", n)
				}
				return
			}
			if got := ctx.ResolveTypeVarsIfPossible(a).String(); got != tt.resolve {
				t.Fatalf("resolved %s, want %s", got, tt.resolve)
			}
		})
	}
}

func TestCombineRollsBackPartialBindings(t *testing.T) {
	ctx := NewContext()
	v := types.NewTyVar()
	a := types.Tuple{Types: []types.Ty{v, types.Bool}}
	b := types.Tuple{Types: []types.Ty{types.I32, types.I32}}
	if ctx.CombineTypes(a, b) {
		t.Fatalf("(?, bool) unified with (i32, i32)")
	}
	if got := ctx.ShallowResolve(v); !types.Equal(got, v) {
		t.Fatalf("variable stayed bound to %s", got)
	}
}

func TestProbeAndTransaction(t *testing.T) {
	ctx := NewContext()
	v := types.NewTyVar()

	if !ctx.CanCombineTypes(v, types.Char) {
		t.Fatalf("CanCombineTypes failed")
	}
	if ctx.Bindings() != 0 {
		t.Fatalf("probe kept a binding")
	}

	ctx.Transaction(func() bool {
		ctx.CombineTypes(v, types.Char)
		return false
	})
	if ctx.Bindings() != 0 {
		t.Fatalf("rejected transaction kept a binding")
	}

	ctx.Transaction(func() bool { return ctx.CombineTypes(v, types.Char) })
	if got := ctx.ShallowResolve(v); !types.Equal(got, types.Char) {
		t.Fatalf("committed transaction: %s", got)
	}

	// Bindings made through an already bound variable are undone too.
	w := types.NewTyVar()
	ctx.Probe(func() bool { return ctx.CombineTypes(w, v) })
	if got := ctx.ShallowResolve(w); !types.Equal(got, w) {
		t.Fatalf("probe leaked %s", got)
	}
}

func TestResolveThroughChains(t *testing.T) {
	ctx := NewContext()
	a, b := types.NewTyVar(), types.NewTyVar()
	ctx.CombineTypes(a, b)
	ctx.CombineTypes(b, types.U16)
	got := ctx.ResolveTypeVarsIfPossible(types.Slice{Elem: types.Reference{Referenced: a}})
	if got.String() != "[&u16]" {
		t.Fatalf("resolved %s", got)
	}
	if types.HasInfer(got) {
		t.Fatalf("resolved type still holds variables")
	}
}

func TestCombineVarKinds(t *testing.T) {
	ctx := NewContext()
	i, f := types.NewIntVar(), types.NewFloatVar()
	if ctx.CombineTypes(i, f) {
		t.Fatalf("int and float variables unified")
	}
	v := types.NewTyVar()
	if !ctx.CombineTypes(v, i) {
		t.Fatalf("type variable rejected an int variable")
	}
	if ctx.CombineTypes(v, types.Bool) {
		t.Fatalf("int-constrained variable took bool")
	}
	if !ctx.CombineTypes(v, types.I64) {
		t.Fatalf("int-constrained variable rejected i64")
	}
	if got := ctx.ResolveTypeVarsIfPossible(i); !types.Equal(got, types.I64) {
		t.Fatalf("int variable resolved to %s", got)
	}
}

func TestObligationString(t *testing.T) {
	o := Obligation{Depth: 2, Predicate: EquatePredicate{Ty1: types.I32, Ty2: types.U8}}
	if got := o.String(); got != "[2] i32 == u8" {
		t.Fatalf("String() = %q", got)
	}
	w := WithObligations(types.Ty(types.Bool), o, o)
	if len(w.Obligations) != 2 || !types.Equal(w.Value, types.Bool) {
		t.Fatalf("WithObligations = %+v", w)
	}
}
