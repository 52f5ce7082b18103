package types

// SuperFold rebuilds t with fn applied to each direct child type. Leaves are
// returned unchanged.
func SuperFold(t Ty, fn func(Ty) Ty) Ty {
	switch tt := t.(type) {
	case Adt:
		if len(tt.Subst) == 0 {
			return tt
		}
		return Adt{Item: tt.Item, Subst: tt.Subst.MapValues(func(e SubstEntry) Ty { return fn(e.Ty) })}
	case Reference:
		return Reference{Referenced: fn(tt.Referenced), Mutable: tt.Mutable}
	case Pointer:
		return Pointer{Referenced: fn(tt.Referenced), Mutable: tt.Mutable}
	case Function:
		return Function{Params: foldList(tt.Params, fn), Ret: fn(tt.Ret)}
	case Tuple:
		return Tuple{Types: foldList(tt.Types, fn)}
	case Array:
		return Array{Base: fn(tt.Base), Size: tt.Size}
	case Slice:
		return Slice{Elem: fn(tt.Elem)}
	case TraitObject:
		return TraitObject{Trait: BoundElement{
			Trait: tt.Trait.Trait,
			Subst: tt.Trait.Subst.MapValues(func(e SubstEntry) Ty { return fn(e.Ty) }),
		}}
	case TypeParameter:
		if tt.Param == ParamAssociated && tt.Base != nil {
			out := tt
			out.Base = fn(tt.Base)
			return out
		}
		return tt
	default:
		return t
	}
}

func foldList(in []Ty, fn func(Ty) Ty) []Ty {
	if in == nil {
		return nil
	}
	out := make([]Ty, len(in))
	for i, t := range in {
		out[i] = fn(t)
	}
	return out
}

// FoldTy applies fn bottom-up to every type in t, including t itself.
func FoldTy(t Ty, fn func(Ty) Ty) Ty {
	var fold func(Ty) Ty
	fold = func(t Ty) Ty {
		if t == nil {
			return nil
		}
		return fn(SuperFold(t, fold))
	}
	return fold(t)
}

// Substitute replaces type parameters bound in s. Replacement values are not
// substituted again.
func Substitute(t Ty, s Substitution) Ty {
	if t == nil || len(s) == 0 {
		return t
	}
	var fold func(Ty) Ty
	fold = func(t Ty) Ty {
		if p, ok := t.(TypeParameter); ok {
			if ty, ok := s.Get(p); ok {
				return ty
			}
		}
		return SuperFold(t, fold)
	}
	return fold(t)
}

// FoldInfer replaces every inference variable in t with fn's result.
func FoldInfer(t Ty, fn func(Infer) Ty) Ty {
	var fold func(Ty) Ty
	fold = func(t Ty) Ty {
		if v, ok := t.(Infer); ok {
			return fn(v)
		}
		return SuperFold(t, fold)
	}
	return fold(t)
}

// Visit calls fn for t and every nested type, pre-order, stopping early when
// fn returns true. It reports whether it stopped early.
func Visit(t Ty, fn func(Ty) bool) bool {
	if t == nil {
		return false
	}
	if fn(t) {
		return true
	}
	stop := false
	SuperFold(t, func(child Ty) Ty {
		if !stop && Visit(child, fn) {
			stop = true
		}
		return child
	})
	return stop
}

// HasInfer reports whether t mentions an inference variable.
func HasInfer(t Ty) bool {
	return Visit(t, func(t Ty) bool {
		_, ok := t.(Infer)
		return ok
	})
}

// HasTypeParameter reports whether t mentions a type parameter.
func HasTypeParameter(t Ty) bool {
	return Visit(t, func(t Ty) bool {
		_, ok := t.(TypeParameter)
		return ok
	})
}
