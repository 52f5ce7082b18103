package infer

import "traitres/internal/types"

// CombineTypes unifies a and b, keeping the bindings on success. On failure
// the context is left unchanged.
func (c *Context) CombineTypes(a, b types.Ty) bool {
	return c.Transaction(func() bool { return c.combine(a, b) })
}

// CanCombineTypes reports whether a and b unify without keeping any binding.
func (c *Context) CanCombineTypes(a, b types.Ty) bool {
	return c.Probe(func() bool { return c.combine(a, b) })
}

// CombineTraitRefs unifies self types and every parameter both refs bind.
func (c *Context) CombineTraitRefs(a, b types.TraitRef) bool {
	return c.Transaction(func() bool {
		if a.Trait.Trait != b.Trait.Trait {
			return false
		}
		return c.combine(a.SelfTy, b.SelfTy) && c.combineSubst(a.Trait.Subst, b.Trait.Subst)
	})
}

// CanCombineTraitRefs is the non-committing form of CombineTraitRefs.
func (c *Context) CanCombineTraitRefs(a, b types.TraitRef) bool {
	return c.Probe(func() bool { return c.CombineTraitRefs(a, b) })
}

func (c *Context) combineSubst(a, b types.Substitution) bool {
	for _, ea := range a.Entries() {
		tb, ok := b.Get(ea.Param)
		if !ok {
			continue
		}
		if !c.combine(ea.Ty, tb) {
			return false
		}
	}
	return true
}

func (c *Context) combine(a, b types.Ty) bool {
	a = c.ShallowResolve(a)
	b = c.ShallowResolve(b)

	if va, ok := a.(types.Infer); ok {
		return c.combineVar(va, b)
	}
	if vb, ok := b.(types.Infer); ok {
		return c.combineVar(vb, a)
	}
	if _, ok := a.(types.Unknown); ok {
		return true
	}
	if _, ok := b.(types.Unknown); ok {
		return true
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch at := a.(type) {
	case types.Primitive:
		return at == b.(types.Primitive)
	case types.Adt:
		bt := b.(types.Adt)
		return at.Item == bt.Item && c.combineSubst(at.Subst, bt.Subst)
	case types.Reference:
		bt := b.(types.Reference)
		return at.Mutable == bt.Mutable && c.combine(at.Referenced, bt.Referenced)
	case types.Pointer:
		bt := b.(types.Pointer)
		return at.Mutable == bt.Mutable && c.combine(at.Referenced, bt.Referenced)
	case types.Function:
		bt := b.(types.Function)
		return c.combineList(at.Params, bt.Params) && c.combine(at.Ret, bt.Ret)
	case types.Tuple:
		return c.combineList(at.Types, b.(types.Tuple).Types)
	case types.Array:
		bt := b.(types.Array)
		if at.Size != bt.Size && at.Size != types.UnknownArraySize && bt.Size != types.UnknownArraySize {
			return false
		}
		return c.combine(at.Base, bt.Base)
	case types.Slice:
		return c.combine(at.Elem, b.(types.Slice).Elem)
	case types.TraitObject:
		bt := b.(types.TraitObject)
		return at.Trait.Trait == bt.Trait.Trait && c.combineSubst(at.Trait.Subst, bt.Trait.Subst)
	default:
		return types.Equal(a, b)
	}
}

func (c *Context) combineList(a, b []types.Ty) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !c.combine(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (c *Context) combineVar(v types.Infer, ty types.Ty) bool {
	if other, ok := ty.(types.Infer); ok {
		if other == v {
			return true
		}
		switch {
		case v.Var == types.InferTy:
			c.bind(v, other)
			return true
		case other.Var == types.InferTy:
			c.bind(other, v)
			return true
		case v.Var == other.Var:
			c.bind(v, other)
			return true
		default:
			return false
		}
	}
	if _, ok := ty.(types.Unknown); ok {
		return true
	}
	switch v.Var {
	case types.InferInt:
		p, ok := ty.(types.Primitive)
		if !ok || !p.IsInteger() {
			return false
		}
	case types.InferFloat:
		p, ok := ty.(types.Primitive)
		if !ok || !p.IsFloat() {
			return false
		}
	}
	if c.occurs(v, ty) {
		return false
	}
	c.bind(v, ty)
	return true
}

func (c *Context) occurs(v types.Infer, ty types.Ty) bool {
	return types.Visit(c.ResolveTypeVarsIfPossible(ty), func(t types.Ty) bool {
		other, ok := t.(types.Infer)
		return ok && other == v
	})
}
