package resolve

import (
	"iter"

	"traitres/internal/infer"
	"traitres/internal/types"
)

// CoercionSequence lazily yields base, then each successive deref target:
// references and pointers are followed directly, arrays become slices and
// other types go through the Deref trait. It stops at the first repeated
// type, when nothing more can be dereferenced, or after RecursionLimit
// steps. Each type is shallow-resolved before it is yielded.
func (l *ImplLookup) CoercionSequence(base types.Ty) iter.Seq[types.Ty] {
	return func(yield func(types.Ty) bool) {
		ctx := l.Context()
		seen := make(map[string]struct{})
		cur := base
		for range RecursionLimit {
			if cur == nil {
				return
			}
			cur = ctx.ShallowResolve(cur)
			key := types.Key(cur)
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
			if !yield(cur) {
				return
			}
			next := l.Deref(cur)
			if next == nil {
				if arr, ok := cur.(types.Array); ok {
					next = types.Slice{Elem: arr.Base}
				}
			}
			cur = next
		}
	}
}

// Deref returns the type *ty evaluates to, or nil. Obligations of a Deref
// impl are not checked.
func (l *ImplLookup) Deref(ty types.Ty) types.Ty {
	ty = l.Context().ShallowResolve(ty)
	switch tt := ty.(type) {
	case types.Reference:
		return tt.Referenced
	case types.Pointer:
		return tt.Referenced
	}
	to := l.derefTraitAndTarget()
	if to == nil {
		return nil
	}
	if p, ok := l.SelectProjectionFor(*to, ty).Ok(); ok && p != nil {
		return p.Value
	}
	return nil
}

// FindIteratorItemType resolves the item type of iterating over ty: first
// as an Iterator, then as an IntoIterator.
func (l *ImplLookup) FindIteratorItemType(ty types.Ty) *Projection {
	if it := l.iteratorTraitAndItem(); it != nil {
		if p, ok := l.SelectProjectionFor(*it, ty).Ok(); ok && p != nil {
			return p
		}
	} else if l.legacyIter {
		return l.legacyFindIteratorItemType(ty)
	}
	into := l.intoIteratorTraitAndItem()
	if into == nil {
		return nil
	}
	if p, ok := l.SelectProjectionFor(*into, ty).Ok(); ok {
		return p
	}
	return nil
}

// legacyFindIteratorItemType matches traits by the names Iterator and
// IntoIterator. It only runs when the project declares no iterator trait.
func (l *ImplLookup) legacyFindIteratorItemType(ty types.Ty) *Projection {
	for _, it := range l.FindImplsAndTraits(ty) {
		if it.Trait == nil {
			continue
		}
		if name := it.Trait.Trait.Name; name != "Iterator" && name != "IntoIterator" {
			continue
		}
		var item types.Ty = types.Unknown{}
		for _, a := range it.Item.AssociatedTypesTransitively() {
			if a.Name != "Item" {
				continue
			}
			if a.Type != nil {
				item = types.Substitute(a.Type, it.Subst)
			} else if bound, ok := it.Trait.AssocBinding(a); ok {
				item = bound
			} else {
				item = types.AssociatedParam(a)
			}
			break
		}
		return &Projection{Value: item}
	}
	return nil
}

// FindIndexOutputType resolves the type of container[index].
func (l *ImplLookup) FindIndexOutputType(container, index types.Ty) *Projection {
	to := l.indexTraitAndOutput()
	if to == nil {
		return nil
	}
	p, _ := l.SelectProjectionFor(*to, container, index).Ok()
	return p
}

// FindArithmeticBinaryExprOutputType resolves the type of `lhs op rhs`.
func (l *ImplLookup) FindArithmeticBinaryExprOutputType(lhs, rhs types.Ty, op ArithmeticOp) *Projection {
	to, ok := l.binOps[op]
	if !ok {
		if found, ok := findTraitAndOutput(l.project.FindLangItem(op.ItemName(), op.ModName()), "Output"); ok {
			to = &found
		}
		l.binOps[op] = to
	}
	if to == nil {
		return nil
	}
	p, _ := l.SelectProjectionFor(*to, lhs, rhs).Ok()
	return p
}

// FindOverloadedOpImpl returns the impl (or builtin trait) backing
// `lhs op rhs`, or nil.
func (l *ImplLookup) FindOverloadedOpImpl(lhs, rhs types.Ty, op OverloadableBinaryOperator) types.TraitOrImpl {
	trait := l.project.FindLangItem(op.ItemName(), op.ModName())
	if trait == nil {
		return nil
	}
	sel, ok := l.Select(types.TraitRef{SelfTy: lhs, Trait: trait.WithSubst(rhs)}, 0).Ok()
	if !ok {
		return nil
	}
	return sel.Impl
}

// IsCopy reports whether ty implements the Copy marker.
func (l *ImplLookup) IsCopy(ty types.Ty) bool {
	cp := l.copyTraitItem()
	if cp == nil {
		return false
	}
	for _, it := range l.FindImplsAndTraits(ty) {
		if it.Trait != nil && it.Trait.Trait == cp {
			return true
		}
	}
	return false
}

// AsTyFunction views ty as a function type. Function types are returned as
// is; other types are resolved through the fn trait family with a fresh
// variable for the argument tuple. It returns nil when ty is not callable.
func (l *ImplLookup) AsTyFunction(ty types.Ty) *infer.TyWithObligations[types.Function] {
	ctx := l.Context()
	ty = ctx.ShallowResolve(ty)
	if fn, ok := ty.(types.Function); ok {
		return &infer.TyWithObligations[types.Function]{Value: fn}
	}
	output := l.fnOnceOutputAlias()
	if output == nil {
		return nil
	}
	argVar := types.NewTyVar()
	for _, trait := range l.fnTraitItems() {
		p, ok := l.SelectProjectionFor(TraitAndOutput{Trait: trait, Output: output}, ty, argVar).Ok()
		if !ok || p == nil {
			continue
		}
		obligations := l.bindArgumentTuple(argVar, p.Obligations)
		var params []types.Ty
		if tuple, ok := ctx.ShallowResolve(argVar).(types.Tuple); ok {
			params = tuple.Types
		}
		return &infer.TyWithObligations[types.Function]{
			Value:       types.Function{Params: params, Ret: p.Value},
			Obligations: obligations,
		}
	}
	return nil
}

// bindArgumentTuple applies equate obligations that constrain argVar and
// returns the rest.
func (l *ImplLookup) bindArgumentTuple(argVar types.Infer, obligations []infer.Obligation) []infer.Obligation {
	ctx := l.Context()
	var rest []infer.Obligation
	for _, o := range obligations {
		eq, ok := o.Predicate.(infer.EquatePredicate)
		if ok && (types.Equal(eq.Ty1, argVar) || types.Equal(eq.Ty2, argVar)) && ctx.CombineTypes(eq.Ty1, eq.Ty2) {
			continue
		}
		rest = append(rest, o)
	}
	return rest
}

// AsTyFunctionBound reads an Fn-family bound such as Fn(A, B) -> R as a
// function type.
func (l *ImplLookup) AsTyFunctionBound(bound types.BoundElement) (types.Function, bool) {
	outputParam, ok := l.fnOutputParam()
	if !ok {
		return types.Function{}, false
	}
	param, ok := bound.Trait.TypeParamSingle()
	if !ok {
		return types.Function{}, false
	}
	var params []types.Ty
	if args, ok := bound.Subst.Get(param); ok {
		if tuple, ok := args.(types.Tuple); ok {
			params = tuple.Types
		}
	}
	var ret types.Ty = types.Unit
	if out, ok := bound.Subst.Get(outputParam); ok {
		ret = out
	}
	return types.Function{Params: params, Ret: ret}, true
}
