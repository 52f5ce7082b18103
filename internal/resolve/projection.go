package resolve

import (
	"traitres/internal/infer"
	"traitres/internal/trace"
	"traitres/internal/types"
)

// Projection is a resolved associated type and the obligations it relies on.
type Projection = infer.TyWithObligations[types.Ty]

// SelectProjection resolves <ref.SelfTy as ref.Trait>::assoc. Err and
// Ambiguous propagate from selection. Ok(nil) means the trait was selected
// but provides no such associated type.
func (l *ImplLookup) SelectProjection(ref types.TraitRef, assoc *types.TypeAlias, depth int) SelectionResult[*Projection] {
	ctx := l.Context()
	ref = ref.FoldWith(ctx.ResolveTypeVarsIfPossible)

	var ts tracedSpan
	if l.tracing(trace.ScopeSelect) {
		ts = l.begin(trace.ScopeSelect, "project")
		ts.span.WithExtra("ref", ref.String()).WithExtra("assoc", assoc.Name)
	}

	res := MapResult(l.Select(ref, depth), func(sel Selection) *Projection {
		ty, ok := l.lookupAssociatedType(ref.SelfTy, sel, assoc)
		if !ok {
			if l.tracing(trace.ScopeSelect) {
				l.point(trace.ScopeSelect, "missing-assoc", sel.Impl.String()+"::"+assoc.Name)
			}
			return nil
		}
		normalized := ctx.NormalizeAssociatedTypesIn(ty, depth)
		return &Projection{
			Value:       ctx.ResolveTypeVarsIfPossible(normalized.Value),
			Obligations: append(normalized.Obligations, sel.Obligations...),
		}
	})

	if ts.span != nil {
		detail := res.Kind().String()
		if p, ok := res.Ok(); ok && p != nil {
			detail = p.Value.String()
		}
		l.end(ts, detail)
	}
	return res
}

// SelectProjectionFor resolves <selfTy as to.Trait<args...>>::to.Output.
// Missing trailing arguments take their declared defaults.
func (l *ImplLookup) SelectProjectionFor(to TraitAndOutput, selfTy types.Ty, args ...types.Ty) SelectionResult[*Projection] {
	ref := types.TraitRef{SelfTy: selfTy, Trait: to.Trait.WithSubst(args...).WithDefaults(selfTy)}
	return l.SelectProjection(ref, to.Output, 0)
}

// NormalizeProjection lets the inference context resolve projections found
// while normalizing.
func (l *ImplLookup) NormalizeProjection(ref types.TraitRef, target *types.TypeAlias, depth int) (infer.TyWithObligations[types.Ty], bool) {
	p, ok := l.SelectProjection(ref, target, depth).Ok()
	if !ok || p == nil {
		return infer.TyWithObligations[types.Ty]{}, false
	}
	return *p, true
}

// lookupAssociatedType searches the selected impl's own declarations first.
// Bound lists only answer when a bound or builtin was selected.
func (l *ImplLookup) lookupAssociatedType(selfTy types.Ty, sel Selection, assoc *types.TypeAlias) (types.Ty, bool) {
	if _, isImpl := sel.Impl.(*types.ImplItem); !isImpl {
		switch selfTy.(type) {
		case types.TypeParameter, types.TraitObject:
			return lookupAssocTypeInBounds(boundsOf(selfTy), sel.Impl, assoc)
		}
	}
	if fn, ok := selfTy.(types.Function); ok && assoc == l.fnOnceOutputAlias() {
		if fn.Ret == nil {
			return types.Unit, true
		}
		return fn.Ret, true
	}
	ty, ok := lookupAssocTypeInSelection(sel, assoc)
	if !ok {
		ty, ok = lookupAssocTypeInBounds(l.hardcodedImpls(selfTy), sel.Impl, assoc)
	}
	if !ok {
		return nil, false
	}
	return types.Substitute(ty, types.SubstOf(types.SubstEntry{Param: types.SelfParam(), Ty: selfTy})), true
}

func lookupAssocTypeInSelection(sel Selection, assoc *types.TypeAlias) (types.Ty, bool) {
	for _, a := range sel.Impl.AssociatedTypesTransitively() {
		if a.Name == assoc.Name && a.Type != nil {
			return types.Substitute(a.Type, sel.Subst), true
		}
	}
	return nil, false
}

func lookupAssocTypeInBounds(bounds []types.BoundElement, item types.TraitOrImpl, assoc *types.TypeAlias) (types.Ty, bool) {
	trait, ok := item.(*types.TraitItem)
	if !ok {
		return nil, false
	}
	bound, ok := findBound(bounds, trait)
	if !ok {
		return nil, false
	}
	return bound.AssocBinding(assoc)
}
