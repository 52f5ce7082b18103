package resolve

import (
	"traitres/internal/types"
)

// ImplementedTrait is one entry of FindImplsAndTraits.
type ImplementedTrait struct {
	// Item is the impl block, or the trait for derives, bounds and builtins.
	Item types.TraitOrImpl
	// Trait is the implemented trait instantiated for the queried type; nil
	// for inherent impls.
	Trait *types.BoundElement
	// Subst binds the impl's generics for the queried type. Generics the
	// type does not determine stay as parameters.
	Subst types.Substitution
}

func (it ImplementedTrait) String() string {
	if it.Trait == nil {
		return it.Item.String()
	}
	return it.Trait.String()
}

// FindImplsAndTraits lists every impl and trait that applies to ty: bounds
// for type parameters, the hierarchy for trait objects, and derives,
// builtins and matching impls for everything else.
func (l *ImplLookup) FindImplsAndTraits(ty types.Ty) []ImplementedTrait {
	ty = l.Context().ResolveTypeVarsIfPossible(ty)
	if types.HasInfer(ty) || mentionsSelf(ty) {
		return l.rawFindImplsAndTraits(ty)
	}
	return l.caches.implsAndTraits.GetOrPut(l.project.ID(), types.Key(ty), func() []ImplementedTrait {
		return l.rawFindImplsAndTraits(ty)
	})
}

func (l *ImplLookup) rawFindImplsAndTraits(ty types.Ty) []ImplementedTrait {
	switch tt := ty.(type) {
	case types.TypeParameter:
		return boundsAsImplemented(tt.TraitBoundsTransitively())
	case types.TraitObject:
		return boundsAsImplemented(tt.Trait.FlattenHierarchy())
	case types.Function:
		out := l.findSimpleImpls(ty)
		for _, trait := range l.fnTraitItems() {
			out = append(out, traitAsImplemented(types.NewBound(trait)))
		}
		return out
	case types.Unknown:
		return nil
	}
	var out []ImplementedTrait
	for _, trait := range l.findDerivedTraits(ty) {
		out = append(out, traitAsImplemented(types.NewBound(trait)))
	}
	out = append(out, boundsAsImplemented(l.hardcodedImpls(ty))...)
	return append(out, l.findSimpleImpls(ty)...)
}

func traitAsImplemented(b types.BoundElement) ImplementedTrait {
	return ImplementedTrait{Item: b.Trait, Trait: &b, Subst: types.EmptySubst}
}

func boundsAsImplemented(bounds []types.BoundElement) []ImplementedTrait {
	out := make([]ImplementedTrait, len(bounds))
	for i, b := range bounds {
		out[i] = traitAsImplemented(b)
	}
	return out
}

func (l *ImplLookup) findDerivedTraits(ty types.Ty) []*types.TraitItem {
	adt, ok := ty.(types.Adt)
	if !ok || adt.Item == nil {
		return nil
	}
	var out []*types.TraitItem
	for _, trait := range adt.Item.Derives {
		// Only std traits: their derive output is known without expansion.
		if IsStdDerivable(trait) {
			out = append(out, trait)
		}
	}
	return out
}

// findSimpleImpls returns the impls whose self type unifies with ty,
// instantiated for it. Unification happens inside a probe.
func (l *ImplLookup) findSimpleImpls(ty types.Ty) []ImplementedTrait {
	ctx := l.Context()
	var out []ImplementedTrait
	for _, impl := range l.project.FindPotentialImpls(ty) {
		generics := impl.Generics()
		entries := make([]types.SubstEntry, len(generics))
		back := make(map[types.Infer]types.Ty, len(generics))
		for i, g := range generics {
			v := types.NewTyVar()
			entries[i] = types.SubstEntry{Param: g, Ty: v}
			back[v] = g
		}
		subst := types.SubstOf(entries...)
		formalSelf := types.Substitute(impl.SelfTy, subst)

		var resolved types.Substitution
		ok := ctx.Probe(func() bool {
			if !ctx.CombineTypes(formalSelf, ty) {
				return false
			}
			resolved = subst.MapValues(func(e types.SubstEntry) types.Ty {
				return types.FoldInfer(ctx.ResolveTypeVarsIfPossible(e.Ty), func(v types.Infer) types.Ty {
					if p, ok := back[v]; ok {
						return p
					}
					return v
				})
			})
			return true
		})
		if !ok {
			continue
		}
		entry := ImplementedTrait{Item: impl, Subst: resolved}
		if impl.Trait != nil {
			bound := impl.Trait.Substitute(resolved)
			entry.Trait = &bound
		}
		out = append(out, entry)
	}
	return out
}
