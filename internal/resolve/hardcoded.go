package resolve

import "traitres/internal/types"

// hardcodedImpls returns builtin impls standing in for derive output and
// compiler intrinsics. Primitive tables are memoized per lookup.
func (l *ImplLookup) hardcodedImpls(ty types.Ty) []types.BoundElement {
	switch tt := ty.(type) {
	case types.Primitive:
		if impls, ok := l.primitiveImpls[tt.Prim]; ok {
			return impls
		}
		impls := l.primitiveHardcodedImpls(tt)
		l.primitiveImpls[tt.Prim] = impls
		return impls
	case types.Adt:
		if tt.Item == nil {
			return nil
		}
		var mutable bool
		switch tt.Item {
		case l.items.FindCoreAdt("slice::Iter"):
		case l.items.FindCoreAdt("slice::IterMut"):
			mutable = true
		default:
			return nil
		}
		iterator := l.items.FindIteratorTrait()
		if iterator == nil {
			return nil
		}
		item := types.Reference{Referenced: tt.ArgByName("T"), Mutable: mutable}
		return []types.BoundElement{iterator.SubstAssocType("Item", item)}
	}
	return nil
}

func (l *ImplLookup) primitiveHardcodedImpls(ty types.Primitive) []types.BoundElement {
	var impls []types.BoundElement
	if ty.IsNumeric() {
		// core::ops::arith and core::ops::bit
		for _, trait := range l.items.FindBinOpTraits() {
			impls = append(impls, trait.SubstAssocType("Output", ty))
		}
	}
	if ty != types.Str {
		// core::cmp
		if ty != types.Unit {
			if eq := l.project.FindLangItem("eq", ""); eq != nil {
				impls = append(impls, boundWithSingleParam(eq, ty))
			}
		}
		if ty != types.Unit && ty != types.Bool {
			if ord := l.project.FindLangItem("ord", ""); ord != nil {
				impls = append(impls, boundWithSingleParam(ord, ty))
			}
		}
		if !ty.IsFloat() {
			if eq := l.items.FindEqTrait(); eq != nil {
				impls = append(impls, types.NewBound(eq))
			}
			if ty != types.Unit && ty != types.Bool {
				if ord := l.items.FindOrdTrait(); ord != nil {
					impls = append(impls, types.NewBound(ord))
				}
			}
		}
		// core::marker; str is unsized and never Copy.
		if cp := l.copyTraitItem(); cp != nil {
			impls = append(impls, types.NewBound(cp))
		}
	}
	// core::clone
	if clone := l.items.FindCloneTrait(); clone != nil {
		impls = append(impls, types.NewBound(clone))
	}
	return impls
}

func boundWithSingleParam(trait *types.TraitItem, ty types.Ty) types.BoundElement {
	param, ok := trait.TypeParamSingle()
	if !ok {
		return types.NewBound(trait)
	}
	return types.BoundElement{Trait: trait, Subst: types.SubstOf(types.SubstEntry{Param: param, Ty: ty})}
}
