package infer

import "traitres/internal/types"

// Projector resolves <Base as Trait>::Target. It reports false when the
// projection cannot be resolved; the caller then keeps the projection as is.
type Projector interface {
	NormalizeProjection(ref types.TraitRef, target *types.TypeAlias, depth int) (TyWithObligations[types.Ty], bool)
}

// NormalizeAssociatedTypesIn replaces resolvable associated type projections
// inside t and collects the obligations the replacements depend on.
func (c *Context) NormalizeAssociatedTypesIn(t types.Ty, depth int) TyWithObligations[types.Ty] {
	var obligations []Obligation
	value := c.normalize(t, depth, &obligations)
	return TyWithObligations[types.Ty]{Value: value, Obligations: obligations}
}

// NormalizeTraitRef is NormalizeAssociatedTypesIn applied to every type of ref.
func (c *Context) NormalizeTraitRef(ref types.TraitRef, depth int) TyWithObligations[types.TraitRef] {
	var obligations []Obligation
	value := ref.FoldWith(func(t types.Ty) types.Ty { return c.normalize(t, depth, &obligations) })
	return TyWithObligations[types.TraitRef]{Value: value, Obligations: obligations}
}

func (c *Context) normalize(t types.Ty, depth int, obligations *[]Obligation) types.Ty {
	if t == nil || c.projector == nil {
		return t
	}
	return types.FoldTy(t, func(t types.Ty) types.Ty {
		p, ok := t.(types.TypeParameter)
		if !ok || p.Param != types.ParamAssociated || p.Trait() == nil {
			return t
		}
		if base, ok := p.Base.(types.TypeParameter); ok && base.Param == types.ParamSelf {
			return t
		}
		ref := types.TraitRef{SelfTy: p.Base, Trait: types.NewBound(p.Trait())}
		res, ok := c.projector.NormalizeProjection(ref, p.Target, depth+1)
		if !ok || res.Value == nil || types.Equal(res.Value, t) {
			return t
		}
		*obligations = append(*obligations, res.Obligations...)
		return res.Value
	})
}
