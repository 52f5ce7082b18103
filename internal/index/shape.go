package index

import "traitres/internal/types"

// shape is the outermost type constructor of a self type. Impls are bucketed
// by it so a lookup never visits impls for unrelated type constructors.
type shape struct {
	kind  types.Kind
	prim  types.PrimKind
	item  types.ItemID
	arity int
	mut   bool
}

func shapeOf(t types.Ty) (shape, bool) {
	switch tt := t.(type) {
	case types.Primitive:
		return shape{kind: types.KindPrimitive, prim: tt.Prim}, true
	case types.Adt:
		if tt.Item == nil {
			return shape{}, false
		}
		return shape{kind: types.KindAdt, item: tt.Item.ID}, true
	case types.Reference:
		return shape{kind: types.KindReference, mut: tt.Mutable}, true
	case types.Pointer:
		return shape{kind: types.KindPointer, mut: tt.Mutable}, true
	case types.Function:
		return shape{kind: types.KindFunction, arity: len(tt.Params)}, true
	case types.Tuple:
		return shape{kind: types.KindTuple, arity: len(tt.Types)}, true
	case types.Array:
		return shape{kind: types.KindArray}, true
	case types.Slice:
		return shape{kind: types.KindSlice}, true
	case types.TraitObject:
		if tt.Trait.Trait == nil {
			return shape{}, false
		}
		return shape{kind: types.KindTraitObject, item: tt.Trait.Trait.ID}, true
	default:
		return shape{}, false
	}
}

// implShape reports the bucket of impl, or false for blanket impls whose self
// type is one of the impl's own parameters.
func implShape(impl *types.ImplItem) (shape, bool) {
	if _, ok := impl.SelfTy.(types.TypeParameter); ok {
		return shape{}, false
	}
	return shapeOf(impl.SelfTy)
}
