package resolve

import (
	"traitres/internal/cache"
	"traitres/internal/types"
)

// ProjectIndex is the declaration index selection runs against. It is
// implemented by *index.Project.
type ProjectIndex interface {
	ID() cache.ProjectID
	// FindPotentialImpls returns impls whose self type may unify with selfTy.
	// It may overmatch.
	FindPotentialImpls(selfTy types.Ty) []*types.ImplItem
	// FindLangItem returns the trait carrying a lang attribute, optionally
	// restricted to a module name.
	FindLangItem(name, module string) *types.TraitItem
	FindDerivableTraits(name string) []*types.TraitItem
	FindCoreTrait(path string) *types.TraitItem
	FindCoreAdt(path string) *types.AdtItem
}

// StdKnownItems resolves standard library items selection depends on.
type StdKnownItems struct {
	index ProjectIndex
}

// NewStdKnownItems wraps index.
func NewStdKnownItems(index ProjectIndex) StdKnownItems {
	return StdKnownItems{index: index}
}

// FindIteratorTrait returns the iterator lang item, or core::iter::Iterator.
func (k StdKnownItems) FindIteratorTrait() *types.TraitItem {
	if t := k.index.FindLangItem("iterator", ""); t != nil {
		return t
	}
	return k.index.FindCoreTrait("iter::Iterator")
}

func (k StdKnownItems) FindIntoIteratorTrait() *types.TraitItem {
	return k.index.FindCoreTrait("iter::IntoIterator")
}

func (k StdKnownItems) FindCloneTrait() *types.TraitItem {
	if t := k.index.FindLangItem("clone", ""); t != nil {
		return t
	}
	return k.index.FindCoreTrait("clone::Clone")
}

func (k StdKnownItems) FindCopyTrait() *types.TraitItem {
	if traits := k.index.FindDerivableTraits("Copy"); len(traits) > 0 {
		return traits[0]
	}
	return nil
}

func (k StdKnownItems) FindEqTrait() *types.TraitItem  { return k.index.FindCoreTrait("cmp::Eq") }
func (k StdKnownItems) FindOrdTrait() *types.TraitItem { return k.index.FindCoreTrait("cmp::Ord") }

// FindBinOpTraits returns the arithmetic and bitwise operator traits that
// exist in the project.
func (k StdKnownItems) FindBinOpTraits() []*types.TraitItem {
	var out []*types.TraitItem
	for _, op := range ArithmeticOps() {
		if t := k.index.FindLangItem(op.ItemName(), op.ModName()); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func (k StdKnownItems) FindCoreAdt(path string) *types.AdtItem {
	return k.index.FindCoreAdt(path)
}

// TraitAndOutput pairs a trait with one of its associated types.
type TraitAndOutput struct {
	Trait  *types.TraitItem
	Output *types.TypeAlias
}

func findTraitAndOutput(trait *types.TraitItem, assoc string) (TraitAndOutput, bool) {
	if trait == nil {
		return TraitAndOutput{}, false
	}
	alias := trait.FindAssociatedType(assoc)
	if alias == nil {
		return TraitAndOutput{}, false
	}
	return TraitAndOutput{Trait: trait, Output: alias}, true
}
