package types

import (
	"fmt"

	"fortio.org/safecast"
)

// freshener renumbers inference variables from zero in first-seen order, so
// that S<?1, ?2, ?1> and S<?7, ?3, ?7> produce the same cache key.
type freshener struct {
	seen map[Infer]FreshInfer
}

func (f *freshener) fold(t Ty) Ty {
	return FoldInfer(t, func(v Infer) Ty {
		if fresh, ok := f.seen[v]; ok {
			return fresh
		}
		idx, err := safecast.Conv[uint32](len(f.seen))
		if err != nil {
			panic(fmt.Errorf("freshen counter overflow: %w", err))
		}
		fresh := FreshInfer{Var: v.Var, Index: idx}
		f.seen[v] = fresh
		return fresh
	})
}

// Freshen renumbers the inference variables of t canonically.
func Freshen(t Ty) Ty {
	f := freshener{seen: make(map[Infer]FreshInfer)}
	return f.fold(t)
}

// FreshenTraitRef renumbers the inference variables of r canonically. The self
// type is visited first, then trait arguments in deterministic order.
func FreshenTraitRef(r TraitRef) TraitRef {
	f := freshener{seen: make(map[Infer]FreshInfer)}
	self := f.fold(r.SelfTy)
	subst := make(Substitution, len(r.Trait.Subst))
	for _, e := range r.Trait.Subst.Entries() {
		subst.set(e.Param, f.fold(e.Ty))
	}
	return TraitRef{SelfTy: self, Trait: BoundElement{Trait: r.Trait.Trait, Subst: subst}}
}
