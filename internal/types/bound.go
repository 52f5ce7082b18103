package types

import "strings"

// BoundElement is a trait together with a substitution for its parameters
// and associated types, e.g. Iterator<Item = i32>.
type BoundElement struct {
	Trait *TraitItem
	Subst Substitution
}

// NewBound binds trait with an empty substitution.
func NewBound(trait *TraitItem) BoundElement {
	return BoundElement{Trait: trait, Subst: EmptySubst}
}

// Substitute applies s to the bound's values.
func (b BoundElement) Substitute(s Substitution) BoundElement {
	return BoundElement{Trait: b.Trait, Subst: b.Subst.SubstituteInValues(s)}
}

// AssocBinding returns the value bound to the associated type target.
func (b BoundElement) AssocBinding(target *TypeAlias) (Ty, bool) {
	return b.Subst.Get(AssociatedParam(target))
}

// FlattenHierarchy returns b followed by all supertrait bounds, each
// instantiated through b's substitution. Every trait appears once.
func (b BoundElement) FlattenHierarchy() []BoundElement {
	seen := make(map[*TraitItem]struct{})
	var out []BoundElement
	var walk func(BoundElement)
	walk = func(cur BoundElement) {
		if cur.Trait == nil {
			return
		}
		if _, ok := seen[cur.Trait]; ok {
			return
		}
		seen[cur.Trait] = struct{}{}
		out = append(out, cur)
		for _, super := range cur.Trait.SuperTraits {
			walk(super.Substitute(cur.Subst))
		}
	}
	walk(b)
	return out
}

// WithDefaults replaces trait parameters left bound to themselves by their
// declared default, reading Self in the default as self. `PartialEq` written
// for i32 becomes PartialEq<i32>.
func (b BoundElement) WithDefaults(self Ty) BoundElement {
	if b.Trait == nil {
		return b
	}
	selfSubst := SubstOf(SubstEntry{Param: SelfParam(), Ty: self})
	b.Subst = b.Subst.MapValues(func(e SubstEntry) Ty {
		p, ok := e.Ty.(TypeParameter)
		if ok && p.Param == ParamNamed && p.Key() == e.Param.Key() && p.Decl.Default != nil {
			return Substitute(p.Decl.Default, selfSubst)
		}
		return e.Ty
	})
	return b
}

// Equal reports structural equality.
func (b BoundElement) Equal(other BoundElement) bool {
	return b.Trait == other.Trait && EqualSubst(b.Subst, other.Subst)
}

func (b BoundElement) String() string {
	if b.Trait == nil {
		return "_"
	}
	var args, assoc []string
	for _, e := range b.Subst.Entries() {
		switch e.Param.Param {
		case ParamAssociated:
			assoc = append(assoc, e.Param.Target.Name+" = "+e.Ty.String())
		default:
			if tp, ok := e.Ty.(TypeParameter); ok && tp.Key() == e.Param.Key() {
				continue
			}
			args = append(args, e.Ty.String())
		}
	}
	args = append(args, assoc...)
	if len(args) == 0 {
		return b.Trait.Name
	}
	return b.Trait.Name + "<" + strings.Join(args, ", ") + ">"
}

// TraitRef asks whether SelfTy implements Trait.
type TraitRef struct {
	SelfTy Ty
	Trait  BoundElement
}

// Substitute applies s to both the self type and the trait.
func (r TraitRef) Substitute(s Substitution) TraitRef {
	return TraitRef{SelfTy: Substitute(r.SelfTy, s), Trait: r.Trait.Substitute(s)}
}

// FoldWith rewrites every type inside the trait ref.
func (r TraitRef) FoldWith(fn func(Ty) Ty) TraitRef {
	return TraitRef{
		SelfTy: fn(r.SelfTy),
		Trait: BoundElement{
			Trait: r.Trait.Trait,
			Subst: r.Trait.Subst.MapValues(func(e SubstEntry) Ty { return fn(e.Ty) }),
		},
	}
}

// Equal reports structural equality.
func (r TraitRef) Equal(other TraitRef) bool {
	return Equal(r.SelfTy, other.SelfTy) && r.Trait.Equal(other.Trait)
}

func (r TraitRef) String() string {
	return "<" + r.SelfTy.String() + " as " + r.Trait.String() + ">"
}
