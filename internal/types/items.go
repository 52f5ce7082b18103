package types

import "strings"

// ItemID identifies a declaration inside a project.
type ItemID uint32

// NoItemID marks the absence of a declaration.
const NoItemID ItemID = 0

// IsValid reports whether the id refers to an allocated declaration.
func (id ItemID) IsValid() bool { return id != NoItemID }

// TraitOrImpl is implemented by *TraitItem and *ImplItem.
type TraitOrImpl interface {
	ItemID() ItemID
	ImplementedTrait() *BoundElement
	AssociatedTypesTransitively() []*TypeAlias
	String() string
	isTraitOrImpl()
}

// TraitItem is a trait declaration.
type TraitItem struct {
	ID   ItemID
	Name string
	// Path is the fully qualified path, e.g. core::cmp::PartialEq.
	Path string
	// LangItem is the well-known item name, e.g. "eq" or "fn_once".
	LangItem    string
	TypeParams  []*TypeParamDecl
	AssocTypes  []*TypeAlias
	SuperTraits []BoundElement
}

func (t *TraitItem) ItemID() ItemID { return t.ID }
func (t *TraitItem) String() string { return t.Name }
func (*TraitItem) isTraitOrImpl()   {}

// Crate returns the first path segment ("core", "std", ...).
func (t *TraitItem) Crate() string {
	crate, _, _ := strings.Cut(t.Path, "::")
	return crate
}

// ModName returns the innermost module containing the trait.
func (t *TraitItem) ModName() string {
	segs := strings.Split(t.Path, "::")
	if len(segs) < 2 {
		return ""
	}
	return segs[len(segs)-2]
}

// ImplementedTrait returns the trait bound by its own parameters.
func (t *TraitItem) ImplementedTrait() *BoundElement {
	subst := make(Substitution, len(t.TypeParams))
	for _, decl := range t.TypeParams {
		p := NamedParam(decl)
		subst.set(p, p)
	}
	return &BoundElement{Trait: t, Subst: subst}
}

// AssociatedTypesTransitively returns associated types declared by the trait
// and its supertraits.
func (t *TraitItem) AssociatedTypesTransitively() []*TypeAlias {
	var out []*TypeAlias
	for _, b := range t.ImplementedTrait().FlattenHierarchy() {
		out = append(out, b.Trait.AssocTypes...)
	}
	return out
}

// FindAssociatedType looks name up among AssociatedTypesTransitively.
func (t *TraitItem) FindAssociatedType(name string) *TypeAlias {
	if t == nil {
		return nil
	}
	for _, a := range t.AssociatedTypesTransitively() {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TypeParamSingle returns the only type parameter of a one-parameter trait.
func (t *TraitItem) TypeParamSingle() (TypeParameter, bool) {
	if t == nil || len(t.TypeParams) != 1 {
		return TypeParameter{}, false
	}
	return NamedParam(t.TypeParams[0]), true
}

// WithSubst binds the trait's type parameters positionally. Parameters without
// an argument stay bound to themselves.
func (t *TraitItem) WithSubst(args ...Ty) BoundElement {
	subst := make(Substitution, len(t.TypeParams))
	for i, decl := range t.TypeParams {
		p := NamedParam(decl)
		var arg Ty = p
		if i < len(args) && args[i] != nil {
			arg = args[i]
		}
		subst.set(p, arg)
	}
	return BoundElement{Trait: t, Subst: subst}
}

// SubstAssocType returns the trait bound with its associated type assoc set
// to ty; the binding is omitted when either is missing.
func (t *TraitItem) SubstAssocType(assoc string, ty Ty) BoundElement {
	target := t.FindAssociatedType(assoc)
	if target == nil || ty == nil {
		return BoundElement{Trait: t, Subst: EmptySubst}
	}
	return BoundElement{Trait: t, Subst: SubstOf(SubstEntry{Param: AssociatedParam(target), Ty: ty})}
}

// TypeAlias is an associated type, either declared in a trait (Trait != nil,
// Type optional default) or defined in an impl (Type set).
type TypeAlias struct {
	ID    ItemID
	Name  string
	Trait *TraitItem
	Type  Ty
}

// ImplItem is an impl block. Trait is nil for inherent impls.
type ImplItem struct {
	ID         ItemID
	TypeParams []*TypeParamDecl
	SelfTy     Ty
	Trait      *BoundElement
	AssocTypes []*TypeAlias
	// Where holds predicates from the where clause, expressed over TypeParams.
	Where []TraitRef
}

func (i *ImplItem) ItemID() ItemID                  { return i.ID }
func (i *ImplItem) ImplementedTrait() *BoundElement { return i.Trait }
func (*ImplItem) isTraitOrImpl()                    {}

func (i *ImplItem) String() string {
	var sb strings.Builder
	sb.WriteString("impl")
	if len(i.TypeParams) > 0 {
		names := make([]string, len(i.TypeParams))
		for k, d := range i.TypeParams {
			names[k] = d.Name
		}
		sb.WriteString("<" + strings.Join(names, ", ") + ">")
	}
	if i.Trait != nil {
		sb.WriteString(" " + i.Trait.String() + " for")
	}
	if i.SelfTy != nil {
		sb.WriteString(" " + i.SelfTy.String())
	}
	return sb.String()
}

// AssociatedTypesTransitively returns the impl's associated types followed
// by trait declarations the impl does not override.
func (i *ImplItem) AssociatedTypesTransitively() []*TypeAlias {
	out := append([]*TypeAlias(nil), i.AssocTypes...)
	if i.Trait == nil {
		return out
	}
	defined := make(map[string]struct{}, len(i.AssocTypes))
	for _, a := range i.AssocTypes {
		defined[a.Name] = struct{}{}
	}
	for _, a := range i.Trait.Trait.AssociatedTypesTransitively() {
		if _, ok := defined[a.Name]; !ok {
			out = append(out, a)
		}
	}
	return out
}

// Generics returns the impl's type parameters as types.
func (i *ImplItem) Generics() []TypeParameter {
	out := make([]TypeParameter, len(i.TypeParams))
	for k, d := range i.TypeParams {
		out[k] = NamedParam(d)
	}
	return out
}

// Bounds returns every predicate the impl requires: declared parameter bounds
// followed by the where clause.
func (i *ImplItem) Bounds() []TraitRef {
	var out []TraitRef
	for _, d := range i.TypeParams {
		self := NamedParam(d)
		for _, b := range d.Bounds() {
			out = append(out, TraitRef{SelfTy: self, Trait: b})
		}
	}
	return append(out, i.Where...)
}

// AdtItem is a struct or enum declaration.
type AdtItem struct {
	ID   ItemID
	Name string
	// Path is the fully qualified path, e.g. core::slice::Iter.
	Path       string
	Enum       bool
	TypeParams []*TypeParamDecl
	// Derives lists traits named in the derive attribute.
	Derives []*TraitItem
}
