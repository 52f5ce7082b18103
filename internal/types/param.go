package types

import "sync"

// ParamKind distinguishes the pseudo-parameters a TypeParameter can stand for.
type ParamKind uint8

const (
	ParamSelf ParamKind = iota + 1
	ParamNamed
	ParamAssociated
)

// TypeParameter is the Self type, a declared generic parameter, or an
// associated type projection <Base as Trait>::Name.
type TypeParameter struct {
	Param ParamKind
	// Decl is set for ParamNamed.
	Decl *TypeParamDecl
	// Base and Target are set for ParamAssociated.
	Base   Ty
	Target *TypeAlias

	selfBound *BoundElement
}

func (TypeParameter) Kind() Kind { return KindTypeParameter }
func (TypeParameter) isTy()      {}

// SelfParam is the implicit Self parameter with no bounds.
func SelfParam() TypeParameter { return TypeParameter{Param: ParamSelf} }

// SelfParamOf is Self inside owner, bounded by the trait owner implements.
func SelfParamOf(owner TraitOrImpl) TypeParameter {
	p := TypeParameter{Param: ParamSelf}
	if owner != nil {
		p.selfBound = owner.ImplementedTrait()
	}
	return p
}

// NamedParam wraps a declared generic parameter.
func NamedParam(decl *TypeParamDecl) TypeParameter {
	return TypeParameter{Param: ParamNamed, Decl: decl}
}

// AssociatedParam is <Self as Trait>::Target.
func AssociatedParam(target *TypeAlias) TypeParameter {
	return AssociatedParamOf(SelfParam(), target)
}

// AssociatedParamOf is <base as Trait>::Target where Trait owns target.
func AssociatedParamOf(base Ty, target *TypeAlias) TypeParameter {
	return TypeParameter{Param: ParamAssociated, Base: base, Target: target}
}

// Trait returns the trait owning an associated parameter.
func (p TypeParameter) Trait() *TraitItem {
	if p.Param != ParamAssociated || p.Target == nil {
		return nil
	}
	return p.Target.Trait
}

// Name returns the source spelling of the parameter.
func (p TypeParameter) Name() string {
	switch p.Param {
	case ParamSelf:
		return "Self"
	case ParamNamed:
		if p.Decl == nil {
			return "_"
		}
		return p.Decl.Name
	case ParamAssociated:
		if p.Target == nil {
			return "_"
		}
		trait := "_"
		if tr := p.Trait(); tr != nil {
			trait = tr.Name
		}
		return "<" + p.Base.String() + " as " + trait + ">::" + p.Target.Name
	}
	return "_"
}

func (p TypeParameter) String() string { return p.Name() }

// TraitBoundsTransitively returns the parameter's bounds and, for each of
// them, every supertrait bound.
func (p TypeParameter) TraitBoundsTransitively() []BoundElement {
	var direct []BoundElement
	switch p.Param {
	case ParamSelf:
		if p.selfBound != nil {
			direct = []BoundElement{*p.selfBound}
		}
	case ParamNamed:
		if p.Decl != nil {
			direct = p.Decl.Bounds()
		}
	}
	var out []BoundElement
	for _, b := range direct {
		out = append(out, b.FlattenHierarchy()...)
	}
	return out
}

// TypeParamDecl is a declared generic parameter. Its bounds are computed on
// first use; a lookup triggered while they are being computed observes an
// empty set.
type TypeParamDecl struct {
	ID   ItemID
	Name string
	// Default is the fallback for trait parameters such as `Rhs = Self`.
	Default Ty

	mu       sync.Mutex
	state    boundsState
	supplier func() []BoundElement
	bounds   []BoundElement
}

type boundsState uint8

const (
	boundsPending boundsState = iota
	boundsComputing
	boundsDone
)

// NewTypeParamDecl declares a generic parameter whose bounds are produced by
// supplier on first access. supplier may be nil.
func NewTypeParamDecl(id ItemID, name string, supplier func() []BoundElement) *TypeParamDecl {
	return &TypeParamDecl{ID: id, Name: name, supplier: supplier}
}

// SetBoundsSupplier replaces the supplier if bounds were not computed yet.
func (d *TypeParamDecl) SetBoundsSupplier(supplier func() []BoundElement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == boundsPending {
		d.supplier = supplier
	}
}

// Bounds returns the declared (non-flattened) bounds.
func (d *TypeParamDecl) Bounds() []BoundElement {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	switch d.state {
	case boundsDone:
		out := d.bounds
		d.mu.Unlock()
		return out
	case boundsComputing:
		d.mu.Unlock()
		return nil
	}
	d.state = boundsComputing
	supplier := d.supplier
	d.mu.Unlock()

	var out []BoundElement
	if supplier != nil {
		out = supplier()
	}

	d.mu.Lock()
	d.bounds = out
	d.supplier = nil
	d.state = boundsDone
	d.mu.Unlock()
	return out
}
