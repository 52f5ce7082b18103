package types

import "fmt"

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindAdt
	KindReference
	KindPointer
	KindFunction
	KindTuple
	KindArray
	KindSlice
	KindTraitObject
	KindTypeParameter
	KindInfer
	KindFreshInfer
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindAdt:
		return "adt"
	case KindReference:
		return "reference"
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	case KindTuple:
		return "tuple"
	case KindArray:
		return "array"
	case KindSlice:
		return "slice"
	case KindTraitObject:
		return "trait-object"
	case KindTypeParameter:
		return "type-parameter"
	case KindInfer:
		return "infer"
	case KindFreshInfer:
		return "fresh-infer"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Ty is an immutable type value. The set of implementations is closed to this
// package; use a type switch to inspect it.
type Ty interface {
	Kind() Kind
	String() string
	isTy()
}

// UnknownArraySize marks arrays whose length is not known statically.
const UnknownArraySize int64 = -1

// Adt is an instantiated struct or enum.
type Adt struct {
	Item  *AdtItem
	Subst Substitution
}

// Reference describes &T or &mut T depending on the Mutable flag.
type Reference struct {
	Referenced Ty
	Mutable    bool
}

// Pointer describes *const T or *mut T.
type Pointer struct {
	Referenced Ty
	Mutable    bool
}

// Function is a function pointer/item type.
type Function struct {
	Params []Ty
	Ret    Ty
}

// Tuple is an ordered product type; the empty tuple is spelled as Unit.
type Tuple struct {
	Types []Ty
}

// Array is [Base; Size]. Size is UnknownArraySize when not evaluated.
type Array struct {
	Base Ty
	Size int64
}

// Slice is [Elem].
type Slice struct {
	Elem Ty
}

// TraitObject is dyn Trait.
type TraitObject struct {
	Trait BoundElement
}

// Unknown is the error/fallback sentinel type.
type Unknown struct{}

func (Adt) Kind() Kind         { return KindAdt }
func (Reference) Kind() Kind   { return KindReference }
func (Pointer) Kind() Kind     { return KindPointer }
func (Function) Kind() Kind    { return KindFunction }
func (Tuple) Kind() Kind       { return KindTuple }
func (Array) Kind() Kind       { return KindArray }
func (Slice) Kind() Kind       { return KindSlice }
func (TraitObject) Kind() Kind { return KindTraitObject }
func (Unknown) Kind() Kind     { return KindUnknown }

func (Adt) isTy()         {}
func (Reference) isTy()   {}
func (Pointer) isTy()     {}
func (Function) isTy()    {}
func (Tuple) isTy()       {}
func (Array) isTy()       {}
func (Slice) isTy()       {}
func (TraitObject) isTy() {}
func (Unknown) isTy()     {}

// NewAdt instantiates item with positional type arguments. Missing arguments
// stay as the item's own parameters.
func NewAdt(item *AdtItem, args ...Ty) Adt {
	subst := make(Substitution, len(item.TypeParams))
	for i, decl := range item.TypeParams {
		param := NamedParam(decl)
		var arg Ty = param
		if i < len(args) && args[i] != nil {
			arg = args[i]
		}
		subst.set(param, arg)
	}
	return Adt{Item: item, Subst: subst}
}

// TypeArgs returns the instantiation in declaration order.
func (a Adt) TypeArgs() []Ty {
	if a.Item == nil || len(a.Item.TypeParams) == 0 {
		return nil
	}
	out := make([]Ty, len(a.Item.TypeParams))
	for i, decl := range a.Item.TypeParams {
		ty, ok := a.Subst.Get(NamedParam(decl))
		if !ok {
			ty = Unknown{}
		}
		out[i] = ty
	}
	return out
}

// ArgByName returns the type argument bound to the parameter called name, or
// Unknown when there is none.
func (a Adt) ArgByName(name string) Ty {
	for _, e := range a.Subst.Entries() {
		if e.Param.Name() == name {
			return e.Ty
		}
	}
	return Unknown{}
}
