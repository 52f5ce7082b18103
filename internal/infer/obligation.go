package infer

import (
	"fmt"

	"traitres/internal/types"
)

// Predicate is a constraint carried by an Obligation: TraitPredicate or
// EquatePredicate.
type Predicate interface {
	String() string
	isPredicate()
}

// TraitPredicate requires Ref.SelfTy to implement Ref.Trait.
type TraitPredicate struct {
	Ref types.TraitRef
}

// EquatePredicate requires Ty1 and Ty2 to unify.
type EquatePredicate struct {
	Ty1 types.Ty
	Ty2 types.Ty
}

func (TraitPredicate) isPredicate()  {}
func (EquatePredicate) isPredicate() {}

func (p TraitPredicate) String() string { return p.Ref.String() }
func (p EquatePredicate) String() string {
	return p.Ty1.String() + " == " + p.Ty2.String()
}

// Obligation is a nested constraint that must hold for a selection to be
// valid. Depth is the recursion depth it was generated at.
type Obligation struct {
	Depth     int
	Predicate Predicate
}

func (o Obligation) String() string {
	return fmt.Sprintf("[%d] %s", o.Depth, o.Predicate)
}

// TyWithObligations pairs a value with the obligations needed to trust it.
type TyWithObligations[T any] struct {
	Value       T
	Obligations []Obligation
}

// WithObligations wraps value.
func WithObligations[T any](value T, obligations ...Obligation) TyWithObligations[T] {
	return TyWithObligations[T]{Value: value, Obligations: obligations}
}
