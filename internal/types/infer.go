package types

import (
	"fmt"
	"sync/atomic"
)

// InferKind tags an inference variable with the class of types it may take.
type InferKind uint8

const (
	InferTy InferKind = iota + 1
	InferInt
	InferFloat
)

func (k InferKind) prefix() string {
	switch k {
	case InferInt:
		return "?int"
	case InferFloat:
		return "?float"
	default:
		return "?T"
	}
}

// Infer is an unresolved inference variable. Two variables are equal iff they
// have the same id.
type Infer struct {
	Var InferKind
	ID  uint32
}

// FreshInfer is a canonically renumbered inference variable used only inside
// cache keys.
type FreshInfer struct {
	Var   InferKind
	Index uint32
}

func (Infer) Kind() Kind      { return KindInfer }
func (FreshInfer) Kind() Kind { return KindFreshInfer }
func (Infer) isTy()           {}
func (FreshInfer) isTy()      {}

func (v Infer) String() string      { return fmt.Sprintf("%s%d", v.Var.prefix(), v.ID) }
func (v FreshInfer) String() string { return fmt.Sprintf("^%s%d", v.Var.prefix()[1:], v.Index) }

var inferSeq atomic.Uint32

// NewTyVar allocates a general type variable. Ids are unique process-wide so
// variables from different inference contexts never alias.
func NewTyVar() Infer { return Infer{Var: InferTy, ID: inferSeq.Add(1)} }

// NewIntVar allocates an integer literal variable.
func NewIntVar() Infer { return Infer{Var: InferInt, ID: inferSeq.Add(1)} }

// NewFloatVar allocates a float literal variable.
func NewFloatVar() Infer { return Infer{Var: InferFloat, ID: inferSeq.Add(1)} }
