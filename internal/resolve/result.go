package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImplementation reports that no candidate satisfies a trait ref.
	ErrNoImplementation = errors.New("no implementation")
	// ErrAmbiguous reports that several candidates satisfy a trait ref.
	ErrAmbiguous = errors.New("ambiguous selection")
	// ErrRecursionLimit reports an obligation chain deeper than RecursionLimit.
	// Callers treat it as ErrNoImplementation.
	ErrRecursionLimit = fmt.Errorf("%w: recursion limit of %d exceeded", ErrNoImplementation, RecursionLimit)
)

// ResultKind is the tri-state of a SelectionResult.
type ResultKind uint8

const (
	ResultErr ResultKind = iota
	ResultAmbiguous
	ResultOk
)

func (k ResultKind) String() string {
	switch k {
	case ResultOk:
		return "ok"
	case ResultAmbiguous:
		return "ambiguous"
	default:
		return "err"
	}
}

// SelectionResult is Ok with a value, Err, or Ambiguous. The zero value is
// Err(ErrNoImplementation).
type SelectionResult[T any] struct {
	kind  ResultKind
	value T
	err   error
}

// OkResult wraps a successful value.
func OkResult[T any](v T) SelectionResult[T] {
	return SelectionResult[T]{kind: ResultOk, value: v}
}

// ErrResult reports failure. A nil err means ErrNoImplementation.
func ErrResult[T any](err error) SelectionResult[T] {
	return SelectionResult[T]{kind: ResultErr, err: err}
}

// AmbiguousResult reports that the query cannot be decided yet.
func AmbiguousResult[T any]() SelectionResult[T] {
	return SelectionResult[T]{kind: ResultAmbiguous}
}

// Kind returns the tri-state tag.
func (r SelectionResult[T]) Kind() ResultKind { return r.kind }

// IsAmbiguous reports whether more inference is needed to decide.
func (r SelectionResult[T]) IsAmbiguous() bool { return r.kind == ResultAmbiguous }

// Ok returns the value of an Ok result.
func (r SelectionResult[T]) Ok() (T, bool) {
	return r.value, r.kind == ResultOk
}

// Err returns nil for Ok, ErrAmbiguous for Ambiguous and the failure cause
// otherwise.
func (r SelectionResult[T]) Err() error {
	switch r.kind {
	case ResultOk:
		return nil
	case ResultAmbiguous:
		return ErrAmbiguous
	}
	if r.err == nil {
		return ErrNoImplementation
	}
	return r.err
}

func (r SelectionResult[T]) String() string {
	switch r.kind {
	case ResultOk:
		return fmt.Sprintf("Ok(%v)", r.value)
	case ResultAmbiguous:
		return "Ambiguous"
	}
	return "Err(" + r.Err().Error() + ")"
}

// MapResult transforms the value of an Ok result and keeps Err/Ambiguous.
func MapResult[T, R any](r SelectionResult[T], fn func(T) R) SelectionResult[R] {
	switch r.kind {
	case ResultOk:
		return OkResult(fn(r.value))
	case ResultAmbiguous:
		return AmbiguousResult[R]()
	}
	return SelectionResult[R]{kind: ResultErr, err: r.err}
}
