package resolve

import (
	"fmt"

	"traitres/internal/infer"
	"traitres/internal/trace"
	"traitres/internal/types"
)

// EvaluateObligations proves obligations, committing the bindings they imply.
// Trait predicates are selected at their own depth and contribute their
// nested obligations; equate predicates are unified. Ambiguous predicates are
// retried while others make progress and returned when nothing more can be
// decided. The first failing predicate aborts with an error wrapping
// ErrNoImplementation.
func (l *ImplLookup) EvaluateObligations(obligations []infer.Obligation) ([]infer.Obligation, error) {
	ctx := l.Context()
	pending := append([]infer.Obligation(nil), obligations...)
	for {
		progress := false
		var ambiguous []infer.Obligation
		for len(pending) > 0 {
			o := pending[0]
			pending = pending[1:]
			switch p := o.Predicate.(type) {
			case infer.EquatePredicate:
				if !ctx.CombineTypes(p.Ty1, p.Ty2) {
					return nil, fmt.Errorf("%s: %w", o, ErrNoImplementation)
				}
				progress = true
			case infer.TraitPredicate:
				res := l.Select(p.Ref, o.Depth)
				if sel, ok := res.Ok(); ok {
					pending = append(pending, sel.Obligations...)
					progress = true
				} else if res.IsAmbiguous() {
					ambiguous = append(ambiguous, o)
				} else {
					return nil, fmt.Errorf("%s: %w", o, res.Err())
				}
			}
		}
		if len(ambiguous) == 0 || !progress {
			if len(ambiguous) > 0 && l.tracing(trace.ScopeSelect) {
				l.point(trace.ScopeSelect, "undecided", fmt.Sprintf("%d obligations", len(ambiguous)))
			}
			return ambiguous, nil
		}
		pending = ambiguous
	}
}

// Implements reports whether ty implements trait instantiated with args,
// proving nested obligations too. Parameters without an argument take their
// declared default. It returns nil on success, ErrAmbiguous
// when the answer depends on unresolved variables, and an error wrapping
// ErrNoImplementation otherwise. The lookup's context is left unchanged.
func (l *ImplLookup) Implements(ty types.Ty, trait *types.TraitItem, args ...types.Ty) error {
	if trait == nil {
		return ErrNoImplementation
	}
	ctx := l.Context()
	ref := types.TraitRef{SelfTy: ty, Trait: trait.WithSubst(args...).WithDefaults(ty)}
	var err error
	ctx.Probe(func() bool {
		res := l.Select(ref, 0)
		sel, ok := res.Ok()
		if !ok {
			err = res.Err()
			return false
		}
		var pending []infer.Obligation
		pending, err = l.EvaluateObligations(sel.Obligations)
		if err == nil && len(pending) > 0 {
			err = ErrAmbiguous
		}
		return err == nil
	})
	return err
}
