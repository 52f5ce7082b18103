package resolve

import (
	"strings"

	"traitres/internal/infer"
	"traitres/internal/types"
)

// Candidate is one way a trait ref may be satisfied. Candidates live only
// between assembly and confirmation, except inside the selection cache.
//
// The set of implementations is closed: ImplCandidate, DerivedTraitCandidate,
// TypeParameterCandidate and ClosureCandidate.
type Candidate interface {
	String() string
	isCandidate()
}

// ImplCandidate is an explicit impl whose self type and trait unify with the
// query. Its generics are instantiated again at confirmation.
type ImplCandidate struct {
	Impl *types.ImplItem
}

// DerivedTraitCandidate is a standard derivable trait named in a derive
// annotation.
type DerivedTraitCandidate struct {
	Trait *types.TraitItem
}

// TypeParameterCandidate is a bound taken from a type parameter, a trait
// object, or the hardcoded impl table. Hardcoded bounds are recomputed from
// the query self type at confirmation because they may mention its variables.
type TypeParameterCandidate struct {
	Bound     types.BoundElement
	Hardcoded bool
}

// ClosureCandidate is a function type satisfying an fn/fn_mut/fn_once trait.
type ClosureCandidate struct{}

func (ImplCandidate) isCandidate()          {}
func (DerivedTraitCandidate) isCandidate()  {}
func (TypeParameterCandidate) isCandidate() {}
func (ClosureCandidate) isCandidate()       {}

func (c ImplCandidate) String() string         { return "impl " + c.Impl.String() }
func (c DerivedTraitCandidate) String() string { return "derive " + c.Trait.Name }
func (c TypeParameterCandidate) String() string {
	if c.Hardcoded {
		return "builtin " + c.Bound.String()
	}
	return "bound " + c.Bound.String()
}
func (ClosureCandidate) String() string { return "closure" }

// Selection is a confirmed candidate.
type Selection struct {
	// Impl is the impl block, or the trait itself for derived, bound,
	// builtin and closure candidates.
	Impl types.TraitOrImpl
	// Obligations must hold for the selection to be valid.
	Obligations []infer.Obligation
	// Subst maps the impl's generics (and Self) to the types chosen by
	// unification. Empty for non-impl selections.
	Subst types.Substitution
}

func (s Selection) String() string {
	var sb strings.Builder
	sb.WriteString(s.Impl.String())
	if len(s.Obligations) > 0 {
		sb.WriteString(" where ")
		for i, o := range s.Obligations {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(o.Predicate.String())
		}
	}
	return sb.String()
}
