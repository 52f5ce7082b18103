package resolve

import (
	"strconv"

	"traitres/internal/infer"
	"traitres/internal/trace"
	"traitres/internal/types"
)

// Select finds the implementation satisfying ref.
//
// If ref is `T: Foo<U>`, Select looks for `impl Foo<U> for T`, a derive, a
// bound on T, a closure or a builtin impl. Exactly one candidate gives Ok;
// none gives Err; several give Ambiguous. Confirming an Ok candidate commits
// the unification of ref with the chosen impl into the lookup's context.
func (l *ImplLookup) Select(ref types.TraitRef, depth int) SelectionResult[Selection] {
	if depth > RecursionLimit {
		if l.tracing(trace.ScopeSelect) {
			l.point(trace.ScopeSelect, "recursion-limit", ref.String())
		}
		return ErrResult[Selection](ErrRecursionLimit)
	}
	ctx := l.Context()
	ref = ref.FoldWith(ctx.ResolveTypeVarsIfPossible)

	var ts tracedSpan
	if l.tracing(trace.ScopeSelect) {
		ts = l.begin(trace.ScopeSelect, "select")
		ts.span.WithExtra("ref", ref.String()).WithExtra("depth", strconv.Itoa(depth))
	}

	var candidate SelectionResult[Candidate]
	if cacheableRef(ref) {
		key := types.TraitRefKey(types.FreshenTraitRef(ref))
		candidate = l.caches.selection.GetOrPut(l.project.ID(), key, func() SelectionResult[Candidate] {
			return l.selectCandidate(ref)
		})
	} else {
		candidate = l.selectCandidate(ref)
	}
	res := MapResult(candidate, func(c Candidate) Selection {
		return l.confirmCandidate(ref, depth, c)
	})

	if ts.span != nil {
		l.end(ts, res.Kind().String())
	}
	return res
}

// cacheableRef reports whether the selection outcome depends only on the
// freshened ref. Self parameters carry their owner's bounds, which the key
// does not capture.
func cacheableRef(ref types.TraitRef) bool {
	if mentionsSelf(ref.SelfTy) {
		return false
	}
	for _, e := range ref.Trait.Subst {
		if mentionsSelf(e.Ty) {
			return false
		}
	}
	return true
}

func mentionsSelf(t types.Ty) bool {
	return types.Visit(t, func(t types.Ty) bool {
		p, ok := t.(types.TypeParameter)
		return ok && p.Param == types.ParamSelf
	})
}

func (l *ImplLookup) selectCandidate(ref types.TraitRef) SelectionResult[Candidate] {
	candidates := l.assembleCandidates(ref)
	switch len(candidates) {
	case 0:
		return ErrResult[Candidate](ErrNoImplementation)
	case 1:
		return OkResult(candidates[0])
	default:
		return AmbiguousResult[Candidate]()
	}
}

func (l *ImplLookup) assembleCandidates(ref types.TraitRef) []Candidate {
	var ts tracedSpan
	tracing := l.tracing(trace.ScopeCandidate)
	if tracing {
		ts = l.begin(trace.ScopeCandidate, "assemble")
	}

	var out []Candidate
	out = append(out, l.assembleImplCandidates(ref)...)
	out = append(out, l.assembleDerivedCandidates(ref)...)
	if _, ok := ref.SelfTy.(types.Function); ok && l.isFnTrait(ref.Trait.Trait) {
		out = append(out, ClosureCandidate{})
	}
	if bound, ok := findBound(boundsOf(ref.SelfTy), ref.Trait.Trait); ok {
		out = append(out, TypeParameterCandidate{Bound: bound})
	}
	if bound, ok := findBound(l.hardcodedImpls(ref.SelfTy), ref.Trait.Trait); ok {
		out = append(out, TypeParameterCandidate{Bound: bound, Hardcoded: true})
	}

	if tracing {
		for _, c := range out {
			l.point(trace.ScopeCandidate, "candidate", c.String())
		}
		l.end(ts, strconv.Itoa(len(out))+" candidates")
	}
	return out
}

// boundsOf returns the bounds a type parameter or trait object carries,
// supertraits included.
func boundsOf(t types.Ty) []types.BoundElement {
	switch tt := t.(type) {
	case types.TypeParameter:
		return tt.TraitBoundsTransitively()
	case types.TraitObject:
		return tt.Trait.FlattenHierarchy()
	}
	return nil
}

func findBound(bounds []types.BoundElement, trait *types.TraitItem) (types.BoundElement, bool) {
	for _, b := range bounds {
		if b.Trait == trait {
			return b, true
		}
	}
	return types.BoundElement{}, false
}

func (l *ImplLookup) assembleImplCandidates(ref types.TraitRef) []Candidate {
	ctx := l.Context()
	var out []Candidate
	for _, impl := range l.project.FindPotentialImpls(ref.SelfTy) {
		if impl.Trait == nil || impl.Trait.Trait != ref.Trait.Trait {
			continue
		}
		_, formal := l.instantiateImpl(impl, ref.SelfTy)
		if !ctx.Probe(func() bool { return ctx.CombineTraitRefs(formal, ref) }) {
			continue
		}
		out = append(out, ImplCandidate{Impl: impl})
	}
	return out
}

func (l *ImplLookup) assembleDerivedCandidates(ref types.TraitRef) []Candidate {
	adt, ok := ref.SelfTy.(types.Adt)
	if !ok || adt.Item == nil {
		return nil
	}
	var out []Candidate
	for _, trait := range adt.Item.Derives {
		if trait == ref.Trait.Trait && IsStdDerivable(trait) {
			out = append(out, DerivedTraitCandidate{Trait: trait})
		}
	}
	return out
}

// instantiateImpl replaces the impl's generics with fresh variables and
// returns the trait ref the impl provides. For `impl<A, B> Foo<A> for Bar<B>`
// subst maps A and B to variables and the ref is `Bar<?B>: Foo<?A>`. Trait
// parameters the impl leaves unspecified take their declared default, with
// Self standing for selfTy.
func (l *ImplLookup) instantiateImpl(impl *types.ImplItem, selfTy types.Ty) (types.Substitution, types.TraitRef) {
	ctx := l.Context()
	generics := impl.Generics()
	entries := make([]types.SubstEntry, len(generics))
	for i, g := range generics {
		entries[i] = types.SubstEntry{Param: g, Ty: ctx.TypeVarForParam(g)}
	}
	subst := types.SubstOf(entries...)

	formalSelf := types.Substitute(impl.SelfTy, subst)
	bound := impl.Trait.Substitute(subst)
	selfSubst := types.SubstOf(types.SubstEntry{Param: types.SelfParam(), Ty: selfTy})
	traitSubst := bound.Subst.MapValues(func(e types.SubstEntry) types.Ty {
		p, ok := e.Ty.(types.TypeParameter)
		if ok && p.Param == types.ParamNamed && p.Key() == e.Param.Key() && p.Decl.Default != nil {
			return types.Substitute(p.Decl.Default, subst)
		}
		return e.Ty
	}).SubstituteInValues(selfSubst)

	return subst, types.TraitRef{
		SelfTy: formalSelf,
		Trait:  types.BoundElement{Trait: bound.Trait, Subst: traitSubst},
	}
}

func (l *ImplLookup) confirmCandidate(ref types.TraitRef, depth int, c Candidate) Selection {
	ctx := l.Context()
	next := depth + 1
	switch c := c.(type) {
	case ImplCandidate:
		subst, formal := l.instantiateImpl(c.Impl, ref.SelfTy)
		ctx.CombineTraitRefs(ref, formal)
		subst = subst.With(types.SelfParam(), ref.SelfTy)
		var obligations []infer.Obligation
		for _, bound := range c.Impl.Bounds() {
			normalized := ctx.NormalizeTraitRef(bound.Substitute(subst), depth)
			obligations = append(obligations, normalized.Obligations...)
			obligations = append(obligations, infer.Obligation{
				Depth:     next,
				Predicate: infer.TraitPredicate{Ref: normalized.Value},
			})
		}
		return Selection{Impl: c.Impl, Obligations: obligations, Subst: subst}

	case DerivedTraitCandidate:
		return Selection{Impl: c.Trait, Subst: types.EmptySubst}

	case ClosureCandidate:
		fn := ref.SelfTy.(types.Function)
		var output types.Ty = types.Unit
		if param, ok := l.fnOutputParam(); ok {
			if ty, ok := ref.Trait.Subst.Get(param); ok {
				output = ty
			}
		}
		var ret types.Ty = types.Unit
		if fn.Ret != nil {
			ret = fn.Ret
		}
		var obligations []infer.Obligation
		if !types.Equal(output, ret) {
			obligations = append(obligations, infer.Obligation{
				Depth:     next,
				Predicate: infer.EquatePredicate{Ty1: output, Ty2: ret},
			})
		}
		return Selection{Impl: ref.Trait.Trait, Obligations: obligations, Subst: types.EmptySubst}

	case TypeParameterCandidate:
		bound := c.Bound
		if c.Hardcoded {
			if b, ok := findBound(l.hardcodedImpls(ref.SelfTy), ref.Trait.Trait); ok {
				bound = b
			}
		}
		return selectionForBound(bound, ref.Trait.Subst, next)
	}
	return Selection{Impl: ref.Trait.Trait, Subst: types.EmptySubst}
}

// selectionForBound treats bound as ground truth: every parameter the query
// binds that the bound also binds must be equal.
func selectionForBound(bound types.BoundElement, query types.Substitution, depth int) Selection {
	var obligations []infer.Obligation
	for _, e := range query.Entries() {
		if p, ok := e.Ty.(types.TypeParameter); ok && p.Key() == e.Param.Key() {
			// Unconstrained in the query.
			continue
		}
		if ty, ok := bound.Subst.Get(e.Param); ok {
			obligations = append(obligations, infer.Obligation{
				Depth:     depth,
				Predicate: infer.EquatePredicate{Ty1: e.Ty, Ty2: ty},
			})
		}
	}
	return Selection{Impl: bound.Trait, Obligations: obligations, Subst: types.EmptySubst}
}
