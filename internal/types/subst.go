package types

import (
	"cmp"
	"slices"
)

// ParamKey is the comparable identity of a TypeParameter.
type ParamKey struct {
	Param  ParamKind
	Decl   *TypeParamDecl
	Target *TypeAlias
	Base   string
}

// Key returns the identity used for substitution lookups and equality.
func (p TypeParameter) Key() ParamKey {
	k := ParamKey{Param: p.Param}
	switch p.Param {
	case ParamNamed:
		k.Decl = p.Decl
	case ParamAssociated:
		k.Target = p.Target
		if p.Base != nil {
			k.Base = Key(p.Base)
		}
	}
	return k
}

// SubstEntry is one parameter binding.
type SubstEntry struct {
	Param TypeParameter
	Ty    Ty
}

// Substitution maps type parameters to types. The zero value is an empty
// substitution; mutating helpers return copies.
type Substitution map[ParamKey]SubstEntry

// EmptySubst is the empty substitution.
var EmptySubst = Substitution{}

// SubstOf builds a substitution from pairs.
func SubstOf(entries ...SubstEntry) Substitution {
	s := make(Substitution, len(entries))
	for _, e := range entries {
		s.set(e.Param, e.Ty)
	}
	return s
}

func (s Substitution) set(p TypeParameter, ty Ty) {
	s[p.Key()] = SubstEntry{Param: p, Ty: ty}
}

// Get returns the binding for p.
func (s Substitution) Get(p TypeParameter) (Ty, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s[p.Key()]
	if !ok {
		return nil, false
	}
	return e.Ty, true
}

// With returns a copy of s with p bound to ty.
func (s Substitution) With(p TypeParameter, ty Ty) Substitution {
	out := s.clone(1)
	out.set(p, ty)
	return out
}

// Plus returns a copy of s extended (and overridden) by other.
func (s Substitution) Plus(other Substitution) Substitution {
	out := s.clone(len(other))
	for k, e := range other {
		out[k] = e
	}
	return out
}

// SubstituteInValues applies other to every bound value of s.
func (s Substitution) SubstituteInValues(other Substitution) Substitution {
	out := make(Substitution, len(s))
	for k, e := range s {
		out[k] = SubstEntry{Param: e.Param, Ty: Substitute(e.Ty, other)}
	}
	return out
}

// MapValues returns a copy of s with fn applied to each entry.
func (s Substitution) MapValues(fn func(SubstEntry) Ty) Substitution {
	out := make(Substitution, len(s))
	for k, e := range s {
		out[k] = SubstEntry{Param: e.Param, Ty: fn(e)}
	}
	return out
}

// Entries returns bindings in a deterministic order.
func (s Substitution) Entries() []SubstEntry {
	out := make([]SubstEntry, 0, len(s))
	for _, e := range s {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b SubstEntry) int {
		return compareParams(a.Param, b.Param)
	})
	return out
}

func (s Substitution) clone(extra int) Substitution {
	out := make(Substitution, len(s)+extra)
	for k, e := range s {
		out[k] = e
	}
	return out
}

func compareParams(a, b TypeParameter) int {
	if c := cmp.Compare(a.Param, b.Param); c != 0 {
		return c
	}
	switch a.Param {
	case ParamNamed:
		if c := cmp.Compare(declID(a.Decl), declID(b.Decl)); c != 0 {
			return c
		}
	case ParamAssociated:
		if c := cmp.Compare(aliasID(a.Target), aliasID(b.Target)); c != 0 {
			return c
		}
		if a.Base != nil && b.Base != nil {
			if c := cmp.Compare(Key(a.Base), Key(b.Base)); c != 0 {
				return c
			}
		}
	}
	return cmp.Compare(a.Name(), b.Name())
}

func declID(d *TypeParamDecl) ItemID {
	if d == nil {
		return 0
	}
	return d.ID
}

func aliasID(a *TypeAlias) ItemID {
	if a == nil {
		return 0
	}
	return a.ID
}

// EqualSubst reports whether two substitutions bind the same parameters to
// structurally equal types.
func EqualSubst(a, b Substitution) bool {
	if len(a) != len(b) {
		return false
	}
	for k, ea := range a {
		eb, ok := b[k]
		if !ok || !Equal(ea.Ty, eb.Ty) {
			return false
		}
	}
	return true
}
