package resolve

import (
	"slices"

	"traitres/internal/types"
)

// StdDerivableTrait enumerates the standard traits a derive annotation can
// produce without macro expansion.
type StdDerivableTrait uint8

const (
	DeriveClone StdDerivableTrait = iota + 1
	DeriveCopy
	DeriveDebug
	DeriveDefault
	DeriveHash
	DerivePartialEq
	DeriveEq
	DerivePartialOrd
	DeriveOrd
)

type derivableInfo struct {
	name string
	mod  string
	deps []StdDerivableTrait
}

var stdDerivable = [...]derivableInfo{
	DeriveClone:      {name: "Clone", mod: "clone"},
	DeriveCopy:       {name: "Copy", mod: "marker", deps: []StdDerivableTrait{DeriveClone}},
	DeriveDebug:      {name: "Debug", mod: "fmt"},
	DeriveDefault:    {name: "Default", mod: "default"},
	DeriveHash:       {name: "Hash", mod: "hash"},
	DerivePartialEq:  {name: "PartialEq", mod: "cmp"},
	DeriveEq:         {name: "Eq", mod: "cmp", deps: []StdDerivableTrait{DerivePartialEq}},
	DerivePartialOrd: {name: "PartialOrd", mod: "cmp", deps: []StdDerivableTrait{DerivePartialEq}},
	DeriveOrd:        {name: "Ord", mod: "cmp", deps: []StdDerivableTrait{DerivePartialOrd, DeriveEq, DerivePartialEq}},
}

// StdDerivableTraitByName looks a derivable trait up by its simple name.
func StdDerivableTraitByName(name string) (StdDerivableTrait, bool) {
	for d := DeriveClone; d <= DeriveOrd; d++ {
		if stdDerivable[d].name == name {
			return d, true
		}
	}
	return 0, false
}

func (d StdDerivableTrait) valid() bool { return d >= DeriveClone && d <= DeriveOrd }

func (d StdDerivableTrait) String() string {
	if !d.valid() {
		return "?"
	}
	return stdDerivable[d].name
}

// ModName is the core module declaring the trait.
func (d StdDerivableTrait) ModName() string {
	if !d.valid() {
		return ""
	}
	return stdDerivable[d].mod
}

// Dependencies lists derivable traits that must be derived alongside d.
func (d StdDerivableTrait) Dependencies() []StdDerivableTrait {
	if !d.valid() {
		return nil
	}
	return slices.Clone(stdDerivable[d].deps)
}

// WithDependencies is d followed by its dependencies.
func (d StdDerivableTrait) WithDependencies() []StdDerivableTrait {
	return append([]StdDerivableTrait{d}, d.Dependencies()...)
}

var stdCrates = []string{"core", "std", "alloc"}

// IsStdDerivable reports whether t is a derivable trait declared by the
// standard library, in the module the derive expects.
func IsStdDerivable(t *types.TraitItem) bool {
	if t == nil {
		return false
	}
	d, ok := StdDerivableTraitByName(t.Name)
	if !ok {
		return false
	}
	return slices.Contains(stdCrates, t.Crate()) && t.ModName() == d.ModName()
}
