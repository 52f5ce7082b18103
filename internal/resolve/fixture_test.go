package resolve

import (
	"testing"

	"traitres/internal/cache"
	"traitres/internal/index"
	"traitres/internal/types"
	"traitres/internal/world"
)

const appWorld = `
[[trait]]
name = "Foo"

[[trait]]
name = "Bar"

[[trait]]
name = "Deep"

[[struct]]
name = "Point"
derive = ["Clone", "PartialEq"]

[[struct]]
name = "Pixel"
derive = ["Clone", "Copy"]

[[struct]]
name = "Meters"

[[struct]]
name = "Opaque"

[[struct]]
name = "Wrapper"
params = ["T"]

[[impl]]
params = ["T"]
trait = "Foo"
for = "Vec<T>"

[[impl]]
trait = "Bar"
for = "i32"

[[impl]]
trait = "Bar"
for = "u32"

[[impl]]
trait = "PartialEq"
for = "Meters"

[[impl]]
trait = "PartialEq<i32>"
for = "Meters"

[[impl]]
params = ["T"]
trait = "Deep"
for = "T"
where = ["Wrapper<T>: Deep"]
`

type fixture struct {
	t       *testing.T
	project *index.Project
	caches  *Caches
}

func newFixture(t *testing.T, extra ...string) *fixture {
	t.Helper()
	sources := append([]string{appWorld}, extra...)
	p, err := world.ParseWithStd("app", sources...)
	if err != nil {
		t.Fatalf("ParseWithStd: %v", err)
	}
	return &fixture{t: t, project: p, caches: NewCaches(cache.NewService())}
}

func (f *fixture) lookup(opts ...Option) *ImplLookup {
	return New(f.project, f.caches, opts...)
}

func (f *fixture) query(params ...string) *world.Query {
	f.t.Helper()
	q, err := world.NewQuery(f.project, params...)
	if err != nil {
		f.t.Fatalf("NewQuery: %v", err)
	}
	return q
}

func (f *fixture) ty(src string) types.Ty {
	f.t.Helper()
	ty, err := world.ParseType(f.project, src)
	if err != nil {
		f.t.Fatalf("ParseType(%q): %v", src, err)
	}
	return ty
}

func (f *fixture) ref(src string) types.TraitRef {
	f.t.Helper()
	ref, err := world.ParseTraitRef(f.project, src)
	if err != nil {
		f.t.Fatalf("ParseTraitRef(%q): %v", src, err)
	}
	return ref
}

func (f *fixture) trait(name string) *types.TraitItem {
	f.t.Helper()
	t := f.project.TraitByName(name)
	if t == nil {
		f.t.Fatalf("trait %s not declared", name)
	}
	return t
}
