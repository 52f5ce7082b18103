// Package index is the in-memory declaration index of a project: impls by
// self-type shape, well-known (lang) items, derivable traits and core items
// by path.
//
// A Project is built single-threaded and then sealed. After Seal it is
// read-only and may be queried from many goroutines.
package index

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"

	"fortio.org/safecast"

	"traitres/internal/cache"
	"traitres/internal/project"
	"traitres/internal/types"
)

var projectSeq atomic.Uint64

// stdCrates are the crates whose derivable traits are trusted.
var stdCrates = []string{"core", "std", "alloc"}

// Project holds every declaration visible to trait resolution.
type Project struct {
	id   cache.ProjectID
	name string

	traits []*types.TraitItem
	adts   []*types.AdtItem
	impls  []*types.ImplItem

	langItems map[string]*types.TraitItem
	traitPath map[string]*types.TraitItem
	adtPath   map[string]*types.AdtItem

	byShape map[shape][]*types.ImplItem
	blanket []*types.ImplItem

	nextID atomic.Uint64
	sealed bool
	digest project.Digest
}

// NewProject creates an empty, unsealed project.
func NewProject(name string) *Project {
	return &Project{
		id:        cache.ProjectID(projectSeq.Add(1)),
		name:      name,
		langItems: make(map[string]*types.TraitItem),
		traitPath: make(map[string]*types.TraitItem),
		adtPath:   make(map[string]*types.AdtItem),
		byShape:   make(map[shape][]*types.ImplItem),
	}
}

// ID returns the handle that scopes cache entries.
func (p *Project) ID() cache.ProjectID { return p.id }

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// NewItemID allocates a declaration id. It is safe for concurrent use so
// that queries may declare parameters on a sealed project.
func (p *Project) NewItemID() types.ItemID {
	id, err := safecast.Conv[uint32](p.nextID.Add(1))
	if err != nil {
		panic(fmt.Errorf("item id overflow: %w", err))
	}
	return types.ItemID(id)
}

// NewTypeParam declares a generic parameter with lazily supplied bounds.
func (p *Project) NewTypeParam(name string, bounds func() []types.BoundElement) *types.TypeParamDecl {
	return types.NewTypeParamDecl(p.NewItemID(), name, bounds)
}

func (p *Project) mustBeOpen() {
	if p.sealed {
		panic(fmt.Sprintf("index: project %q is sealed", p.name))
	}
}

// AddTrait registers a trait. Lang items and paths must be unique.
func (p *Project) AddTrait(t *types.TraitItem) error {
	p.mustBeOpen()
	if t.LangItem != "" {
		if prev, ok := p.langItems[t.LangItem]; ok {
			return fmt.Errorf("lang item %q declared by both %s and %s", t.LangItem, prev.Path, t.Path)
		}
		p.langItems[t.LangItem] = t
	}
	if t.Path != "" {
		if _, ok := p.traitPath[t.Path]; ok {
			return fmt.Errorf("duplicate trait path %q", t.Path)
		}
		p.traitPath[t.Path] = t
	}
	p.traits = append(p.traits, t)
	return nil
}

// AddAdt registers a struct or enum.
func (p *Project) AddAdt(a *types.AdtItem) error {
	p.mustBeOpen()
	if a.Path != "" {
		if _, ok := p.adtPath[a.Path]; ok {
			return fmt.Errorf("duplicate type path %q", a.Path)
		}
		p.adtPath[a.Path] = a
	}
	p.adts = append(p.adts, a)
	return nil
}

// AddImpl registers an impl block.
func (p *Project) AddImpl(impl *types.ImplItem) error {
	p.mustBeOpen()
	if impl.SelfTy == nil {
		return fmt.Errorf("impl #%d has no self type", impl.ID)
	}
	p.impls = append(p.impls, impl)
	return nil
}

// Seal builds the impl index, forces every lazily computed bound and
// computes the source-state digest. The project is read-only afterwards.
func (p *Project) Seal() error {
	if p.sealed {
		return nil
	}
	for _, impl := range p.impls {
		if s, ok := implShape(impl); ok {
			p.byShape[s] = append(p.byShape[s], impl)
		} else {
			p.blanket = append(p.blanket, impl)
		}
		for _, d := range impl.TypeParams {
			d.Bounds()
		}
	}
	for _, t := range p.traits {
		for _, d := range t.TypeParams {
			d.Bounds()
		}
	}
	for _, a := range p.adts {
		for _, d := range a.TypeParams {
			d.Bounds()
		}
	}
	digest, err := computeDigest(p)
	if err != nil {
		return fmt.Errorf("project %q: %w", p.name, err)
	}
	p.digest = digest
	p.sealed = true
	return nil
}

// Sealed reports whether Seal succeeded.
func (p *Project) Sealed() bool { return p.sealed }

// Digest returns the source-state digest computed by Seal.
func (p *Project) Digest() project.Digest { return p.digest }

// Traits returns every declared trait in declaration order.
func (p *Project) Traits() []*types.TraitItem { return p.traits }

// Adts returns every declared struct and enum in declaration order.
func (p *Project) Adts() []*types.AdtItem { return p.adts }

// Impls returns every impl in declaration order.
func (p *Project) Impls() []*types.ImplItem { return p.impls }

// TraitByName returns the first trait called name.
func (p *Project) TraitByName(name string) *types.TraitItem {
	for _, t := range p.traits {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// AdtByName returns the first struct or enum called name.
func (p *Project) AdtByName(name string) *types.AdtItem {
	for _, a := range p.adts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// TraitByPath returns the trait with the fully qualified path.
func (p *Project) TraitByPath(path string) *types.TraitItem { return p.traitPath[path] }

// AdtByPath returns the struct or enum with the fully qualified path.
func (p *Project) AdtByPath(path string) *types.AdtItem { return p.adtPath[path] }

// FindLangItem returns the trait carrying the lang attribute name. When
// module is non-empty the trait must be declared in a module of that name.
func (p *Project) FindLangItem(name, module string) *types.TraitItem {
	t, ok := p.langItems[name]
	if !ok {
		return nil
	}
	if module != "" && t.ModName() != module {
		return nil
	}
	return t
}

// FindDerivableTraits returns standard-library traits called name.
func (p *Project) FindDerivableTraits(name string) []*types.TraitItem {
	var out []*types.TraitItem
	for _, t := range p.traits {
		if t.Name == name && slices.Contains(stdCrates, t.Crate()) {
			out = append(out, t)
		}
	}
	return out
}

// FindCoreTrait resolves a path relative to core (or std), e.g.
// "iter::IntoIterator".
func (p *Project) FindCoreTrait(path string) *types.TraitItem {
	for _, crate := range stdCrates {
		if t, ok := p.traitPath[crate+"::"+path]; ok {
			return t
		}
	}
	return nil
}

// FindCoreAdt resolves a struct or enum path relative to core (or std).
func (p *Project) FindCoreAdt(path string) *types.AdtItem {
	for _, crate := range stdCrates {
		if a, ok := p.adtPath[crate+"::"+path]; ok {
			return a
		}
	}
	return nil
}

// FindPotentialImpls returns impls whose self type may match selfTy. The
// result can overmatch; callers filter by unification. Order is declaration
// order.
func (p *Project) FindPotentialImpls(selfTy types.Ty) []*types.ImplItem {
	switch selfTy.(type) {
	case types.Unknown, nil:
		return nil
	case types.Infer:
		return p.impls
	case types.TypeParameter:
		return p.blanket
	}
	s, ok := shapeOf(selfTy)
	if !ok {
		return p.impls
	}
	exact := p.byShape[s]
	if len(p.blanket) == 0 {
		return exact
	}
	out := make([]*types.ImplItem, 0, len(exact)+len(p.blanket))
	out = append(out, exact...)
	out = append(out, p.blanket...)
	slices.SortFunc(out, func(a, b *types.ImplItem) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
