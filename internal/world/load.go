// Package world builds an index.Project from declarative TOML files and
// parses type expressions against it.
//
// Declarations are processed in two phases: every trait and type is declared
// first, then bodies (bounds, supertraits, impls) are resolved, so files may
// reference each other in any order. Parameter bounds are parsed lazily and
// forced when the project is sealed.
package world

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"traitres/internal/index"
	"traitres/internal/types"
)

type builder struct {
	p     *index.Project
	crate string
	errs  []error
}

func (b *builder) fail(err error) { b.errs = append(b.errs, err) }

func (b *builder) trait(name string) *types.TraitItem {
	if strings.Contains(name, "::") {
		return b.p.TraitByPath(name)
	}
	return b.p.TraitByName(name)
}

func (b *builder) adt(name string) *types.AdtItem {
	if strings.Contains(name, "::") {
		return b.p.AdtByPath(name)
	}
	return b.p.AdtByName(name)
}

func (b *builder) itemPath(name, path string) string {
	if path != "" {
		return path
	}
	return b.crate + "::" + name
}

// Load reads declaration files and returns the sealed project.
func Load(name string, paths ...string) (*index.Project, error) {
	var all File
	for _, path := range paths {
		if err := decodeFile(&all, path); err != nil {
			return nil, err
		}
	}
	return Build(name, all)
}

// Parse is Load over in-memory TOML sources.
func Parse(name string, sources ...string) (*index.Project, error) {
	var all File
	for i, src := range sources {
		if err := decodeSource(&all, fmt.Sprintf("source %d", i), src); err != nil {
			return nil, err
		}
	}
	return Build(name, all)
}

func decodeFile(into *File, path string) error {
	var f File
	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if err := checkUndecoded(meta); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	into.merge(f)
	return nil
}

func decodeSource(into *File, label, src string) error {
	var f File
	meta, err := toml.Decode(src, &f)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", label, err)
	}
	if err := checkUndecoded(meta); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	into.merge(f)
	return nil
}

func checkUndecoded(meta toml.MetaData) error {
	keys := meta.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("unknown keys: %s", strings.Join(names, ", "))
}

type declaredTrait struct {
	item   *types.TraitItem
	decl   TraitDecl
	params pendingParams
	assoc  []string // default source per AssocTypes entry
	sc     *scope
}

type declaredAdt struct {
	item   *types.AdtItem
	decl   AdtDecl
	params pendingParams
}

// Build declares everything in f in a new project named name and seals it.
// Items without an explicit path live under name.
func Build(name string, f File) (*index.Project, error) {
	b := &builder{p: index.NewProject(name), crate: name}

	var traits []*declaredTrait
	for _, d := range f.Traits {
		if t := b.declareTrait(d); t != nil {
			traits = append(traits, t)
		}
	}
	var adts []*declaredAdt
	for _, d := range f.Structs {
		if a := b.declareAdt(d, false); a != nil {
			adts = append(adts, a)
		}
	}
	for _, d := range f.Enums {
		if a := b.declareAdt(d, true); a != nil {
			adts = append(adts, a)
		}
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	for _, t := range traits {
		b.defineTrait(t)
	}
	// Associated type defaults may name supertrait types, so they wait until
	// every supertrait list is known.
	for _, t := range traits {
		b.defineAssocDefaults(t)
	}
	for _, a := range adts {
		b.defineAdt(a)
	}
	for i, d := range f.Impls {
		b.declareImpl(i, d)
	}

	if err := b.p.Seal(); err != nil {
		b.fail(err)
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return b.p, nil
}

type pendingParams struct {
	decls []*types.TypeParamDecl
	srcs  []paramDecl
}

func (pp pendingParams) byName() map[string]*types.TypeParamDecl {
	out := make(map[string]*types.TypeParamDecl, len(pp.decls))
	for _, d := range pp.decls {
		out[d.Name] = d
	}
	return out
}

func (b *builder) declareParams(owner string, srcs []string) pendingParams {
	var pp pendingParams
	seen := make(map[string]struct{}, len(srcs))
	for _, src := range srcs {
		pd, err := splitParamDecl(src)
		if err != nil {
			b.fail(fmt.Errorf("%s: %w", owner, err))
			continue
		}
		if _, dup := seen[pd.name]; dup {
			b.fail(fmt.Errorf("%s: duplicate type parameter %s", owner, pd.name))
			continue
		}
		seen[pd.name] = struct{}{}
		pp.decls = append(pp.decls, b.p.NewTypeParam(pd.name, nil))
		pp.srcs = append(pp.srcs, pd)
	}
	return pp
}

// defineParams parses defaults now and installs lazy bound suppliers.
func (b *builder) defineParams(owner string, pp pendingParams, sc *scope) {
	for i, d := range pp.decls {
		src := pp.srcs[i]
		if src.def != "" {
			def, err := parseTypeIn(sc, src.def)
			if err != nil {
				b.fail(fmt.Errorf("%s: default of %s: %w", owner, d.Name, err))
			} else {
				d.Default = def
			}
		}
		if src.bounds == "" {
			continue
		}
		d.SetBoundsSupplier(func() []types.BoundElement {
			bs, err := parseBoundsIn(sc, src.bounds)
			if err != nil {
				b.fail(fmt.Errorf("%s: bounds of %s: %w", owner, d.Name, err))
				return nil
			}
			self := types.NamedParam(d)
			for k := range bs {
				bs[k] = bs[k].WithDefaults(self)
			}
			return bs
		})
	}
}

func (b *builder) declareTrait(d TraitDecl) *declaredTrait {
	if d.Name == "" {
		b.fail(errors.New("trait without a name"))
		return nil
	}
	t := &types.TraitItem{
		ID:       b.p.NewItemID(),
		Name:     d.Name,
		Path:     b.itemPath(d.Name, d.Path),
		LangItem: d.Lang,
	}
	out := &declaredTrait{item: t, decl: d, params: b.declareParams("trait "+d.Name, d.Params)}
	t.TypeParams = out.params.decls
	for _, src := range d.Assoc {
		name, def, _ := strings.Cut(src, "=")
		name = strings.TrimSpace(name)
		if t.FindAssociatedType(name) != nil {
			b.fail(fmt.Errorf("trait %s: duplicate associated type %s", d.Name, name))
			continue
		}
		t.AssocTypes = append(t.AssocTypes, &types.TypeAlias{ID: b.p.NewItemID(), Name: name, Trait: t})
		out.assoc = append(out.assoc, strings.TrimSpace(def))
	}
	if err := b.p.AddTrait(t); err != nil {
		b.fail(err)
		return nil
	}
	return out
}

func (b *builder) defineTrait(t *declaredTrait) {
	owner := "trait " + t.item.Name
	t.sc = &scope{b: b, params: t.params.byName(), self: types.SelfParamOf(t.item), owner: t.item}
	b.defineParams(owner, t.params, t.sc)
	for _, src := range t.decl.Super {
		bs, err := parseBoundsIn(t.sc, src)
		if err != nil {
			b.fail(fmt.Errorf("%s: supertrait: %w", owner, err))
			continue
		}
		for _, bound := range bs {
			t.item.SuperTraits = append(t.item.SuperTraits, bound.WithDefaults(t.sc.self))
		}
	}
}

func (b *builder) defineAssocDefaults(t *declaredTrait) {
	for i, src := range t.assoc {
		if src == "" {
			continue
		}
		alias := t.item.AssocTypes[i]
		ty, err := parseTypeIn(t.sc, src)
		if err != nil {
			b.fail(fmt.Errorf("trait %s: default of %s: %w", t.item.Name, alias.Name, err))
			continue
		}
		alias.Type = ty
	}
}

func (b *builder) declareAdt(d AdtDecl, enum bool) *declaredAdt {
	kind := "struct"
	if enum {
		kind = "enum"
	}
	if d.Name == "" {
		b.fail(fmt.Errorf("%s without a name", kind))
		return nil
	}
	a := &types.AdtItem{
		ID:   b.p.NewItemID(),
		Name: d.Name,
		Path: b.itemPath(d.Name, d.Path),
		Enum: enum,
	}
	out := &declaredAdt{item: a, decl: d, params: b.declareParams(kind+" "+d.Name, d.Params)}
	a.TypeParams = out.params.decls
	if err := b.p.AddAdt(a); err != nil {
		b.fail(err)
		return nil
	}
	return out
}

func (b *builder) defineAdt(a *declaredAdt) {
	owner := a.item.Name
	b.defineParams(owner, a.params, &scope{b: b, params: a.params.byName()})
	for _, name := range a.decl.Derive {
		trait := b.trait(strings.TrimSpace(name))
		if trait == nil {
			b.fail(fmt.Errorf("%s: derive of unknown trait %s", owner, name))
			continue
		}
		a.item.Derives = append(a.item.Derives, trait)
	}
}

func (b *builder) declareImpl(i int, d ImplDecl) {
	owner := fmt.Sprintf("impl #%d", i+1)
	pp := b.declareParams(owner, d.Params)
	impl := &types.ImplItem{ID: b.p.NewItemID(), TypeParams: pp.decls}
	// Bounds are parsed lazily and see self and owner once they are set.
	sc := &scope{b: b, params: pp.byName()}
	b.defineParams(owner, pp, sc)

	selfTy, err := parseTypeIn(sc, d.For)
	if err != nil {
		b.fail(fmt.Errorf("%s: self type: %w", owner, err))
		return
	}
	impl.SelfTy = selfTy
	sc.self = selfTy

	if d.Trait != "" {
		bs, err := parseBoundsIn(sc, d.Trait)
		switch {
		case err != nil:
			b.fail(fmt.Errorf("%s: trait: %w", owner, err))
			return
		case len(bs) != 1:
			b.fail(fmt.Errorf("%s: expected a single trait, got %q", owner, d.Trait))
			return
		}
		impl.Trait = &bs[0]
		sc.owner = bs[0].Trait
		owner += " (" + impl.String() + ")"
	}

	names := make([]string, 0, len(d.Assoc))
	for name := range d.Assoc {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if impl.Trait == nil {
			b.fail(fmt.Errorf("%s: associated type %s in an inherent impl", owner, name))
			continue
		}
		decl := impl.Trait.Trait.FindAssociatedType(name)
		if decl == nil {
			b.fail(fmt.Errorf("%s: trait %s has no associated type %s", owner, impl.Trait.Trait.Name, name))
			continue
		}
		ty, err := parseTypeIn(sc, d.Assoc[name])
		if err != nil {
			b.fail(fmt.Errorf("%s: type %s: %w", owner, name, err))
			continue
		}
		impl.AssocTypes = append(impl.AssocTypes, &types.TypeAlias{
			ID:    b.p.NewItemID(),
			Name:  name,
			Trait: decl.Trait,
			Type:  ty,
		})
	}
	for _, src := range d.Where {
		refs, err := parsePredicatesIn(sc, src)
		if err != nil {
			b.fail(fmt.Errorf("%s: where clause: %w", owner, err))
			continue
		}
		impl.Where = append(impl.Where, refs...)
	}
	if err := b.p.AddImpl(impl); err != nil {
		b.fail(err)
	}
}

// Query parses types and bounds against a sealed project. Type parameters
// declared for a query are shared by every expression it parses.
type Query struct {
	sc *scope
}

// NewQuery declares params, written as `Name [: Bounds]`, for later
// expressions. Bounds are resolved eagerly.
func NewQuery(p *index.Project, params ...string) (*Query, error) {
	b := &builder{p: p, crate: p.Name()}
	pp := b.declareParams("query", params)
	sc := &scope{b: b, params: pp.byName(), infer: true}
	b.defineParams("query", pp, sc)
	for _, d := range pp.decls {
		d.Bounds()
	}
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return &Query{sc: sc}, nil
}

// Param returns the query parameter called name.
func (q *Query) Param(name string) (types.TypeParameter, bool) {
	d, ok := q.sc.params[name]
	if !ok {
		return types.TypeParameter{}, false
	}
	return types.NamedParam(d), true
}

// Type parses a type expression. `_`, {integer} and {float} create fresh
// inference variables.
func (q *Query) Type(src string) (types.Ty, error) {
	return parseTypeIn(q.sc, src)
}

// Bound parses a single trait bound such as Iterator<Item = u8>.
func (q *Query) Bound(src string) (types.BoundElement, error) {
	bs, err := parseBoundsIn(q.sc, src)
	if err != nil {
		return types.BoundElement{}, err
	}
	if len(bs) != 1 {
		return types.BoundElement{}, fmt.Errorf("%q: expected a single trait bound", src)
	}
	return bs[0], nil
}

// Trait resolves a trait by name or path.
func (q *Query) Trait(name string) (*types.TraitItem, error) {
	t := q.sc.b.trait(name)
	if t == nil {
		return nil, fmt.Errorf("unknown trait %s", name)
	}
	return t, nil
}

// TraitRef parses `Type: Trait<...>`. Trait parameters left out take their
// declared defaults.
func (q *Query) TraitRef(src string) (types.TraitRef, error) {
	refs, err := parsePredicatesIn(q.sc, src)
	if err != nil {
		return types.TraitRef{}, err
	}
	if len(refs) != 1 {
		return types.TraitRef{}, fmt.Errorf("%q: expected a single trait bound", src)
	}
	return refs[0], nil
}

// ParseType parses a type expression with no query parameters.
func ParseType(p *index.Project, src string) (types.Ty, error) {
	q, err := NewQuery(p)
	if err != nil {
		return nil, err
	}
	return q.Type(src)
}

// ParseTraitRef parses `Type: Trait` with no query parameters.
func ParseTraitRef(p *index.Project, src string) (types.TraitRef, error) {
	q, err := NewQuery(p)
	if err != nil {
		return types.TraitRef{}, err
	}
	return q.TraitRef(src)
}
