package index

import (
	"testing"

	"traitres/internal/types"
)

func newTestProject(t *testing.T) (*Project, *types.TraitItem, *types.AdtItem) {
	t.Helper()
	p := NewProject("test")
	clone := &types.TraitItem{ID: p.NewItemID(), Name: "Clone", Path: "core::clone::Clone", LangItem: "clone"}
	if err := p.AddTrait(clone); err != nil {
		t.Fatalf("AddTrait: %v", err)
	}
	vecT := p.NewTypeParam("T", nil)
	vec := &types.AdtItem{ID: p.NewItemID(), Name: "Vec", Path: "alloc::vec::Vec", TypeParams: []*types.TypeParamDecl{vecT}}
	if err := p.AddAdt(vec); err != nil {
		t.Fatalf("AddAdt: %v", err)
	}
	return p, clone, vec
}

func TestFindPotentialImpls(t *testing.T) {
	p, clone, vec := newTestProject(t)
	bound := types.NewBound(clone)

	implI32 := &types.ImplItem{ID: p.NewItemID(), SelfTy: types.I32, Trait: &bound}
	implT := p.NewTypeParam("T", nil)
	implVec := &types.ImplItem{
		ID:         p.NewItemID(),
		TypeParams: []*types.TypeParamDecl{implT},
		SelfTy:     types.NewAdt(vec, types.NamedParam(implT)),
		Trait:      &bound,
	}
	blanketT := p.NewTypeParam("U", nil)
	implBlanket := &types.ImplItem{
		ID:         p.NewItemID(),
		TypeParams: []*types.TypeParamDecl{blanketT},
		SelfTy:     types.NamedParam(blanketT),
		Trait:      &bound,
	}
	for _, impl := range []*types.ImplItem{implI32, implVec, implBlanket} {
		if err := p.AddImpl(impl); err != nil {
			t.Fatalf("AddImpl: %v", err)
		}
	}
	if err := p.Seal(); err != nil {
		t.Fatalf("Seal: %v", err)
	}

	tests := []struct {
		name string
		self types.Ty
		want []*types.ImplItem
	}{
		{"Primitive", types.I32, []*types.ImplItem{implI32, implBlanket}},
		{"OtherPrimitive", types.U8, []*types.ImplItem{implBlanket}},
		{"Adt", types.NewAdt(vec, types.Bool), []*types.ImplItem{implVec, implBlanket}},
		{"Infer", types.NewTyVar(), []*types.ImplItem{implI32, implVec, implBlanket}},
		{"TypeParameter", types.NamedParam(p.NewTypeParam("X", nil)), []*types.ImplItem{implBlanket}},
		{"Unknown", types.Unknown{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.FindPotentialImpls(tt.self)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d impls, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("impl %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLangItemsAndCorePaths(t *testing.T) {
	p, clone, vec := newTestProject(t)
	dup := &types.TraitItem{ID: p.NewItemID(), Name: "Clone2", Path: "core::clone::Clone2", LangItem: "clone"}
	if err := p.AddTrait(dup); err == nil {
		t.Fatalf("expected duplicate lang item error")
	}
	if got := p.FindLangItem("clone", ""); got != clone {
		t.Fatalf("FindLangItem: got %v", got)
	}
	if got := p.FindLangItem("clone", "clone"); got != clone {
		t.Fatalf("FindLangItem with module: got %v", got)
	}
	if got := p.FindLangItem("clone", "marker"); got != nil {
		t.Fatalf("FindLangItem with wrong module: got %v", got)
	}
	if got := p.FindDerivableTraits("Clone"); len(got) != 1 || got[0] != clone {
		t.Fatalf("FindDerivableTraits: got %v", got)
	}
	if got := p.FindCoreAdt("vec::Vec"); got != vec {
		t.Fatalf("FindCoreAdt: got %v", got)
	}
	if got := p.FindCoreTrait("clone::Clone"); got != clone {
		t.Fatalf("FindCoreTrait: got %v", got)
	}
}

func TestDigestTracksDeclarations(t *testing.T) {
	build := func(withImpl bool) *Project {
		p, clone, _ := newTestProject(t)
		if withImpl {
			bound := types.NewBound(clone)
			if err := p.AddImpl(&types.ImplItem{ID: p.NewItemID(), SelfTy: types.Bool, Trait: &bound}); err != nil {
				t.Fatalf("AddImpl: %v", err)
			}
		}
		if err := p.Seal(); err != nil {
			t.Fatalf("Seal: %v", err)
		}
		return p
	}
	a, b, c := build(false), build(false), build(true)
	if a.Digest().IsZero() {
		t.Fatalf("digest not computed")
	}
	if a.Digest() != b.Digest() {
		t.Fatalf("identical declarations produced different digests")
	}
	if a.Digest() == c.Digest() {
		t.Fatalf("added impl did not change the digest")
	}
	if a.ID() == b.ID() {
		t.Fatalf("projects share an id")
	}
}

func TestSealForcesSelfReferentialBounds(t *testing.T) {
	p := NewProject("cyclic")
	trait := &types.TraitItem{ID: p.NewItemID(), Name: "Foo", Path: "app::Foo"}
	if err := p.AddTrait(trait); err != nil {
		t.Fatalf("AddTrait: %v", err)
	}
	var decl *types.TypeParamDecl
	decl = p.NewTypeParam("T", func() []types.BoundElement {
		// Re-entrant access during computation sees no bounds.
		if len(decl.Bounds()) != 0 {
			t.Errorf("re-entrant Bounds returned a non-empty set")
		}
		return []types.BoundElement{trait.WithSubst()}
	})
	bound := types.NewBound(trait)
	impl := &types.ImplItem{ID: p.NewItemID(), TypeParams: []*types.TypeParamDecl{decl}, SelfTy: types.NamedParam(decl), Trait: &bound}
	if err := p.AddImpl(impl); err != nil {
		t.Fatalf("AddImpl: %v", err)
	}
	if err := p.Seal(); err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if got := len(decl.Bounds()); got != 1 {
		t.Fatalf("got %d bounds, want 1", got)
	}
}
