package resolve

import (
	"testing"

	"traitres/internal/infer"
)

func TestSharedContextKeepsFirstProjector(t *testing.T) {
	f := newFixture(t)
	ctx := infer.NewContext()
	first := f.lookup(WithContext(ctx))
	second := f.lookup(WithContext(ctx))
	if second.Context() != ctx {
		t.Fatalf("attached context was replaced")
	}
	first.Context()
	second.Context()
	if got := ctx.Projector(); got != infer.Projector(first) {
		t.Fatalf("projector = %p, want the first lookup", got)
	}

	own := f.lookup()
	if got := own.Context().Projector(); got != infer.Projector(own) {
		t.Fatalf("private context projector = %p", got)
	}
}
