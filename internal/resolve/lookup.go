// Package resolve implements trait selection: given a type and a trait
// reference it finds the implementation that satisfies it, resolves
// associated types and answers derived questions (deref chains, operator
// output types, iterator item types, Copy, closures as function types).
//
// An ImplLookup is bound to one inference context and must be used from a
// single goroutine. Lookups for independent tasks may run in parallel as
// long as each has its own ImplLookup; they share only the Caches.
package resolve

import (
	"traitres/internal/cache"
	"traitres/internal/infer"
	"traitres/internal/trace"
	"traitres/internal/types"
)

// RecursionLimit bounds the depth of obligation chains.
const RecursionLimit = 64

// ImplLookup answers trait queries against one project.
type ImplLookup struct {
	project ProjectIndex
	items   StdKnownItems
	caches  *Caches
	ctx     *infer.Context

	tracer     trace.Tracer
	parentSpan uint64
	legacyIter bool

	primitiveImpls map[types.PrimKind][]types.BoundElement
	binOps         map[ArithmeticOp]*TraitAndOutput

	fnTraits     lazy[[]*types.TraitItem]
	fnOnceOutput lazy[*types.TypeAlias]
	copyTrait    lazy[*types.TraitItem]
	derefTarget  lazy[*TraitAndOutput]
	indexOutput  lazy[*TraitAndOutput]
	iteratorItem lazy[*TraitAndOutput]
	intoIterItem lazy[*TraitAndOutput]
}

// Option configures an ImplLookup.
type Option func(*ImplLookup)

// WithContext makes the lookup commit bindings into ctx instead of a private
// context. ctx normalizes projections through the first lookup attached to it.
func WithContext(ctx *infer.Context) Option {
	return func(l *ImplLookup) { l.ctx = ctx }
}

// WithTracer emits select/projection spans to t.
func WithTracer(t trace.Tracer) Option {
	return func(l *ImplLookup) {
		if t != nil {
			l.tracer = t
		}
	}
}

// WithLegacyIteratorLookup enables the name-based Iterator/IntoIterator
// fallback used when the project declares no iterator trait.
func WithLegacyIteratorLookup(enabled bool) Option {
	return func(l *ImplLookup) { l.legacyIter = enabled }
}

// New creates a lookup over project. A nil caches value gives the lookup
// private caches.
func New(project ProjectIndex, caches *Caches, opts ...Option) *ImplLookup {
	if caches == nil {
		caches = NewCaches(cache.NewService())
	}
	l := &ImplLookup{
		project:        project,
		items:          NewStdKnownItems(project),
		caches:         caches,
		tracer:         trace.Nop,
		legacyIter:     true,
		primitiveImpls: make(map[types.PrimKind][]types.BoundElement),
		binOps:         make(map[ArithmeticOp]*TraitAndOutput),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.ctx == nil {
		l.ctx = infer.NewContext()
	}
	// A shared context keeps the projector of the lookup that attached first.
	if l.ctx.Projector() == nil {
		l.ctx.SetProjector(l)
	}
	return l
}

// Context returns the inference context.
func (l *ImplLookup) Context() *infer.Context { return l.ctx }

// Items exposes the standard items the lookup resolved against.
func (l *ImplLookup) Items() StdKnownItems { return l.items }

type lazy[T any] struct {
	done  bool
	value T
}

func (z *lazy[T]) get(compute func() T) T {
	if !z.done {
		z.value = compute()
		z.done = true
	}
	return z.value
}

func (l *ImplLookup) fnTraitItems() []*types.TraitItem {
	return l.fnTraits.get(func() []*types.TraitItem {
		var out []*types.TraitItem
		for _, name := range []string{"fn", "fn_mut", "fn_once"} {
			if t := l.project.FindLangItem(name, ""); t != nil {
				out = append(out, t)
			}
		}
		return out
	})
}

func (l *ImplLookup) isFnTrait(t *types.TraitItem) bool {
	for _, fn := range l.fnTraitItems() {
		if fn == t {
			return true
		}
	}
	return false
}

func (l *ImplLookup) fnOnceOutputAlias() *types.TypeAlias {
	return l.fnOnceOutput.get(func() *types.TypeAlias {
		trait := l.project.FindLangItem("fn_once", "")
		if trait == nil {
			return nil
		}
		return trait.FindAssociatedType("Output")
	})
}

// fnOutputParam is <Self as FnOnce>::Output.
func (l *ImplLookup) fnOutputParam() (types.TypeParameter, bool) {
	alias := l.fnOnceOutputAlias()
	if alias == nil {
		return types.TypeParameter{}, false
	}
	return types.AssociatedParam(alias), true
}

func (l *ImplLookup) copyTraitItem() *types.TraitItem {
	return l.copyTrait.get(l.items.FindCopyTrait)
}

func lazyTraitAndOutput(z *lazy[*TraitAndOutput], find func() *types.TraitItem, assoc string) *TraitAndOutput {
	return z.get(func() *TraitAndOutput {
		to, ok := findTraitAndOutput(find(), assoc)
		if !ok {
			return nil
		}
		return &to
	})
}

func (l *ImplLookup) derefTraitAndTarget() *TraitAndOutput {
	return lazyTraitAndOutput(&l.derefTarget, func() *types.TraitItem {
		return l.project.FindLangItem("deref", "")
	}, "Target")
}

func (l *ImplLookup) indexTraitAndOutput() *TraitAndOutput {
	return lazyTraitAndOutput(&l.indexOutput, func() *types.TraitItem {
		return l.project.FindLangItem("index", "")
	}, "Output")
}

func (l *ImplLookup) iteratorTraitAndItem() *TraitAndOutput {
	return lazyTraitAndOutput(&l.iteratorItem, l.items.FindIteratorTrait, "Item")
}

func (l *ImplLookup) intoIteratorTraitAndItem() *TraitAndOutput {
	return lazyTraitAndOutput(&l.intoIterItem, l.items.FindIntoIteratorTrait, "Item")
}

type tracedSpan struct {
	span   *trace.Span
	parent uint64
}

func (l *ImplLookup) tracing(scope trace.Scope) bool {
	return l.tracer.Enabled() && l.tracer.Level().ShouldEmit(scope)
}

func (l *ImplLookup) begin(scope trace.Scope, name string) tracedSpan {
	ts := tracedSpan{span: trace.Begin(l.tracer, scope, name, l.parentSpan), parent: l.parentSpan}
	if id := ts.span.ID(); id != 0 {
		l.parentSpan = id
	}
	return ts
}

func (l *ImplLookup) end(ts tracedSpan, detail string) {
	ts.span.End(detail)
	l.parentSpan = ts.parent
}

func (l *ImplLookup) point(scope trace.Scope, name, detail string) {
	trace.Point(l.tracer, scope, name, l.parentSpan, detail)
}
