// Package infer holds the inference context used by trait selection: type
// variable bindings with checkpoint/rollback, unification and projection
// normalization.
//
// A Context is not safe for concurrent use. Callers create one per analysis
// task; only the project caches in internal/cache are shared between tasks.
package infer

import (
	"traitres/internal/types"
)

type undoEntry struct {
	id   uint32
	prev types.Ty
	had  bool
}

// Context stores inference variable bindings. Every binding is recorded in an
// undo log so that probes can restore the exact previous state.
type Context struct {
	vars      map[uint32]types.Ty
	undo      []undoEntry
	projector Projector
}

// NewContext creates an empty inference context.
func NewContext() *Context {
	return &Context{vars: make(map[uint32]types.Ty, 16)}
}

// SetProjector installs the resolver used by NormalizeAssociatedTypesIn.
func (c *Context) SetProjector(p Projector) {
	c.projector = p
}

// Projector returns the installed resolver, or nil.
func (c *Context) Projector() Projector { return c.projector }

// TypeVarForParam returns a fresh type variable standing for the generic
// parameter p.
func (c *Context) TypeVarForParam(p types.TypeParameter) types.Ty {
	_ = p
	return types.NewTyVar()
}

// Bindings returns the number of bound variables.
func (c *Context) Bindings() int { return len(c.vars) }

func (c *Context) snapshot() int { return len(c.undo) }

func (c *Context) rollbackTo(mark int) {
	for len(c.undo) > mark {
		last := c.undo[len(c.undo)-1]
		c.undo = c.undo[:len(c.undo)-1]
		if last.had {
			c.vars[last.id] = last.prev
		} else {
			delete(c.vars, last.id)
		}
	}
}

func (c *Context) bind(v types.Infer, ty types.Ty) {
	prev, had := c.vars[v.ID]
	c.undo = append(c.undo, undoEntry{id: v.ID, prev: prev, had: had})
	c.vars[v.ID] = ty
}

// Probe runs fn and always restores the bindings that existed before it.
func (c *Context) Probe(fn func() bool) bool {
	mark := c.snapshot()
	defer c.rollbackTo(mark)
	return fn()
}

// Transaction runs fn and keeps its bindings only when it returns true.
func (c *Context) Transaction(fn func() bool) bool {
	mark := c.snapshot()
	if fn() {
		return true
	}
	c.rollbackTo(mark)
	return false
}

// ShallowResolve follows variable bindings at the top level of t only.
func (c *Context) ShallowResolve(t types.Ty) types.Ty {
	for range maxResolveChain {
		v, ok := t.(types.Infer)
		if !ok {
			return t
		}
		bound, ok := c.vars[v.ID]
		if !ok {
			return t
		}
		t = bound
	}
	return t
}

// maxResolveChain bounds variable-to-variable chains; the occurs check keeps
// real chains far shorter.
const maxResolveChain = 1 << 10

// ResolveTypeVarsIfPossible replaces every bound variable in t, recursively.
func (c *Context) ResolveTypeVarsIfPossible(t types.Ty) types.Ty {
	if t == nil || !types.HasInfer(t) {
		return t
	}
	var fold func(types.Ty) types.Ty
	fold = func(t types.Ty) types.Ty {
		t = c.ShallowResolve(t)
		return types.SuperFold(t, fold)
	}
	return fold(t)
}
