package resolve

import "traitres/internal/cache"

// Caches holds the project-scoped memoization shared by every ImplLookup of
// a session. Values are keyed by freshened type keys.
type Caches struct {
	selection      *cache.Cache[string, SelectionResult[Candidate]]
	implsAndTraits *cache.Cache[string, []ImplementedTrait]
}

// NewCaches registers the resolution caches on s so that a source-state
// change invalidates them.
func NewCaches(s *cache.Service) *Caches {
	return &Caches{
		selection:      cache.Register[string, SelectionResult[Candidate]](s, "traitSelection"),
		implsAndTraits: cache.Register[string, []ImplementedTrait](s, "implsAndTraits"),
	}
}

// SelectionStats returns hit/miss counters of the selection cache.
func (c *Caches) SelectionStats() cache.Stats { return c.selection.Stats() }

// ImplsAndTraitsStats returns hit/miss counters of the impls-and-traits cache.
func (c *Caches) ImplsAndTraitsStats() cache.Stats { return c.implsAndTraits.Stats() }
