package cache

import (
	"sync"

	"traitres/internal/project"
)

// Service owns a set of caches and invalidates them together when a
// project's source state changes.
type Service struct {
	mu      sync.Mutex
	caches  []Invalidator
	digests map[ProjectID]project.Digest
}

// NewService creates a service with no registered caches.
func NewService() *Service {
	return &Service{digests: make(map[ProjectID]project.Digest)}
}

// Register creates a cache owned by s.
func Register[K comparable, V any](s *Service, name string) *Cache[K, V] {
	c := New[K, V](name)
	s.mu.Lock()
	s.caches = append(s.caches, c)
	s.mu.Unlock()
	return c
}

// SourceStateChanged records digest as the current state of p and drops
// every entry of p when it differs from the previous digest. It reports
// whether an invalidation happened.
func (s *Service) SourceStateChanged(p ProjectID, digest project.Digest) bool {
	s.mu.Lock()
	prev, seen := s.digests[p]
	s.digests[p] = digest
	caches := append([]Invalidator(nil), s.caches...)
	s.mu.Unlock()

	if !seen || prev == digest {
		return false
	}
	for _, c := range caches {
		c.Invalidate(p)
	}
	return true
}

// Invalidate drops every entry of p unconditionally.
func (s *Service) Invalidate(p ProjectID) {
	s.mu.Lock()
	caches := append([]Invalidator(nil), s.caches...)
	s.mu.Unlock()
	for _, c := range caches {
		c.Invalidate(p)
	}
}

// Stats returns counters per registered cache name.
func (s *Service) Stats() map[string]Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Stats, len(s.caches))
	for _, c := range s.caches {
		out[c.Name()] = c.Stats()
	}
	return out
}
