package catalog

import (
	"log/slog"
	"sync/atomic"
)

// Source holds the catalog currently served. Replacing it is atomic, so a
// request always sees one complete catalog. Each replacement bumps the
// version, which callers use to key cached output.
type Source struct {
	current atomic.Pointer[snapshot]
}

type snapshot struct {
	catalog *Catalog
	version uint64
}

// NewSource creates a Source serving c at version 1.
func NewSource(c *Catalog) *Source {
	s := &Source{}
	s.current.Store(&snapshot{catalog: c, version: 1})
	return s
}

// Current returns the catalog being served and its version.
func (s *Source) Current() (*Catalog, uint64) {
	snap := s.current.Load()
	return snap.catalog, snap.version
}

// Replace swaps in a new catalog and returns its version.
func (s *Source) Replace(c *Catalog) uint64 {
	for {
		old := s.current.Load()
		next := &snapshot{catalog: c, version: old.version + 1}
		if s.current.CompareAndSwap(old, next) {
			slog.Info("catalog replaced", "version", next.version, "principles", c.Len())
			return next.version
		}
	}
}
