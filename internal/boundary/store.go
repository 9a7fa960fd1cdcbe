package boundary

import (
	"sync/atomic"
	"time"
)

// SetStatus describes one loaded geometry set for the status endpoint
type SetStatus struct {
	Name     string `json:"name"`
	Features int    `json:"features"`
	Polygons int    `json:"polygons"`
}

// Store holds the current boundary index behind an atomic pointer.
// Reload is a swap of a freshly built immutable Index, so batch runs that
// already grabbed a snapshot keep a consistent view for their whole run.
type Store struct {
	current  atomic.Pointer[Index]
	loadedAt atomic.Pointer[time.Time]
}

// NewStore creates a store holding the given initial index (may be nil)
func NewStore(idx *Index) *Store {
	s := &Store{}
	if idx != nil {
		s.Swap(idx)
	}
	return s
}

// Current returns the index snapshot to use for one classification run.
// May be nil when no geometry has been loaded yet.
func (s *Store) Current() *Index {
	return s.current.Load()
}

// Swap replaces the current index with a newly built one
func (s *Store) Swap(idx *Index) {
	now := time.Now()
	s.current.Store(idx)
	s.loadedAt.Store(&now)
}

// Status summarizes the loaded sets, for diagnostics and the API
func (s *Store) Status() ([]SetStatus, *time.Time) {
	idx := s.Current()
	if idx == nil {
		return nil, nil
	}

	var out []SetStatus
	for name, set := range idx.Sets() {
		out = append(out, SetStatus{
			Name:     name,
			Features: len(set.Features),
			Polygons: set.PolygonCount(),
		})
	}
	return out, s.loadedAt.Load()
}
