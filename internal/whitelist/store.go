package whitelist

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/repository"
)

// Snapshot is an immutable view of the whitelist at one point in time.
// Classification runs hold one snapshot for their whole duration, so a
// refresh mid-run never changes which vessels a run considers exempt.
type Snapshot struct {
	entries  map[string]models.WhitelistEntry
	loadedAt time.Time
}

// NewSnapshot builds a snapshot from a list of entries
func NewSnapshot(entries []models.WhitelistEntry) *Snapshot {
	m := make(map[string]models.WhitelistEntry, len(entries))
	for _, e := range entries {
		m[e.RegistryID] = e
	}
	return &Snapshot{entries: m, loadedAt: time.Now()}
}

// IsExempt reports whether the registry id is whitelisted
func (s *Snapshot) IsExempt(registryID string) bool {
	if s == nil {
		return false
	}
	_, ok := s.entries[registryID]
	return ok
}

// Entry returns the full entry for a registry id
func (s *Snapshot) Entry(registryID string) (models.WhitelistEntry, bool) {
	if s == nil {
		return models.WhitelistEntry{}, false
	}
	e, ok := s.entries[registryID]
	return e, ok
}

// Len returns the number of whitelisted vessels
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// LoadedAt returns when the snapshot was built
func (s *Snapshot) LoadedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.loadedAt
}

// Store keeps the current whitelist snapshot and refreshes it on a timer.
// Refresh builds a brand-new snapshot and swaps it in; the store never
// mutates a published snapshot.
type Store struct {
	repo    *repository.WhitelistRepository
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store backed by the whitelist repository
func NewStore(repo *repository.WhitelistRepository) *Store {
	return &Store{repo: repo}
}

// Refresh loads the whitelist and swaps in a fresh snapshot
func (s *Store) Refresh() error {
	entries, err := s.repo.GetAll()
	if err != nil {
		return err
	}
	s.current.Store(NewSnapshot(entries))
	return nil
}

// Current returns the latest snapshot; before the first refresh it returns
// an empty snapshot, which exempts nothing
func (s *Store) Current() *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	return NewSnapshot(nil)
}

// StartRefreshLoop refreshes the snapshot at the given interval until the
// context is cancelled. Refresh errors are logged; the stale snapshot stays
// in place until the next successful load.
func (s *Store) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(); err != nil {
					log.Printf("[Whitelist] Refresh failed: %v", err)
				}
			}
		}
	}()
}
