package memory

import (
	"sync"

	"github.com/zmcado0/femme-futures-coop/internal/core/domain"
	"github.com/zmcado0/femme-futures-coop/internal/core/ports/driven"
)

// Ensure CollectionStore implements the interface.
var _ driven.CollectionStore = (*CollectionStore)(nil)

// CollectionStore holds the session's collection in memory.
// Replace swaps the collection and its result together, so readers see
// either the old pair or the new one.
type CollectionStore struct {
	mu      sync.RWMutex
	result  *domain.IngestResult
	empty   *domain.Collection
	version uint64
}

// NewCollectionStore creates an empty store.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{empty: domain.EmptyCollection()}
}

// Current returns the current collection, or an empty one before the
// first ingestion.
func (s *CollectionStore) Current() *domain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil || s.result.Collection == nil {
		return s.empty
	}
	return s.result.Collection
}

// Replace swaps in the result of a new ingestion. A nil result clears
// the store.
func (s *CollectionStore) Replace(result *domain.IngestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = result
	s.version++
}

// LastResult returns the result that produced the current collection.
func (s *CollectionStore) LastResult() *domain.IngestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Version counts replacements. Views compare it to detect a reload.
func (s *CollectionStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
