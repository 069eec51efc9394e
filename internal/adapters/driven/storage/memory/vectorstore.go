package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/vectormath"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

type collection struct {
	info    domain.CollectionInfo
	order   []string
	entries map[string]domain.VectorEntry
}

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewVectorStore creates an empty in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		collections: make(map[string]*collection),
	}
}

// CreateCollection ensures the collection exists, dropping it first when reset is set.
func (s *VectorStore) CreateCollection(_ context.Context, name string, metadata map[string]any, reset bool) error {
	if name == "" {
		return fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; ok && !reset {
		return nil
	}

	s.collections[name] = &collection{
		info: domain.CollectionInfo{
			Name:      name,
			Metadata:  cloneMetadata(metadata),
			CreatedAt: time.Now().UTC(),
		},
		entries: make(map[string]domain.VectorEntry),
	}
	return nil
}

// DeleteCollection drops a collection and its entries.
func (s *VectorStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	delete(s.collections, name)
	return nil
}

// Collection returns the collection description.
func (s *VectorStore) Collection(_ context.Context, name string) (*domain.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	info := c.info
	info.Metadata = cloneMetadata(c.info.Metadata)
	return &info, nil
}

// Upsert inserts or replaces entries. Validation happens before any write.
func (s *VectorStore) Upsert(_ context.Context, name string, entries []domain.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(name)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.ID == "" {
			return fmt.Errorf("%w: entry id is required", domain.ErrInvalidInput)
		}
		if len(entry.Embedding) == 0 {
			return fmt.Errorf("%w: entry %s has no embedding", domain.ErrInvalidInput, entry.ID)
		}
	}

	for _, entry := range entries {
		if _, exists := c.entries[entry.ID]; !exists {
			c.order = append(c.order, entry.ID)
		}
		stored := entry
		stored.Embedding = append([]float32(nil), entry.Embedding...)
		stored.Metadata = cloneMetadata(entry.Metadata)
		c.entries[entry.ID] = stored
	}
	return nil
}

// Query returns at most k entries ordered by ascending cosine distance.
func (s *VectorStore) Query(_ context.Context, name string, vector []float32, k int) ([]domain.RetrievalResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: query vector is empty", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return nil, err
	}

	scored := make([]vectormath.Scored, 0, len(c.order))
	for i, id := range c.order {
		entry := c.entries[id]
		if len(entry.Embedding) != len(vector) {
			return nil, fmt.Errorf("%w: collection has %d, query has %d",
				domain.ErrDimensionMismatch, len(entry.Embedding), len(vector))
		}
		scored = append(scored, vectormath.Scored{
			Index:    i,
			Distance: vectormath.CosineDistance(vector, entry.Embedding),
		})
	}

	top := vectormath.TopK(scored, k)
	results := make([]domain.RetrievalResult, 0, len(top))
	for _, sc := range top {
		results = append(results, toResult(c.entries[c.order[sc.Index]], sc.Distance))
	}
	return results, nil
}

// Count returns the number of entries in the collection.
func (s *VectorStore) Count(_ context.Context, name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return 0, err
	}
	return len(c.order), nil
}

// Peek returns up to limit entries in insertion order.
func (s *VectorStore) Peek(_ context.Context, name string, limit int) ([]domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return nil, err
	}

	results := []domain.RetrievalResult{}
	for _, id := range c.order {
		if len(results) >= limit {
			break
		}
		results = append(results, toResult(c.entries[id], 0))
	}
	return results, nil
}

// Location returns a marker for the in-memory store.
func (s *VectorStore) Location() string {
	return ":memory:"
}

// Close is a no-op for the memory store.
func (s *VectorStore) Close() error {
	return nil
}

// get looks up a collection (caller must hold lock).
func (s *VectorStore) get(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCollectionNotFound, name)
	}
	return c, nil
}

func toResult(entry domain.VectorEntry, distance float64) domain.RetrievalResult {
	return domain.RetrievalResult{
		ID:       entry.ID,
		Document: entry.Document,
		Metadata: cloneMetadata(entry.Metadata),
		Distance: distance,
	}
}

func cloneMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return maps.Clone(m)
}
