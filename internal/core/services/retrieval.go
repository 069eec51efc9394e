package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
	"github.com/custodia-labs/novelrag/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultSearchK is used when a caller passes a non-positive k.
const DefaultSearchK = 5

// RetrievalService embeds queries and searches the vector collection.
type RetrievalService struct {
	embedder driven.BatchEmbedder
	vectors  driven.VectorStore
	settings *domain.VectorSettings
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(
	embedder driven.BatchEmbedder,
	vectors driven.VectorStore,
	settings *domain.VectorSettings,
) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		vectors:  vectors,
		settings: settings,
	}
}

// Search returns at most k results ordered by ascending distance.
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RetrievalResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectors == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	if k <= 0 {
		k = DefaultSearchK
	}

	logger.Debug("Search %q (k=%d)", query, k)

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.vectors.Query(ctx, s.settings.Collection, vec, k)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", s.settings.Collection, err)
	}

	logger.Debug("Search %q: %d results", query, len(results))
	return results, nil
}

// SearchMany runs each query in turn and stops at the first error.
func (s *RetrievalService) SearchMany(ctx context.Context, queries []string, k int) ([]domain.QueryResults, error) {
	out := make([]domain.QueryResults, 0, len(queries))
	for _, q := range queries {
		results, err := s.Search(ctx, q, k)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.QueryResults{Query: q, Results: results})
	}
	return out, nil
}

// Stats describes the vector collection.
func (s *RetrievalService) Stats(ctx context.Context) (*domain.CollectionStats, error) {
	if s.vectors == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	info, err := s.vectors.Collection(ctx, s.settings.Collection)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", s.settings.Collection, err)
	}

	count, err := s.vectors.Count(ctx, s.settings.Collection)
	if err != nil {
		return nil, fmt.Errorf("count %q: %w", s.settings.Collection, err)
	}

	stats := &domain.CollectionStats{
		CollectionName:   info.Name,
		CreatedAt:        info.CreatedAt,
		TotalDocuments:   count,
		PersistDirectory: s.vectors.Location(),
	}
	stats.Description, _ = info.Metadata[domain.MetaDescription].(string)
	stats.RunID, _ = info.Metadata[domain.MetaRunID].(string)
	if s.embedder != nil {
		stats.VectorDimension = s.embedder.Dimensions()
		stats.ModelName = s.embedder.ModelName()
	}

	sample, err := s.vectors.Peek(ctx, s.settings.Collection, 1)
	if err != nil {
		return nil, fmt.Errorf("peek %q: %w", s.settings.Collection, err)
	}
	if len(sample) > 0 {
		keys := make([]string, 0, len(sample[0].Metadata))
		for key := range sample[0].Metadata {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		stats.SampleMetadataKeys = keys

		// The stored entries describe the model that built them.
		if model, ok := sample[0].Metadata[domain.MetaVectorModel].(string); ok && model != "" {
			stats.ModelName = model
		}
		if dim, ok := sample[0].Metadata[domain.MetaVectorDimension].(int); ok && dim > 0 {
			stats.VectorDimension = dim
		}
	}

	return stats, nil
}
