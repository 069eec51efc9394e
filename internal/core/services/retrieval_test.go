package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func seedVectors(t *testing.T, store *memory.VectorStore, embedder *mockEmbedder, docs map[string]string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateCollection(ctx, "test_collection", nil, true))

	entries := make([]domain.VectorEntry, 0, len(docs))
	for id, doc := range docs {
		entries = append(entries, domain.VectorEntry{
			ID:        id,
			Embedding: embedder.vector(doc),
			Metadata: map[string]any{
				domain.MetaChapterTitle:    "第一章",
				domain.MetaVectorModel:     "stored-model",
				domain.MetaVectorDimension: 4,
			},
			Document: doc,
		})
	}
	require.NoError(t, store.Upsert(ctx, "test_collection", entries))
}

func TestRetrievalService_Search_OrdersByDistance(t *testing.T) {
	embedder := newMockEmbedder(4)
	embedder.vectors["query"] = []float32{1, 0, 0, 0}
	embedder.vectors["exact"] = []float32{1, 0, 0, 0}
	embedder.vectors["close"] = []float32{1, 1, 0, 0}
	embedder.vectors["far"] = []float32{0, 0, 0, 1}

	store := memory.NewVectorStore()
	seedVectors(t, store, embedder, map[string]string{"a": "far", "b": "exact", "c": "close"})

	svc := NewRetrievalService(embedder, store, &testSettings().Vector)
	results, err := svc.Search(context.Background(), "query", 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact", results[0].Document)
	assert.Equal(t, "close", results[1].Document)
	assert.InDelta(t, 1.0, results[0].Similarity(), 1e-6)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestRetrievalService_Search_CapsAtCollectionSize(t *testing.T) {
	embedder := newMockEmbedder(4)
	store := memory.NewVectorStore()
	seedVectors(t, store, embedder, map[string]string{"a": "祥子"})

	svc := NewRetrievalService(embedder, store, &testSettings().Vector)
	results, err := svc.Search(context.Background(), "祥子做了什么", 10)

	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRetrievalService_Search_DefaultK(t *testing.T) {
	embedder := newMockEmbedder(4)
	store := memory.NewVectorStore()
	docs := map[string]string{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		docs[id] = "doc " + id
	}
	seedVectors(t, store, embedder, docs)

	svc := NewRetrievalService(embedder, store, &testSettings().Vector)
	results, err := svc.Search(context.Background(), "doc", 0)

	require.NoError(t, err)
	assert.Len(t, results, DefaultSearchK)
}

func TestRetrievalService_Search_EmptyQuery(t *testing.T) {
	embedder := newMockEmbedder(4)
	svc := NewRetrievalService(embedder, memory.NewVectorStore(), &testSettings().Vector)

	results, err := svc.Search(context.Background(), "   ", 3)

	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, embedder.queries)
}

func TestRetrievalService_Search_MissingCollection(t *testing.T) {
	svc := NewRetrievalService(newMockEmbedder(4), memory.NewVectorStore(), &testSettings().Vector)

	_, err := svc.Search(context.Background(), "祥子", 3)

	require.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestRetrievalService_Search_EmbedError(t *testing.T) {
	embedder := newMockEmbedder(4)
	embedder.err = errors.New("connection refused")
	svc := NewRetrievalService(embedder, memory.NewVectorStore(), &testSettings().Vector)

	_, err := svc.Search(context.Background(), "祥子", 3)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestRetrievalService_Search_Unavailable(t *testing.T) {
	svc := NewRetrievalService(nil, memory.NewVectorStore(), &testSettings().Vector)
	_, err := svc.Search(context.Background(), "祥子", 3)
	require.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	svc = NewRetrievalService(newMockEmbedder(4), nil, &testSettings().Vector)
	_, err = svc.Search(context.Background(), "祥子", 3)
	require.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
}

func TestRetrievalService_SearchMany_StopsAtFirstError(t *testing.T) {
	svc := NewRetrievalService(newMockEmbedder(4), memory.NewVectorStore(), &testSettings().Vector)

	_, err := svc.SearchMany(context.Background(), []string{"a", "b"}, 3)

	require.ErrorIs(t, err, domain.ErrCollectionNotFound)
}

func TestRetrievalService_SearchMany(t *testing.T) {
	embedder := newMockEmbedder(4)
	store := memory.NewVectorStore()
	seedVectors(t, store, embedder, map[string]string{"a": "祥子", "b": "虎妞"})

	svc := NewRetrievalService(embedder, store, &testSettings().Vector)
	results, err := svc.SearchMany(context.Background(), []string{"祥子", "虎妞"}, 1)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "祥子", results[0].Query)
	assert.Equal(t, "祥子", results[0].Results[0].Document)
	assert.Equal(t, "虎妞", results[1].Results[0].Document)
}

func TestRetrievalService_Stats(t *testing.T) {
	embedder := newMockEmbedder(4)
	store := memory.NewVectorStore()
	seedVectors(t, store, embedder, map[string]string{"a": "祥子", "b": "虎妞"})

	svc := NewRetrievalService(embedder, store, &testSettings().Vector)
	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "test_collection", stats.CollectionName)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, "stored-model", stats.ModelName)
	assert.Equal(t, 4, stats.VectorDimension)
	assert.Equal(t, ":memory:", stats.PersistDirectory)
	assert.Equal(t, []string{
		domain.MetaChapterTitle, domain.MetaVectorDimension, domain.MetaVectorModel,
	}, stats.SampleMetadataKeys)
	assert.False(t, stats.CreatedAt.IsZero())
	assert.Empty(t, stats.RunID)
}

func TestRetrievalService_Stats_ReportsCollectionMetadata(t *testing.T) {
	ctx := context.Background()
	store := memory.NewVectorStore()
	require.NoError(t, store.CreateCollection(ctx, "test_collection", map[string]any{
		domain.MetaDescription: CollectionDescription,
		domain.MetaRunID:       "run-42",
	}, false))

	svc := NewRetrievalService(newMockEmbedder(4), store, &testSettings().Vector)
	stats, err := svc.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, CollectionDescription, stats.Description)
	assert.Equal(t, "run-42", stats.RunID)
	assert.Zero(t, stats.TotalDocuments)
}

func TestRetrievalService_Stats_EmptyCollection(t *testing.T) {
	embedder := newMockEmbedder(4)
	store := memory.NewVectorStore()
	require.NoError(t, store.CreateCollection(context.Background(), "test_collection", nil, false))

	svc := NewRetrievalService(embedder, store, &testSettings().Vector)
	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Zero(t, stats.TotalDocuments)
	assert.Equal(t, "mock-embed", stats.ModelName)
	assert.Empty(t, stats.SampleMetadataKeys)
}

func TestRetrievalService_Stats_MissingCollection(t *testing.T) {
	svc := NewRetrievalService(newMockEmbedder(4), memory.NewVectorStore(), &testSettings().Vector)

	_, err := svc.Stats(context.Background())

	require.ErrorIs(t, err, domain.ErrCollectionNotFound)
}
