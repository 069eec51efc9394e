package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

func TestExtractCharacter(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid character URI",
			uri:      "novelrag://characters/祥子/chapters",
			expected: "祥子",
		},
		{
			name:     "percent-encoded name",
			uri:      "novelrag://characters/%E8%99%8E%E5%A6%9E/chapters",
			expected: "虎妞",
		},
		{
			name:     "invalid prefix",
			uri:      "file://characters/祥子/chapters",
			expected: "",
		},
		{
			name:     "missing chapters suffix",
			uri:      "novelrag://characters/祥子",
			expected: "",
		},
		{
			name:     "bad escape",
			uri:      "novelrag://characters/%zz/chapters",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractCharacter(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleCollectionResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats as JSON", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{
			stats: &domain.CollectionStats{
				CollectionName:   "luotuo_xiangzi",
				TotalDocuments:   512,
				PersistDirectory: "/data/vector_db",
			},
		}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://collection")
		result, err := server.handleCollectionResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"collection_name": "luotuo_xiangzi"`)
		assert.Contains(t, result.Contents[0].Text, `"total_documents": 512`)
	})

	t.Run("missing collection is not found", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{statsErr: domain.ErrCollectionNotFound}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://collection")
		_, err = server.handleCollectionResource(ctx, req)

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrCollectionNotFound)
	})

	t.Run("returns error on stats failure", func(t *testing.T) {
		mockRetrieval := &mockRetrievalService{statsErr: errors.New("database error")}
		server, err := NewServer(&Ports{Retrieval: mockRetrieval})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://collection")
		_, err = server.handleCollectionResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading collection stats")
	})
}

func TestServer_handleChaptersResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chapters successfully", func(t *testing.T) {
		mockAnalysis := &mockAnalysisService{
			chapters: []domain.ChapterMatch{
				{ChapterNum: 2, ChapterTitle: "第二章", ContentPreview: "祥子..."},
			},
		}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Analysis: mockAnalysis})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://characters/祥子/chapters")
		result, err := server.handleChaptersResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"chapter_num": 2`)
		assert.Contains(t, result.Contents[0].Text, "第二章")
		assert.Equal(t, "祥子", mockAnalysis.lastCharacter)
	})

	t.Run("nil analysis service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://characters/祥子/chapters")
		_, err = server.handleChaptersResource(ctx, req)

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		mockAnalysis := &mockAnalysisService{}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Analysis: mockAnalysis})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://characters/")
		_, err = server.handleChaptersResource(ctx, req)

		require.Error(t, err)
		assert.Empty(t, mockAnalysis.lastCharacter)
	})

	t.Run("returns error on lookup failure", func(t *testing.T) {
		mockAnalysis := &mockAnalysisService{err: errors.New("disk error")}
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}, Analysis: mockAnalysis})
		require.NoError(t, err)

		req := makeReadResourceRequest("novelrag://characters/祥子/chapters")
		_, err = server.handleChaptersResource(ctx, req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "finding chapters")
	})
}
