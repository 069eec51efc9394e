package mcp

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.RetrievalResult
	stats    *domain.CollectionStats
	err      error
	statsErr error

	lastQuery string
	lastK     int
}

func (m *mockRetrievalService) Search(_ context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	m.lastQuery = query
	m.lastK = k
	return m.results, m.err
}

func (m *mockRetrievalService) SearchMany(
	ctx context.Context,
	queries []string,
	k int,
) ([]domain.QueryResults, error) {
	out := make([]domain.QueryResults, 0, len(queries))
	for _, q := range queries {
		results, err := m.Search(ctx, q, k)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.QueryResults{Query: q, Results: results})
	}
	return out, nil
}

func (m *mockRetrievalService) Stats(_ context.Context) (*domain.CollectionStats, error) {
	return m.stats, m.statsErr
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	chapters []domain.ChapterMatch
	report   *domain.AnalysisReport
	err      error

	lastCharacter string
}

func (m *mockAnalysisService) FindChapters(_ context.Context, character string) ([]domain.ChapterMatch, error) {
	m.lastCharacter = character
	return m.chapters, m.err
}

func (m *mockAnalysisService) GatherContext(
	_ context.Context,
	_ string,
	_ []domain.ChapterMatch,
) ([]domain.ChapterContext, error) {
	return nil, m.err
}

func (m *mockAnalysisService) Synthesize(
	_ context.Context,
	_ string,
	_ []domain.ChapterContext,
) (*domain.AnalysisReport, error) {
	return m.report, m.err
}

func (m *mockAnalysisService) Analyze(_ context.Context, character string) (*domain.AnalysisReport, error) {
	m.lastCharacter = character
	return m.report, m.err
}

func (m *mockAnalysisService) SaveReport(_ *domain.AnalysisReport) (string, error) {
	return "", m.err
}
