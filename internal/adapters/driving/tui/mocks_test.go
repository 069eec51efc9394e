package tui

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// MockRetrievalService implements driving.RetrievalService for testing.
type MockRetrievalService struct {
	SearchFunc func(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error)
}

func (m *MockRetrievalService) Search(ctx context.Context, query string, k int) ([]domain.RetrievalResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, k)
	}
	return nil, nil
}

func (m *MockRetrievalService) SearchMany(
	ctx context.Context, queries []string, k int,
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

func (m *MockRetrievalService) Stats(context.Context) (*domain.CollectionStats, error) {
	return &domain.CollectionStats{}, nil
}

// MockAnalysisService implements driving.AnalysisService for testing.
type MockAnalysisService struct {
	FindChaptersFunc func(ctx context.Context, character string) ([]domain.ChapterMatch, error)
}

func (m *MockAnalysisService) FindChapters(ctx context.Context, character string) ([]domain.ChapterMatch, error) {
	if m.FindChaptersFunc != nil {
		return m.FindChaptersFunc(ctx, character)
	}
	return []domain.ChapterMatch{}, nil
}

func (m *MockAnalysisService) GatherContext(
	context.Context, string, []domain.ChapterMatch,
) ([]domain.ChapterContext, error) {
	return nil, nil
}

func (m *MockAnalysisService) Synthesize(
	context.Context, string, []domain.ChapterContext,
) (*domain.AnalysisReport, error) {
	return nil, nil
}

func (m *MockAnalysisService) Analyze(context.Context, string) (*domain.AnalysisReport, error) {
	return nil, domain.ErrNoContext
}

func (m *MockAnalysisService) SaveReport(*domain.AnalysisReport) (string, error) {
	return "", nil
}
