package driving

import (
	"context"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// AnalysisService answers "what did this character do" across chapters.
type AnalysisService interface {
	// FindChapters lists chapters whose text contains the character name.
	FindChapters(ctx context.Context, character string) ([]domain.ChapterMatch, error)

	// GatherContext runs the per-chapter queries and keeps passages above
	// the similarity threshold. Chapters without passages are dropped.
	GatherContext(ctx context.Context, character string, chapters []domain.ChapterMatch) ([]domain.ChapterContext, error)

	// Synthesize asks the LLM for the combined analysis. On LLM failure it
	// returns a degraded report holding excerpts, never an error.
	Synthesize(ctx context.Context, character string, contexts []domain.ChapterContext) (*domain.AnalysisReport, error)

	// Analyze runs FindChapters, GatherContext and Synthesize.
	// Returns domain.ErrNoContext when no chapter yields passages.
	Analyze(ctx context.Context, character string) (*domain.AnalysisReport, error)

	// SaveReport writes a non-degraded report and returns the file path.
	SaveReport(report *domain.AnalysisReport) (string, error)
}
