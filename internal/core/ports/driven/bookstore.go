package driven

import "github.com/custodia-labs/novelrag/internal/core/domain"

// BookStore persists pipeline artefacts between the indexing stages.
type BookStore interface {
	// SaveBook writes a processed book document.
	SaveBook(path string, book *domain.Book) error

	// LoadBook reads a processed book document.
	// Returns domain.ErrNotFound if the file does not exist.
	LoadBook(path string) (*domain.Book, error)

	// SaveChunks writes the chunk array, creating parent directories.
	SaveChunks(path string, chunks []domain.Chunk) error

	// LoadChunks reads a chunk array.
	// Returns domain.ErrNotFound if the file does not exist.
	LoadChunks(path string) ([]domain.Chunk, error)
}

// ReportWriter persists a successful analysis report.
type ReportWriter interface {
	// WriteReport writes the report to path, replacing any existing file.
	WriteReport(path string, report *domain.AnalysisReport) error
}
