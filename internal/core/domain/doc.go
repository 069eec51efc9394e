// Package domain defines the core entities for novelrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chapter and Book: text extracted from an e-book container
//   - Chunk: an overlapping window of chapter text, the unit of retrieval
//   - RetrievalResult: a stored chunk matched by similarity search
//   - ChapterContext and AnalysisReport: the character analysis output
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
