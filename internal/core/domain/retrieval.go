package domain

import "time"

// Metadata keys stored alongside every vector entry.
const (
	MetaChunkID         = "chunk_id"
	MetaChapterNum      = "chapter_num"
	MetaChapterTitle    = "chapter_title"
	MetaBookTitle       = "book_title"
	MetaBookAuthor      = "book_author"
	MetaWordCount       = "word_count"
	MetaCharacters      = "characters"
	MetaStartPosition   = "start_position"
	MetaEndPosition     = "end_position"
	MetaCreatedAt       = "created_at"
	MetaVectorModel     = "vector_model"
	MetaVectorDimension = "vector_dimension"
	MetaRunID           = "run_id"
	MetaDescription     = "description"
)

// CharacterSeparator joins character lists into a scalar metadata value.
const CharacterSeparator = ","

// VectorEntry is one row of a vector collection.
type VectorEntry struct {
	// ID uniquely identifies the entry within its collection.
	ID string

	// Embedding is the unit-length vector.
	Embedding []float32

	// Metadata holds scalar values only (string, int, float64, bool).
	Metadata map[string]any

	// Document is the raw chunk text.
	Document string
}

// RetrievalResult is a stored chunk returned by similarity search.
type RetrievalResult struct {
	ID       string         `json:"id"`
	Document string         `json:"document"`
	Metadata map[string]any `json:"metadata"`

	// Distance is the cosine distance to the query (0 is identical).
	Distance float64 `json:"distance"`
}

// Similarity converts the distance into a score where higher is closer.
func (r RetrievalResult) Similarity() float64 {
	return 1 - r.Distance
}

// ChapterTitle returns the chapter title metadata, or "N/A" when absent.
func (r RetrievalResult) ChapterTitle() string {
	if v, ok := r.Metadata[MetaChapterTitle].(string); ok && v != "" {
		return v
	}
	return "N/A"
}

// Characters returns the joined character metadata, or "N/A" when absent.
func (r RetrievalResult) Characters() string {
	if v, ok := r.Metadata[MetaCharacters].(string); ok && v != "" {
		return v
	}
	return "N/A"
}

// CollectionInfo describes a vector collection.
type CollectionInfo struct {
	Name      string
	Metadata  map[string]any
	CreatedAt time.Time
}

// CollectionStats reports the state of the vector collection.
type CollectionStats struct {
	CollectionName     string    `json:"collection_name"`
	Description        string    `json:"description,omitempty"`
	RunID              string    `json:"run_id,omitempty"`
	CreatedAt          time.Time `json:"created_at,omitzero"`
	TotalDocuments     int       `json:"total_documents"`
	VectorDimension    int       `json:"vector_dimension"`
	ModelName          string    `json:"model_name"`
	PersistDirectory   string    `json:"persist_directory"`
	SampleMetadataKeys []string  `json:"sample_metadata_keys,omitempty"`
}

// IndexStats summarises one indexing run.
type IndexStats struct {
	RunID           string `json:"run_id"`
	TotalChunks     int    `json:"total_chunks"`
	VectorDimension int    `json:"vector_dimension"`
	CollectionCount int    `json:"collection_count"`
	ModelName       string `json:"model_name"`
}

// QueryResults pairs a query with its retrieval results.
type QueryResults struct {
	Query   string            `json:"query"`
	Results []RetrievalResult `json:"results"`
}
