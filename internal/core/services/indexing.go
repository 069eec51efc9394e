package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/novelrag/internal/core/domain"
	"github.com/custodia-labs/novelrag/internal/core/ports/driven"
	"github.com/custodia-labs/novelrag/internal/core/ports/driving"
	"github.com/custodia-labs/novelrag/internal/logger"
)

// Ensure IndexingService implements the interface.
var _ driving.IndexingService = (*IndexingService)(nil)

// CollectionDescription is stored in the collection metadata.
const CollectionDescription = "骆驼祥子小说文本向量集合"

// SmokeTestK is the number of results per smoke-test query after indexing.
const SmokeTestK = 3

// IndexingService runs extraction, chunking and vector indexing.
type IndexingService struct {
	extractor driven.BookExtractor
	bookStore driven.BookStore
	pipeline  driven.PostProcessorPipeline
	embedder  driven.BatchEmbedder
	vectors   driven.VectorStore
	settings  *domain.AppSettings

	now func() time.Time
}

// NewIndexingService creates an indexing service.
// The embedder and vector store are optional; without them only
// ProcessBook and BuildChunks are usable.
func NewIndexingService(
	extractor driven.BookExtractor,
	bookStore driven.BookStore,
	pipeline driven.PostProcessorPipeline,
	embedder driven.BatchEmbedder,
	vectors driven.VectorStore,
	settings *domain.AppSettings,
) *IndexingService {
	return &IndexingService{
		extractor: extractor,
		bookStore: bookStore,
		pipeline:  pipeline,
		embedder:  embedder,
		vectors:   vectors,
		settings:  settings,
		now:       time.Now,
	}
}

// ProcessBook extracts chapters from the e-book and writes the processed book file.
func (s *IndexingService) ProcessBook(ctx context.Context, epubPath string) (*domain.Book, error) {
	if epubPath == "" {
		epubPath = s.settings.Book.EPUBPath
	}

	logger.Section("Extraction")
	logger.Info("开始处理EPUB文件: %s", epubPath)

	book, err := s.extractor.Extract(ctx, epubPath)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", epubPath, err)
	}
	if len(book.Chapters) == 0 {
		return nil, fmt.Errorf("extract %s: %w", epubPath, domain.ErrNoChapters)
	}

	path := s.settings.Paths.ProcessedBookPath(s.settings.Book.Key)
	if err := s.bookStore.SaveBook(path, book); err != nil {
		return nil, fmt.Errorf("save processed book: %w", err)
	}

	logger.Info("书名: %s, 作者: %s", book.Info.Title, book.Info.Author)
	logger.Info("共提取 %d 个章节, %d 字", book.Info.TotalChapters, book.Info.TotalWords)
	logger.Info("结果已保存到: %s", path)
	return book, nil
}

// BuildChunks reads the processed book and writes the chunk file.
// Chunk IDs are assigned after the pipeline so numbering is global.
func (s *IndexingService) BuildChunks(ctx context.Context) ([]domain.Chunk, error) {
	book, err := s.loadBook()
	if err != nil {
		return nil, err
	}

	logger.Section("Chunking")
	logger.Info("读取小说数据: %s", book.Info.Title)
	logger.Info("总章节数: %d", book.Info.TotalChapters)
	logger.Info("总字数: %d", book.Info.TotalWords)

	chunks := make([]domain.Chunk, 0)
	for i := range book.Chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chapter := book.Chapters[i]
		if chapter.BookTitle == "" {
			chapter.BookTitle = book.Info.Title
		}
		if chapter.BookAuthor == "" {
			chapter.BookAuthor = book.Info.Author
		}

		chapterChunks, err := s.pipeline.Process(ctx, &chapter)
		if err != nil {
			return nil, fmt.Errorf("chunk chapter %d: %w", chapter.Number, err)
		}
		logger.Debug("Chapter %d (%s): %d chunks", chapter.Number, chapter.Title, len(chapterChunks))
		chunks = append(chunks, chapterChunks...)
	}

	for i := range chunks {
		chunks[i].ID = domain.ChunkID(i + 1)
	}

	path := s.settings.Paths.ChunksPath(s.settings.Book.Key)
	if err := s.bookStore.SaveChunks(path, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}

	logger.Info("成功创建 %d 个文本块", len(chunks))
	logger.Info("文本块已保存到: %s", path)
	return chunks, nil
}

// IndexChunks embeds the chunk file into the vector collection.
func (s *IndexingService) IndexChunks(ctx context.Context, reset bool) (*domain.IndexStats, error) {
	path := s.settings.Paths.ChunksPath(s.settings.Book.Key)
	chunks, err := s.bookStore.LoadChunks(path)
	if err != nil {
		return nil, fmt.Errorf("load chunks %s: %w", path, err)
	}
	return s.Index(ctx, chunks, reset)
}

// Index embeds chunks and upserts them into the configured collection.
// Embedding runs before the collection is created or reset, so a failed
// embedding leaves the existing collection untouched.
func (s *IndexingService) Index(ctx context.Context, chunks []domain.Chunk, reset bool) (*domain.IndexStats, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectors == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	collection := s.settings.Vector.Collection
	runID := uuid.New().String()

	logger.Section("Indexing")
	logger.Debug("Run %s: %d chunks into %q (reset=%t)", runID, len(chunks), collection, reset)

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	logger.Info("开始生成 %d 个文本块的向量", len(texts))
	embeddings, err := s.embedder.EmbedAll(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(embeddings), len(chunks))
	}

	meta := map[string]any{
		domain.MetaDescription: CollectionDescription,
		domain.MetaRunID:       runID,
	}
	if err := s.vectors.CreateCollection(ctx, collection, meta, reset); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	createdAt := s.now().Format(time.RFC3339)
	model := s.embedder.ModelName()
	dimension := s.embedder.Dimensions()

	entries := make([]domain.VectorEntry, len(chunks))
	for i := range chunks {
		entries[i] = domain.VectorEntry{
			ID:        chunks[i].ID,
			Embedding: embeddings[i],
			Metadata:  chunkMetadata(&chunks[i], createdAt, model, dimension, runID),
			Document:  chunks[i].Content,
		}
	}

	if err := s.vectors.Upsert(ctx, collection, entries); err != nil {
		return nil, fmt.Errorf("upsert vectors: %w", err)
	}

	count, err := s.vectors.Count(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("count vectors: %w", err)
	}

	logger.Info("成功存储 %d 个向量到数据库", len(entries))

	return &domain.IndexStats{
		RunID:           runID,
		TotalChunks:     len(chunks),
		VectorDimension: dimension,
		CollectionCount: count,
		ModelName:       model,
	}, nil
}

// Drop deletes the configured collection and every vector in it.
func (s *IndexingService) Drop(ctx context.Context) error {
	if s.vectors == nil {
		return domain.ErrVectorStoreUnavailable
	}

	collection := s.settings.Vector.Collection
	if err := s.vectors.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("drop collection %q: %w", collection, err)
	}
	logger.Info("已删除向量集合: %s", collection)
	return nil
}

// Run indexes the chunk file and then runs the smoke-test queries.
func (s *IndexingService) Run(ctx context.Context, reset bool) (*domain.IndexStats, []domain.QueryResults, error) {
	stats, err := s.IndexChunks(ctx, reset)
	if err != nil {
		return nil, nil, err
	}

	retriever := NewRetrievalService(s.embedder, s.vectors, &s.settings.Vector)
	results, err := retriever.SearchMany(ctx, domain.SmokeTestQueries(), SmokeTestK)
	if err != nil {
		return stats, nil, fmt.Errorf("smoke test: %w", err)
	}
	return stats, results, nil
}

func (s *IndexingService) loadBook() (*domain.Book, error) {
	path := s.settings.Paths.ProcessedBookPath(s.settings.Book.Key)
	book, err := s.bookStore.LoadBook(path)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("processed book %s: %w (run `novelrag extract` first)", path, err)
		}
		return nil, fmt.Errorf("load processed book: %w", err)
	}
	return book, nil
}

// chunkMetadata flattens a chunk into scalar vector metadata.
// Content is stored as the entry document instead.
func chunkMetadata(c *domain.Chunk, createdAt, model string, dimension int, runID string) map[string]any {
	return map[string]any{
		domain.MetaChunkID:         c.ID,
		domain.MetaChapterNum:      c.ChapterNum,
		domain.MetaChapterTitle:    c.ChapterTitle,
		domain.MetaBookTitle:       c.BookTitle,
		domain.MetaBookAuthor:      c.BookAuthor,
		domain.MetaWordCount:       c.WordCount,
		domain.MetaCharacters:      strings.Join(c.Characters, domain.CharacterSeparator),
		domain.MetaStartPosition:   c.StartPosition,
		domain.MetaEndPosition:     c.EndPosition,
		domain.MetaCreatedAt:       createdAt,
		domain.MetaVectorModel:     model,
		domain.MetaVectorDimension: dimension,
		domain.MetaRunID:           runID,
	}
}
