package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

// DefaultSearchK is the number of passages returned when k is omitted.
const DefaultSearchK = 5

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to look up in the novel"`
	K     int    `json:"k,omitempty" jsonschema:"maximum number of passages to return (default 5)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved passage.
type SearchResultOutput struct {
	ChunkID      string  `json:"chunk_id"`
	ChapterNum   int     `json:"chapter_num"`
	ChapterTitle string  `json:"chapter_title"`
	Characters   string  `json:"characters"`
	Similarity   float64 `json:"similarity"`
	Content      string  `json:"content"`
}

// FindChaptersInput is the input schema for the find_chapters tool.
type FindChaptersInput struct {
	Character string `json:"character,omitempty" jsonschema:"character name to look for (default 祥子)"`
}

// FindChaptersOutput is the output schema for the find_chapters tool.
type FindChaptersOutput struct {
	Character string                `json:"character"`
	Chapters  []domain.ChapterMatch `json:"chapters"`
	Count     int                   `json:"count"`
}

// StatsInput is the (empty) input schema for the collection_stats tool.
type StatsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed novel for passages similar to a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_chapters",
		Description: "List the chapters whose text mentions a character",
	}, s.handleFindChapters)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "collection_stats",
		Description: "Describe the vector collection: size, model, dimension",
	}, s.handleCollectionStats)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	k := input.K
	if k <= 0 {
		k = DefaultSearchK
	}

	results, err := s.ports.Retrieval.Search(ctx, input.Query, k)
	if err != nil {
		return nil, SearchOutput{}, toolError("search", err)
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		r := &results[i]
		chapterNum, _ := r.Metadata[domain.MetaChapterNum].(int)
		output.Results[i] = SearchResultOutput{
			ChunkID:      r.ID,
			ChapterNum:   chapterNum,
			ChapterTitle: r.ChapterTitle(),
			Characters:   r.Characters(),
			Similarity:   r.Similarity(),
			Content:      r.Document,
		}
	}

	return nil, output, nil
}

// handleFindChapters handles the find_chapters tool invocation.
func (s *Server) handleFindChapters(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindChaptersInput,
) (*mcp.CallToolResult, FindChaptersOutput, error) {
	if s.ports.Analysis == nil {
		return nil, FindChaptersOutput{}, errors.New("find_chapters: analysis service not configured")
	}

	chapters, err := s.ports.Analysis.FindChapters(ctx, input.Character)
	if err != nil {
		return nil, FindChaptersOutput{}, toolError("find_chapters", err)
	}

	return nil, FindChaptersOutput{
		Character: input.Character,
		Chapters:  chapters,
		Count:     len(chapters),
	}, nil
}

// handleCollectionStats handles the collection_stats tool invocation.
func (s *Server) handleCollectionStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, domain.CollectionStats, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		return nil, domain.CollectionStats{}, toolError("collection_stats", err)
	}
	return nil, *stats, nil
}

// toolError adds a remedy to errors the caller can fix by running the pipeline.
func toolError(tool string, err error) error {
	switch {
	case errors.Is(err, domain.ErrCollectionNotFound):
		return fmt.Errorf("%s: %w (run `novelrag index --reset` first)", tool, err)
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: %w (run `novelrag extract` first)", tool, err)
	default:
		return fmt.Errorf("%s: %w", tool, err)
	}
}
