package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/novelrag/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for novelrag resources.
	uriScheme = "novelrag://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the vector collection.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "collection",
		Name:        "collection",
		Description: "Statistics of the indexed novel's vector collection",
		MIMEType:    "application/json",
	}, s.handleCollectionResource)

	// Template for the chapters a character appears in.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "characters/{name}/chapters",
		Name:        "character-chapters",
		Description: "Chapters whose text mentions a character",
		MIMEType:    "application/json",
	}, s.handleChaptersResource)
}

// handleCollectionResource returns the collection statistics.
func (s *Server) handleCollectionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Retrieval.Stats(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrCollectionNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("reading collection stats: %w", err)
	}

	return jsonResource(req.Params.URI, stats)
}

// handleChaptersResource returns the chapters mentioning a character.
func (s *Server) handleChaptersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Analysis == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract name from URI: novelrag://characters/{name}/chapters
	name := extractCharacter(req.Params.URI)
	if name == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	chapters, err := s.ports.Analysis.FindChapters(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("finding chapters: %w", err)
	}

	return jsonResource(req.Params.URI, chapters)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCharacter extracts the name from a URI like novelrag://characters/{name}/chapters.
// Percent-encoded names are decoded.
func extractCharacter(uri string) string {
	const prefix = uriScheme + "characters/"
	const suffix = "/chapters"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	name, err := url.PathUnescape(strings.TrimSuffix(uri, suffix))
	if err != nil {
		return ""
	}
	return name
}
