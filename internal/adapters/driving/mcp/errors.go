// Package mcp provides an MCP (Model Context Protocol) server adapter for novelrag.
// It lets AI assistants search the indexed novel and list the chapters a
// character appears in.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
