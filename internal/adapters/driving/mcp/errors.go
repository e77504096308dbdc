// Package mcp provides an MCP (Model Context Protocol) server adapter for the
// corpus. It lets AI assistants search the corpus and read the active settings.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")
