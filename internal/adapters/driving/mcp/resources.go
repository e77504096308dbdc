package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for corpus resources.
	uriScheme = "corpus://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "settings",
		Name:        "settings",
		Description: "Active corpus endpoint and browser settings",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "search/{query}",
		Name:        "search",
		Description: "First page of segments matching a query",
		MIMEType:    "application/json",
	}, s.handleSearchResource)
}

// settingsInfo is the JSON form of the settings resource.
type settingsInfo struct {
	Endpoint   string  `json:"endpoint"`
	DebounceMS int64   `json:"debounce_ms"`
	TimeoutMS  int64   `json:"timeout_ms"`
	RateLimit  float64 `json:"rate_limit"`
	RateBurst  int     `json:"rate_burst"`
}

// handleSettingsResource returns the active settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	return jsonResource(req.Params.URI, settingsInfo{
		Endpoint:   settings.Endpoint,
		DebounceMS: settings.DebounceDelay.Milliseconds(),
		TimeoutMS:  settings.RequestTimeout.Milliseconds(),
		RateLimit:  settings.RateLimit,
		RateBurst:  settings.RateBurst,
	})
}

// handleSearchResource returns the default window of results for a query.
func (s *Server) handleSearchResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	text, ok := extractQuery(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	page, err := s.ports.Search.Search(ctx, domain.NewQuery(text))
	if err != nil {
		return nil, fmt.Errorf("searching corpus: %w", err)
	}

	return jsonResource(req.Params.URI, toSearchOutput(page))
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

// extractQuery extracts the unescaped query from a URI like corpus://search/{query}.
func extractQuery(uri string) (string, bool) {
	const prefix = uriScheme + "search/"

	if !strings.HasPrefix(uri, prefix) {
		return "", false
	}

	text, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return "", false
	}
	return text, true
}
