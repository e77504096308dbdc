package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/corpus-cli/internal/core/domain"
)

// maxToolLimit caps how many segments one tool call may request.
const maxToolLimit = 500

// SearchInput is the input schema for the search_corpus tool.
type SearchInput struct {
	Query string `json:"query,omitempty" jsonschema:"text to search for; empty lists the start of the corpus"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of segments to return (default 20)"`
}

// SearchOutput is the output schema for the search_corpus tool.
type SearchOutput struct {
	Results []SegmentOutput `json:"results"`
	Shown   int             `json:"shown"`
	Total   int             `json:"total"`
	HasMore bool            `json:"has_more"`
}

// SegmentOutput represents a single matching segment.
type SegmentOutput struct {
	ID                string   `json:"id"`
	Content           string   `json:"content"`
	SourceFile        string   `json:"source_file,omitempty"`
	ChapterTitle      string   `json:"chapter_title,omitempty"`
	SceneIndex        int      `json:"scene_index"`
	ParagraphIndex    int      `json:"paragraph_index"`
	Location          string   `json:"location,omitempty"`
	PrimaryCharacters []string `json:"primary_characters,omitempty"`
	Tags              []string `json:"tags,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_corpus",
		Description: "Search the text corpus for segments containing the query",
	}, s.handleSearch)
}

// handleSearch handles the search_corpus tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = domain.DefaultWindowSize
	}
	if limit > maxToolLimit {
		limit = maxToolLimit
	}

	page, err := s.ports.Search.Search(ctx, domain.SearchQuery{Text: input.Query, WindowSize: limit})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, toSearchOutput(page), nil
}

func toSearchOutput(page domain.ResultPage) SearchOutput {
	output := SearchOutput{
		Results: make([]SegmentOutput, len(page.Items)),
		Shown:   page.Len(),
		Total:   page.Total,
		HasMore: page.HasMore(),
	}
	for i := range page.Items {
		seg := &page.Items[i]
		output.Results[i] = SegmentOutput{
			ID:                seg.ID,
			Content:           seg.Content,
			SourceFile:        seg.SourceFile,
			ChapterTitle:      seg.ChapterTitle,
			SceneIndex:        seg.SceneIndex,
			ParagraphIndex:    seg.ParagraphIndex,
			Location:          seg.Location(),
			PrimaryCharacters: seg.PrimaryCharacters,
			Tags:              seg.Tags,
		}
	}
	return output
}
