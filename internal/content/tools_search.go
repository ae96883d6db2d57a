package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsukino/mcp-lensref-server/internal/catalog"
)

// SearchArgument defines search parameters.
type SearchArgument struct {
	Query        string `json:"query" jsonschema_description:"Search query matched against lens names, summaries and tags"`
	Manufacturer string `json:"manufacturer,omitempty" jsonschema_description:"Filter by manufacturer identifier"`
	DesignType   string `json:"design_type,omitempty" jsonschema_description:"Filter by raw design type token (e.g., double_gauss)"`
}

// SearchHandler handles the search MCP tool.
type SearchHandler struct {
	service *Service
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(service *Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// Handle executes the search and returns formatted results.
func (h *SearchHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args SearchArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}
	if strings.TrimSpace(args.Query) == "" {
		return errorResult("Query cannot be empty"), nil, nil
	}

	hits, total, err := h.service.Search(args.Query, args.Manufacturer, args.DesignType)
	if err != nil {
		return errorResult(fmt.Sprintf("Search failed: %s", err)), nil, nil
	}
	return h.formatResults(hits, total, args.Query), nil, nil
}

// formatResults formats search hits for the MCP response.
func (h *SearchHandler) formatResults(hits []catalog.Hit, total uint64, queryStr string) *mcp.CallToolResult {
	if total == 0 {
		return textResult(fmt.Sprintf("No results found for query: %s", queryStr))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d results for '%s':\n\n", total, queryStr)
	for i, hit := range hits {
		fmt.Fprintf(&sb, "### %d. %s (%s)\n", i+1, hit.Name, hit.Slug)
		fmt.Fprintf(&sb, "**Score**: %.4f\n\n", hit.Score)
		for _, fragment := range hit.Fragments {
			sb.WriteString("> " + fragment + "\n")
		}
		sb.WriteString("\n")
	}
	if total > uint64(len(hits)) {
		fmt.Fprintf(&sb, "... and %d more results\n", total-uint64(len(hits)))
	}
	return textResult(sb.String())
}

// GetToolDefinition returns the MCP tool definition.
func (h *SearchHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "search_lenses",
		Description: "Full-text search across the lens catalog",
	}
}

// RegisterSearchTool registers the search tool with an MCP server.
func RegisterSearchTool(server *mcp.Server, service *Service) {
	handler := NewSearchHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
