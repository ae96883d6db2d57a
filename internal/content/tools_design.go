package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsukino/mcp-lensref-server/internal/render"
)

// DesignArgument defines design lookup parameters.
type DesignArgument struct {
	Slug string `json:"slug" jsonschema_description:"Design record slug (e.g., double-gauss)"`
}

// ListDesignsArgument defines design listing parameters.
type ListDesignsArgument struct{}

// DesignHandler handles the design MCP tools.
type DesignHandler struct {
	service *Service
}

// NewDesignHandler creates a new design handler.
func NewDesignHandler(service *Service) *DesignHandler {
	return &DesignHandler{service: service}
}

// HandleGet renders one design record as markdown.
func (h *DesignHandler) HandleGet(ctx context.Context, req *mcp.CallToolRequest, args DesignArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}
	slug := strings.TrimSpace(args.Slug)
	if slug == "" {
		return errorResult("Slug cannot be empty"), nil, nil
	}

	doc, err := h.service.Design(slug)
	if err != nil {
		return errorResult(fmt.Sprintf("Design not found: %s", slug)), nil, nil
	}

	blocks, diag, err := h.service.RenderDesign(slug)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to render design: %s", err)), nil, nil
	}

	var sb strings.Builder
	name, englishName := render.RecordTitle(doc)
	if name == "" {
		name = slug
	}
	sb.WriteString("# " + name)
	if englishName != "" {
		sb.WriteString(" (" + englishName + ")")
	}
	sb.WriteString("\n\n")
	sb.WriteString(render.Markdown(blocks))

	if n := diag.DroppedCount(); n > 0 {
		fmt.Fprintf(&sb, "\n*%d content item(s) could not be rendered.*\n", n)
	}

	return textResult(sb.String()), nil, nil
}

// HandleList lists the available design records.
func (h *DesignHandler) HandleList(ctx context.Context, req *mcp.CallToolRequest, args ListDesignsArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}
	snap := h.service.Snapshot()
	slugs := snap.DesignSlugs()
	if len(slugs) == 0 {
		return textResult("No design records are loaded."), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d design records:\n\n", len(slugs))
	for _, slug := range slugs {
		name, englishName := render.RecordTitle(snap.Designs[slug])
		line := "- " + slug
		if name != "" {
			line += ": " + name
			if englishName != "" {
				line += " (" + englishName + ")"
			}
		}
		sb.WriteString(line + "\n")
	}
	return textResult(sb.String()), nil, nil
}

// GetToolDefinition returns the design lookup tool definition.
func (h *DesignHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_design",
		Description: "Render a lens design record (history, structure, characteristics, references) as markdown",
	}
}

// GetListToolDefinition returns the design listing tool definition.
func (h *DesignHandler) GetListToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_designs",
		Description: "List the available lens design records",
	}
}

// RegisterDesignTools registers the design tools with an MCP server.
func RegisterDesignTools(server *mcp.Server, service *Service) {
	handler := NewDesignHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.HandleGet)
	mcp.AddTool(server, handler.GetListToolDefinition(), handler.HandleList)
}

// ---- shared result helpers ----

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func notReadyResult() *mcp.CallToolResult {
	return errorResult("Content is not available yet. The catalog is still loading. Please try again later.")
}
