package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsukino/mcp-lensref-server/internal/catalog"
	"github.com/tsukino/mcp-lensref-server/internal/domain"
)

// LensArgument defines lens lookup parameters.
type LensArgument struct {
	Slug string `json:"slug" jsonschema_description:"Lens record slug (e.g., canon-50mm-f1-4-ltm)"`
}

// ListLensesArgument defines lens listing parameters.
type ListLensesArgument struct {
	Manufacturer string `json:"manufacturer,omitempty" jsonschema_description:"Only list lenses by this manufacturer"`
}

// TermArgument defines glossary lookup parameters.
type TermArgument struct {
	Slug string `json:"slug" jsonschema_description:"Glossary term slug (e.g., spherical-aberration)"`
}

// LensHandler handles the lens and glossary MCP tools.
type LensHandler struct {
	service *Service
}

// NewLensHandler creates a new lens handler.
func NewLensHandler(service *Service) *LensHandler {
	return &LensHandler{service: service}
}

// HandleGet formats one lens record.
func (h *LensHandler) HandleGet(ctx context.Context, req *mcp.CallToolRequest, args LensArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}
	slug := strings.TrimSpace(args.Slug)
	if slug == "" {
		return errorResult("Slug cannot be empty"), nil, nil
	}
	lens, err := h.service.Lens(slug)
	if err != nil {
		return errorResult(fmt.Sprintf("Lens not found: %s", slug)), nil, nil
	}
	return textResult(h.formatLens(lens)), nil, nil
}

// HandleList lists the lens catalog, optionally narrowed to one
// manufacturer.
func (h *LensHandler) HandleList(ctx context.Context, req *mcp.CallToolRequest, args ListLensesArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}
	lenses := h.service.Lenses()
	if args.Manufacturer != "" {
		var filtered []*domain.Lens
		for _, lens := range lenses {
			if lens.Meta.ManufacturerID == args.Manufacturer {
				filtered = append(filtered, lens)
			}
		}
		lenses = filtered
	}
	if len(lenses) == 0 {
		return textResult("No lenses match."), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d lenses:\n\n", len(lenses))
	for _, lens := range lenses {
		fmt.Fprintf(&sb, "- %s: %s", lens.Meta.Slug, lens.Meta.Name)
		if lens.Meta.ManufacturerID != "" {
			fmt.Fprintf(&sb, " (%s", lens.Meta.ManufacturerID)
			if lens.Meta.ReleaseYear != 0 {
				fmt.Fprintf(&sb, ", %d", lens.Meta.ReleaseYear)
			}
			sb.WriteString(")")
		} else if lens.Meta.ReleaseYear != 0 {
			fmt.Fprintf(&sb, " (%d)", lens.Meta.ReleaseYear)
		}
		sb.WriteString("\n")
	}
	return textResult(sb.String()), nil, nil
}

// HandleTerm returns one glossary term.
func (h *LensHandler) HandleTerm(ctx context.Context, req *mcp.CallToolRequest, args TermArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}
	slug := strings.TrimSpace(args.Slug)
	if slug == "" {
		return errorResult("Slug cannot be empty"), nil, nil
	}
	term, err := h.service.Term(slug)
	if err != nil {
		return errorResult(fmt.Sprintf("Term not found: %s", slug)), nil, nil
	}

	var sb strings.Builder
	title := term.Title
	if title == "" {
		title = term.Slug
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if term.Content != "" {
		sb.WriteString(term.Content)
		sb.WriteString("\n")
	}
	return textResult(sb.String()), nil, nil
}

// formatLens renders a lens detail view. Facet values go through the
// same resolution the filter engine uses, so what the tool reports is
// what the filters match on.
func (h *LensHandler) formatLens(lens *domain.Lens) string {
	vocab := h.service.Engine().Vocabulary()
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", lens.Meta.Name)
	writeField := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "**%s**: %s\n", label, value)
		}
	}
	writeField("Manufacturer", lens.Meta.ManufacturerID)
	if lens.Meta.ReleaseYear != 0 {
		writeField("Released", fmt.Sprintf("%d (%s)", lens.Meta.ReleaseYear, catalog.YearToDecade(lens.Meta.ReleaseYear)))
	}
	if dt := catalog.DesignType(lens); dt != "" {
		writeField("Design type", vocab.DesignTypeLabel(dt))
	}
	writeField("Mount", lens.Meta.MountID)
	writeField("Coating", catalog.CoatingDescription(lens))
	if pr := catalog.PriceRange(lens); pr != nil {
		writeField("Price range", fmt.Sprintf("¥%d to ¥%d", pr.Min, pr.Max))
	}
	if traits := catalog.Characteristics(lens); len(traits) > 0 {
		writeField("Rendering traits", strings.Join(traits, ", "))
	}
	if spec := lens.Specifications; spec.FocalLengthMM > 0 && spec.MaxAperture > 0 {
		writeField("Optics", fmt.Sprintf("%gmm f/%g", spec.FocalLengthMM, spec.MaxAperture))
	}
	if oc := lens.OpticalConstruction; oc.Elements > 0 && oc.Groups > 0 {
		writeField("Construction", fmt.Sprintf("%d elements in %d groups", oc.Elements, oc.Groups))
	}

	if lens.Editorial.Summary != "" {
		sb.WriteString("\n" + lens.Editorial.Summary + "\n")
	}
	return sb.String()
}

// GetToolDefinition returns the lens lookup tool definition.
func (h *LensHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_lens",
		Description: "Show a lens record: specs, coating, price range and rendering traits",
	}
}

// GetListToolDefinition returns the lens listing tool definition.
func (h *LensHandler) GetListToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_lenses",
		Description: "List the lens catalog, optionally filtered by manufacturer",
	}
}

// GetTermToolDefinition returns the glossary tool definition.
func (h *LensHandler) GetTermToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_term",
		Description: "Look up an optics glossary term",
	}
}

// RegisterLensTools registers the lens and glossary tools with an MCP
// server.
func RegisterLensTools(server *mcp.Server, service *Service) {
	handler := NewLensHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.HandleGet)
	mcp.AddTool(server, handler.GetListToolDefinition(), handler.HandleList)
	mcp.AddTool(server, handler.GetTermToolDefinition(), handler.HandleTerm)
}
