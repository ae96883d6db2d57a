package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsukino/mcp-lensref-server/internal/catalog"
	"github.com/tsukino/mcp-lensref-server/internal/domain"
)

// FilterArgument defines faceted filter parameters. Every facet is
// optional; an omitted facet leaves the catalog unconstrained on it.
type FilterArgument struct {
	Decades       []string `json:"decades,omitempty" jsonschema_description:"Release decades (e.g., 1950s, 1960s)"`
	DesignTypes   []string `json:"design_types,omitempty" jsonschema_description:"Design type labels (e.g., ダブルガウス型)"`
	Manufacturers []string `json:"manufacturers,omitempty" jsonschema_description:"Manufacturer identifiers"`
	PriceBuckets  []string `json:"price_buckets,omitempty" jsonschema_description:"Price preset keys: under_1, 1_to_3, over_3"`
	Coatings      []string `json:"coatings,omitempty" jsonschema_description:"Coating labels, matched against the record's coating description"`
	Traits        []string `json:"traits,omitempty" jsonschema_description:"Rendering trait tokens (e.g., swirly_bokeh)"`
	PriceMin      string   `json:"price_min,omitempty" jsonschema_description:"Custom price lower bound in JPY"`
	PriceMax      string   `json:"price_max,omitempty" jsonschema_description:"Custom price upper bound in JPY"`
}

// FilterHandler handles the filter MCP tool.
type FilterHandler struct {
	service *Service
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(service *Service) *FilterHandler {
	return &FilterHandler{service: service}
}

// Handle applies the facet filters to the catalog.
func (h *FilterHandler) Handle(ctx context.Context, req *mcp.CallToolRequest, args FilterArgument) (*mcp.CallToolResult, any, error) {
	if !h.service.IsReady() {
		return notReadyResult(), nil, nil
	}

	state := catalog.FilterState{
		Decades:       catalog.NewFacetSet(args.Decades...),
		DesignTypes:   catalog.NewFacetSet(args.DesignTypes...),
		Manufacturers: catalog.NewFacetSet(args.Manufacturers...),
		PriceBuckets:  catalog.NewFacetSet(args.PriceBuckets...),
		Coatings:      catalog.NewFacetSet(args.Coatings...),
		Traits:        catalog.NewFacetSet(args.Traits...),
	}

	priceRange, err := catalog.ParsePriceQuery(args.PriceMin, args.PriceMax)
	if err != nil {
		return errorResult(fmt.Sprintf("Invalid price range: min=%q max=%q (bounds must be non-negative integers with min <= max)", args.PriceMin, args.PriceMax)), nil, nil
	}
	state.PriceRange = priceRange

	matched := h.service.Engine().Filter(h.service.Lenses(), state)
	return h.formatResults(matched, state), nil, nil
}

// formatResults formats the matching lenses plus the canonical query
// string for the state, so clients can link to the filtered catalog
// view.
func (h *FilterHandler) formatResults(matched []*domain.Lens, state catalog.FilterState) *mcp.CallToolResult {
	var sb strings.Builder
	if len(matched) == 0 {
		sb.WriteString("No lenses match the selected filters.\n")
	} else {
		fmt.Fprintf(&sb, "%d lenses match:\n\n", len(matched))
		for _, lens := range matched {
			fmt.Fprintf(&sb, "- %s: %s", lens.Meta.Slug, lens.Meta.Name)
			if lens.Meta.ReleaseYear != 0 {
				fmt.Fprintf(&sb, " (%d)", lens.Meta.ReleaseYear)
			}
			sb.WriteString("\n")
		}
	}
	if !state.Empty() {
		fmt.Fprintf(&sb, "\nCatalog URL query: ?%s\n", catalog.EncodeQuery(state).Encode())
	}
	return textResult(sb.String())
}

// GetToolDefinition returns the MCP tool definition.
func (h *FilterHandler) GetToolDefinition() *mcp.Tool {
	return &mcp.Tool{
		Name:        "filter_lenses",
		Description: "Filter the lens catalog by decade, design type, manufacturer, price, coating and rendering traits",
	}
}

// RegisterFilterTool registers the filter tool with an MCP server.
func RegisterFilterTool(server *mcp.Server, service *Service) {
	handler := NewFilterHandler(service)
	mcp.AddTool(server, handler.GetToolDefinition(), handler.Handle)
}
