package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsukino/mcp-lensref-server/internal/content"
)

// ServerConfig contains configuration for creating an MCP server
type ServerConfig struct {
	Name       string
	Version    string
	ContentSvc *content.Service
}

// CreateServer creates and configures the MCP server
func CreateServer(cfg ServerConfig) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	if cfg.ContentSvc != nil {
		content.RegisterDesignTools(s, cfg.ContentSvc)
		content.RegisterLensTools(s, cfg.ContentSvc)
		content.RegisterFilterTool(s, cfg.ContentSvc)
		content.RegisterSearchTool(s, cfg.ContentSvc)
	}

	return s
}
