package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsukino/mcp-lensref-server/internal/config"
	"github.com/tsukino/mcp-lensref-server/internal/content"
)

func TestCreateServer(t *testing.T) {
	cfg := ServerConfig{
		Name:    "test-server",
		Version: "1.0.0",
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created")
	}
}

func TestCreateServer_EmptyConfig(t *testing.T) {
	cfg := ServerConfig{}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created even with empty config")
	}
}

func TestCreateServer_WithVersion(t *testing.T) {
	cfg := ServerConfig{
		Name:    "lensref-mcp",
		Version: "2.0.0",
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created")
	}
}

func TestCreateServer_WithoutContentService(t *testing.T) {
	cfg := ServerConfig{
		Name:       "test-server",
		Version:    "1.0.0",
		ContentSvc: nil,
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created without content service")
	}
}

func TestCreateServer_WithContentService(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"designs", "lenses", "terms"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatalf("Failed to create %s dir: %v", sub, err)
		}
	}

	settings := &config.ContentSettings{
		DataDir:    dir,
		MaxResults: 20,
	}

	svc, err := content.NewService(settings)
	if err != nil {
		t.Fatalf("Failed to create content service: %v", err)
	}
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("Failed to close service: %v", err)
		}
	}()
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Failed to initialize content service: %v", err)
	}

	cfg := ServerConfig{
		Name:       "test-server",
		Version:    "1.0.0",
		ContentSvc: svc,
	}

	server := CreateServer(cfg)
	if server == nil {
		t.Fatal("Expected server to be created with content service")
	}
}
