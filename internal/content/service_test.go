package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tsukino/mcp-lensref-server/internal/config"
	"github.com/tsukino/mcp-lensref-server/internal/render"
)

func testContentSettings(dataDir string) *config.ContentSettings {
	return &config.ContentSettings{DataDir: dataDir, MaxResults: 20}
}

func newTestService(t *testing.T, dataDir string) *Service {
	t.Helper()
	svc, err := NewService(testContentSettings(dataDir))
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	if err := svc.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return svc
}

func TestNewService_NilSettings(t *testing.T) {
	if _, err := NewService(nil); err == nil {
		t.Error("Expected error for nil settings")
	}
}

func TestNewService_MissingDataDir(t *testing.T) {
	_, err := NewService(&config.ContentSettings{DataDir: "/nonexistent/lensref-data"})
	if err == nil {
		t.Error("Expected error for missing data directory")
	}
}

func TestService_InitializeAndAccessors(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, DesignsDir, "tessar.json",
		`{"meta": {"name": "テッサー"}, "origin": {"base_design": "トリプレット"}}`)
	writeRecord(t, dataDir, LensesDir, "elmar-50.json",
		`{"meta": {"name": "Elmar 50mm"}}`)
	writeRecord(t, dataDir, TermsDir, "achromat.json",
		`{"title": "色消しレンズ"}`)

	svc := newTestService(t, dataDir)
	if !svc.IsReady() {
		t.Fatal("Expected service to be ready after initialize")
	}
	if _, err := svc.Design("tessar"); err != nil {
		t.Errorf("Design lookup failed: %v", err)
	}
	lens, err := svc.Lens("elmar-50")
	if err != nil {
		t.Fatalf("Lens lookup failed: %v", err)
	}
	if lens.Meta.Slug != "elmar-50" {
		t.Errorf("Slug = %q", lens.Meta.Slug)
	}
	if _, err := svc.Term("achromat"); err != nil {
		t.Errorf("Term lookup failed: %v", err)
	}
	if got := len(svc.Lenses()); got != 1 {
		t.Errorf("Lenses() = %d records, want 1", got)
	}
	if svc.Engine() == nil {
		t.Error("Expected a filter engine")
	}
}

func TestService_NotFound(t *testing.T) {
	svc := newTestService(t, t.TempDir())

	for name, lookup := range map[string]func() error{
		"design": func() error { _, err := svc.Design("missing"); return err },
		"lens":   func() error { _, err := svc.Lens("missing"); return err },
		"term":   func() error { _, err := svc.Term("missing"); return err },
	} {
		if err := lookup(); !errors.Is(err, ErrNotFound) {
			t.Errorf("%s lookup: expected ErrNotFound, got %v", name, err)
		}
	}
}

func TestService_RenderDesign(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, DesignsDir, "tessar.json",
		`{"origin": {"base_design": "トリプレット"}, "references": [{"id": 1, "title": "Ref"}]}`)

	svc := newTestService(t, dataDir)
	blocks, diag, err := svc.RenderDesign("tessar")
	if err != nil {
		t.Fatalf("RenderDesign failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}
	if diag == nil || diag.DroppedCount() != 0 {
		t.Errorf("Unexpected diagnostics: %+v", diag)
	}

	if _, _, err := svc.RenderDesign("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestService_TermLinksFlowIntoRenderer(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, TermsDir, "petzval.json", `{"title": "ペッツヴァール型"}`)
	writeRecord(t, dataDir, DesignsDir, "portrait.json",
		`{"historical_development": [{"year": 1840, "description": "ペッツヴァール型の登場"}]}`)

	svc := newTestService(t, dataDir)
	blocks, _, err := svc.RenderDesign("portrait")
	if err != nil {
		t.Fatalf("RenderDesign failed: %v", err)
	}
	md := render.Markdown(blocks)
	if !strings.Contains(md, "[ペッツヴァール型](/terms/petzval)") {
		t.Errorf("Expected loaded term to auto-link:\n%s", md)
	}
}

func TestService_CatalogLinkWinsForLensSlugs(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, LensesDir, "petzval.json", `{"meta": {"name": "Petzval Portrait"}}`)
	writeRecord(t, dataDir, TermsDir, "petzval.json", `{"title": "ペッツヴァール型"}`)
	writeRecord(t, dataDir, DesignsDir, "portrait.json",
		`{"historical_development": [{"year": 1840, "description": "ペッツヴァール型の登場"}]}`)

	svc := newTestService(t, dataDir)
	blocks, _, err := svc.RenderDesign("portrait")
	if err != nil {
		t.Fatalf("RenderDesign failed: %v", err)
	}
	md := render.Markdown(blocks)
	if !strings.Contains(md, "[ペッツヴァール型](/lenses/petzval)") {
		t.Errorf("Expected catalog page to win over the glossary:\n%s", md)
	}
}

func TestService_Reload(t *testing.T) {
	dataDir := t.TempDir()
	svc := newTestService(t, dataDir)
	if _, err := svc.Lens("new-lens"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Unexpected error: %v", err)
	}

	writeRecord(t, dataDir, LensesDir, "new-lens.json", `{"meta": {"name": "New"}}`)
	if err := svc.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if _, err := svc.Lens("new-lens"); err != nil {
		t.Errorf("Expected record after reload, got %v", err)
	}
}

func TestService_SearchAfterInitialize(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, LensesDir, "sonnar-50.json",
		`{"meta": {"name": "Sonnar 50mm"}, "editorial": {"summary": "Fast portrait lens"}}`)

	svc := newTestService(t, dataDir)
	hits, total, err := svc.Search("portrait", "", "")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if total != 1 || hits[0].Slug != "sonnar-50" {
		t.Errorf("Unexpected search result: total=%d hits=%+v", total, hits)
	}
}

func TestService_CloseIsIdempotent(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Errorf("Second close must be a no-op, got %v", err)
	}
}
