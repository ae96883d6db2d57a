package content

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tsukino/mcp-lensref-server/internal/render"
)

func writeRecord(t *testing.T, dataDir, sub, name, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestStoreLoad(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, DesignsDir, "tessar.json",
		`{"meta": {"name": "テッサー"}, "origin": {"base_design": "トリプレット"}}`)
	writeRecord(t, dataDir, LensesDir, "elmar-50.json",
		`{"meta": {"slug": "elmar-50", "name": "Elmar 50mm"}}`)
	writeRecord(t, dataDir, TermsDir, "achromat.json",
		`{"title": "色消しレンズ", "content": "色収差を補正したレンズ", "era": "1820s"}`)

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Designs) != 1 || len(snap.Lenses) != 1 || len(snap.Terms) != 1 {
		t.Fatalf("Unexpected snapshot counts: %d/%d/%d",
			len(snap.Designs), len(snap.Lenses), len(snap.Terms))
	}
	if snap.Designs["tessar"] == nil {
		t.Error("Design slug must come from the file name")
	}
	if snap.Lenses["elmar-50"].Meta.Name != "Elmar 50mm" {
		t.Errorf("Unexpected lens: %+v", snap.Lenses["elmar-50"])
	}
	term := snap.Terms["achromat"]
	if term.Title != "色消しレンズ" || term.Slug != "achromat" {
		t.Errorf("Unexpected term: %+v", term)
	}
	if _, ok := term.Fields["era"]; !ok {
		t.Error("Unknown term fields must be kept in the field map")
	}
	if _, ok := term.Fields["title"]; ok {
		t.Error("Typed term fields must not repeat in the field map")
	}
}

func TestStoreLoad_SlugFallbackFromFilename(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, LensesDir, "sonnar-50.json", `{"meta": {"name": "Sonnar"}}`)

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if snap.Lenses["sonnar-50"].Meta.Slug != "sonnar-50" {
		t.Errorf("Slug = %q, want filename fallback", snap.Lenses["sonnar-50"].Meta.Slug)
	}
}

func TestStoreLoad_YAMLRecord(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, DesignsDir, "petzval.yaml",
		"meta:\n  name: ペッツヴァール\norigin:\n  base_design: 計算設計\n")

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc := snap.Designs["petzval"]
	if doc == nil {
		t.Fatal("Expected YAML design to load")
	}
	name, _ := render.RecordTitle(doc)
	if name != "ペッツヴァール" {
		t.Errorf("Unexpected meta name: %q", name)
	}
}

func TestStoreLoad_YAMLKeepsKeyOrder(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, DesignsDir, "tessar.yaml",
		"origin:\n  base_design: トリプレット\nvariants: []\nhistorical_development: []\nbasic_structure:\n  layout_overview: 3群4枚\n")

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	doc := snap.Designs["tessar"]
	if doc == nil {
		t.Fatal("Expected YAML design to load")
	}
	got := doc.Keys()
	want := []string{"origin", "variants", "historical_development", "basic_structure"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want document order %v", got, want)
	}
}

func TestStoreLoad_BadFileAggregatedNotFatal(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, LensesDir, "good.json", `{"meta": {"name": "Good"}}`)
	writeRecord(t, dataDir, LensesDir, "bad.json", `{not json`)

	snap, err := NewStore(dataDir).Load()
	if err == nil {
		t.Error("Expected aggregated error for the bad record")
	}
	if snap == nil {
		t.Fatal("Snapshot must be usable despite per-file failures")
	}
	if len(snap.Lenses) != 1 {
		t.Errorf("Expected the good record to survive, got %d", len(snap.Lenses))
	}
}

func TestStoreLoad_IgnoresUnrelatedFiles(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, DesignsDir, "notes.txt", "not a record")
	writeRecord(t, dataDir, DesignsDir, "tessar.json", `{"meta": {"name": "テッサー"}}`)

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Designs) != 1 {
		t.Errorf("Expected non-record files skipped, got %d designs", len(snap.Designs))
	}
}

func TestStoreLoad_MissingSubdirsAreEmpty(t *testing.T) {
	snap, err := NewStore(t.TempDir()).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Designs) != 0 || len(snap.Lenses) != 0 || len(snap.Terms) != 0 {
		t.Errorf("Expected empty snapshot, got %+v", snap)
	}
}

func TestSnapshot_LensListStableOrder(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, LensesDir, "zunow-50.json", `{"meta": {"name": "Zunow"}}`)
	writeRecord(t, dataDir, LensesDir, "elmar-50.json", `{"meta": {"name": "Elmar"}}`)

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.LensList) != 2 {
		t.Fatalf("Expected 2 lenses, got %d", len(snap.LensList))
	}
	if snap.LensList[0].Meta.Slug != "elmar-50" {
		t.Errorf("Expected slug order, got %q first", snap.LensList[0].Meta.Slug)
	}
}

func TestSnapshot_TermLinks(t *testing.T) {
	dataDir := t.TempDir()
	writeRecord(t, dataDir, TermsDir, "achromat.json", `{"title": "色消しレンズ"}`)
	writeRecord(t, dataDir, TermsDir, "untitled.json", `{"content": "no title"}`)

	snap, err := NewStore(dataDir).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	links := snap.TermLinks()
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	found := map[string]string{}
	for _, l := range links {
		found[l.Slug] = l.Term
	}
	if found["achromat"] != "色消しレンズ" {
		t.Errorf("Expected title as display text, got %q", found["achromat"])
	}
	if found["untitled"] != "untitled" {
		t.Errorf("Expected slug fallback for untitled term, got %q", found["untitled"])
	}
}
