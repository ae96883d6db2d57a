package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tsukino/mcp-lensref-server/internal/domain"
)

func TestYearToDecade(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1962, "1960s"},
		{1959, "1950s"},
		{1850, "1850s"},
		{2021, "2020s"},
		{0, ""},
	}
	for _, tt := range tests {
		if got := YearToDecade(tt.year); got != tt.want {
			t.Errorf("YearToDecade(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

func TestDefaultVocabulary_Decades(t *testing.T) {
	v := DefaultVocabulary()
	if len(v.Decades) != 18 {
		t.Fatalf("Expected 18 decades, got %d", len(v.Decades))
	}
	if v.Decades[0] != "1850s" {
		t.Errorf("First decade = %q, want 1850s", v.Decades[0])
	}
	if v.Decades[len(v.Decades)-1] != "2020s" {
		t.Errorf("Last decade = %q, want 2020s", v.Decades[len(v.Decades)-1])
	}
}

func TestDesignTypeLabel(t *testing.T) {
	v := DefaultVocabulary()
	if got := v.DesignTypeLabel("tessar"); got != "テッサー型" {
		t.Errorf("DesignTypeLabel(tessar) = %q", got)
	}
	if got := v.DesignTypeLabel("unknown_type"); got != "unknown_type" {
		t.Errorf("Expected raw token fallback, got %q", got)
	}
}

func TestDesignType_MetaWins(t *testing.T) {
	lens := &domain.Lens{}
	lens.Classification.DesignType = "tessar"
	if got := DesignType(lens); got != "tessar" {
		t.Errorf("DesignType = %q, want tessar", got)
	}

	lens.Meta.DesignType = "sonnar"
	if got := DesignType(lens); got != "sonnar" {
		t.Errorf("Expected meta to take precedence, got %q", got)
	}
}

func TestCoatingDescription_ConcatenatesFields(t *testing.T) {
	lens := &domain.Lens{}
	lens.Meta.Coating = "単層コーティング"
	lens.Coating.Type = "MgF2"
	lens.Coating.Notes = "前玉のみ"
	if got := CoatingDescription(lens); got != "単層コーティング MgF2 前玉のみ" {
		t.Errorf("CoatingDescription = %q", got)
	}

	empty := &domain.Lens{}
	if got := CoatingDescription(empty); got != "" {
		t.Errorf("Expected empty description, got %q", got)
	}
}

func TestPriceRange_MetaWins(t *testing.T) {
	lens := &domain.Lens{}
	if PriceRange(lens) != nil {
		t.Error("Expected nil price for record without price data")
	}

	lens.MarketInfo.PriceRangeJPY = &domain.PriceSpan{Min: 10000, Max: 30000}
	if pr := PriceRange(lens); pr == nil || pr.Min != 10000 {
		t.Errorf("Expected market price span, got %+v", pr)
	}

	lens.Meta.PriceRange = &domain.PriceSpan{Min: 5000, Max: 8000}
	if pr := PriceRange(lens); pr == nil || pr.Min != 5000 {
		t.Errorf("Expected meta price span to win, got %+v", pr)
	}
}

func TestCharacteristics_FallsBackToCategoryTags(t *testing.T) {
	lens := &domain.Lens{}
	lens.Classification.CategoryTags = []string{"swirly_bokeh"}
	if got := Characteristics(lens); len(got) != 1 || got[0] != "swirly_bokeh" {
		t.Errorf("Expected category tag fallback, got %v", got)
	}

	lens.Meta.Characteristics = []string{"soap_bubble_bokeh"}
	if got := Characteristics(lens); len(got) != 1 || got[0] != "soap_bubble_bokeh" {
		t.Errorf("Expected explicit trait list to win, got %v", got)
	}
}

func TestLoadVocabulary_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocab.yaml")
	content := []byte("design_type_labels:\n  tessar: \"Tessar type\"\ndecades:\n  - \"1900s\"\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("Failed to write vocabulary: %v", err)
	}

	v, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if v.DesignTypeLabel("tessar") != "Tessar type" {
		t.Errorf("Expected override label, got %q", v.DesignTypeLabel("tessar"))
	}
	if len(v.Decades) != 1 {
		t.Errorf("Expected overridden decades, got %v", v.Decades)
	}
	// Keys absent from the file keep their defaults.
	if len(v.PriceBuckets) != 3 {
		t.Errorf("Expected default price buckets, got %v", v.PriceBuckets)
	}
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	if _, err := LoadVocabulary("/nonexistent/vocab.yaml"); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadVocabulary_EmptyPathUsesDefaults(t *testing.T) {
	v, err := LoadVocabulary("")
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if v.DesignTypeLabel("double_gauss") != "ダブルガウス型" {
		t.Errorf("Expected default label, got %q", v.DesignTypeLabel("double_gauss"))
	}
}
