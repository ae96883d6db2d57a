package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/tsukino/mcp-lensref-server/internal/domain"
	"gopkg.in/yaml.v3"
)

// Config is the static lookup data the renderer depends on: display
// labels for known field names and the term-link dictionary. It is
// plain data, injected at construction so the tables stay testable and
// operator-extensible.
type Config struct {
	SectionTitles    map[string]string            `yaml:"section_titles"`
	SubsectionLabels map[string]map[string]string `yaml:"subsection_labels"`
	TermLinks        []domain.TermLink            `yaml:"term_links"`
}

// DefaultConfig returns the built-in label tables and term dictionary.
func DefaultConfig() *Config {
	return &Config{
		SectionTitles: map[string]string{
			"origin":                      "由来",
			"historical_development":      "歴史的発展",
			"basic_structure":             "基本構成",
			"design_philosophy":           "設計思想",
			"optical_characteristics":     "光学特性",
			"rendering_character":         "描写特性",
			"operational_characteristics": "使用面での特性",
			"variants":                    "バリエーション",
			"modern_evolution":            "現代的展開",
			"references":                  "参考文献",
			"lens_list":                   "レンズ一覧",
			"optical_formula":             "光学構成図",
		},
		SubsectionLabels: map[string]map[string]string{
			"origin": {
				"base_design":             "基本設計",
				"photographic_adaptation": "写真用適応",
			},
			"basic_structure": {
				"layout_overview":        "構成概要",
				"typical_configurations": "典型構成",
				"symmetry":               "対称性",
				"design_philosophy":      "設計思想",
			},
			"optical_characteristics": {
				"center":                          "中心",
				"peripheral":                      "周辺",
				"spherical":                       "球面収差",
				"coma":                            "コマ収差",
				"astigmatism_and_field_curvature": "非点収差・像面湾曲",
				"chromatic_aberration":            "色収差",
				"field_curvature":                 "像面湾曲",
				"distortion":                      "歪曲",
				"maximum_aperture_evolution":      "最大F値の変遷",
				"vignetting":                      "周辺減光",
				"contrast":                        "コントラスト",
				"aberrations":                     "収差",
				"sharpness":                       "シャープネス",
			},
			"rendering_character": {
				"bokeh":                "ボケ",
				"three_dimensionality": "立体感",
				"flare_resistance":     "フレア耐性",
				"color_rendering":      "色再現",
			},
			"operational_characteristics": {
				"size_and_weight":      "サイズ・重量",
				"typical_focal_length": "典型焦点距離",
				"manufacturing_cost":   "製造コスト",
			},
			"modern_evolution": {
				"digital_optimization": "デジタル最適化",
				"current_position":     "現代的地位",
			},
		},
		TermLinks: []domain.TermLink{
			{Term: "正メニスカス", Slug: "positive_meniscus"},
			{Term: "負メニスカス", Slug: "negative_meniscus"},
			{Term: "色消しレンズ", Slug: "achromat"},
		},
	}
}

// LoadConfig reads a YAML override file on top of the defaults. Only
// the keys present in the file are replaced. Unknown YAML keys are
// ignored so the same file can carry catalog vocabulary too.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read render config: %w", err)
	}
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse render config: %w", err)
	}
	if len(override.SectionTitles) > 0 {
		cfg.SectionTitles = override.SectionTitles
	}
	if len(override.SubsectionLabels) > 0 {
		cfg.SubsectionLabels = override.SubsectionLabels
	}
	if len(override.TermLinks) > 0 {
		cfg.TermLinks = override.TermLinks
	}
	return cfg, nil
}

// sectionTitle resolves a field name to its display label, falling back
// to a cosmetic transform of the raw key.
func (c *Config) sectionTitle(field string) string {
	if t, ok := c.SectionTitles[field]; ok {
		return t
	}
	return prettifyKey(field)
}

// subsectionLabel resolves a sub-field label within a named section.
func (c *Config) subsectionLabel(section, key string) string {
	if m, ok := c.SubsectionLabels[section]; ok {
		if l, ok := m[key]; ok {
			return l
		}
	}
	return prettifyKey(key)
}

func prettifyKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
