package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/tsukino/mcp-lensref-server/internal/domain"
	"gopkg.in/yaml.v3"
)

// Vocabulary is the static facet data the filter engine depends on:
// label maps, price presets and facet option groupings. It is injected
// configuration, not logic; the defaults mirror the shipped catalog and
// an operator can override them from YAML.
type Vocabulary struct {
	// DesignTypeLabels maps raw design-type tokens to their display
	// labels. Facet matching happens on the label, not the raw token.
	DesignTypeLabels map[string]string `yaml:"design_type_labels"`

	// PriceBuckets maps legacy bucket keys to [min, max] JPY ranges.
	PriceBuckets map[string]PriceBucket `yaml:"price_buckets"`

	// CoatingOptions are the selectable coating facet labels.
	CoatingOptions []string `yaml:"coating_options"`

	// TraitGroups are the selectable rendering-trait tokens, grouped
	// for presentation.
	TraitGroups []OptionGroup `yaml:"trait_groups"`

	// ManufacturerGroups are the manufacturer facet groupings
	// (popular list plus regional groups).
	ManufacturerPopular []string      `yaml:"manufacturer_popular"`
	ManufacturerRegions []OptionGroup `yaml:"manufacturer_regions"`

	// Decades are the selectable decade tokens, oldest first.
	Decades []string `yaml:"decades"`
}

// OptionGroup is a labeled group of facet options.
type OptionGroup struct {
	Label   string   `yaml:"label"`
	Options []string `yaml:"options"`
}

// PriceBucket is a closed JPY interval for a legacy price facet key.
type PriceBucket struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// DefaultVocabulary returns the built-in facet data.
func DefaultVocabulary() *Vocabulary {
	decades := make([]string, 0, 18)
	for year := 1850; year <= 2020; year += 10 {
		decades = append(decades, fmt.Sprintf("%ds", year))
	}
	return &Vocabulary{
		DesignTypeLabels: map[string]string{
			"single_meniscus":   "単メニスカス",
			"achromat":          "色消し",
			"petzval":           "ペッツヴァール型",
			"rapid_rectilinear": "ラピッド・レクチリニア型",
			"cooke_triplet":     "クック・トリプレット型",
			"tessar":            "テッサー型",
			"double_gauss":      "ダブルガウス型",
			"sonnar":            "ゾナー型",
			"ernostar":          "エルノスター型",
			"retrofocus":        "レトロフォーカス型",
			"telephoto":         "望遠型",
			"fisheye":           "魚眼",
		},
		PriceBuckets: map[string]PriceBucket{
			"under_1": {Min: 0, Max: 10000},
			"1_to_3":  {Min: 10000, Max: 30000},
			"over_3":  {Min: 30000, Max: 1_000_000_000},
		},
		CoatingOptions: []string{
			"ノンコート",
			"単層コーティング",
			"単層 MgF2 コーティング",
			"アンバー系単層コーティング",
			"ソフトコート",
			"ハードコート",
			"2層コーティング",
			"3層以上の初期マルチコーティング",
			"一般的マルチコーティング",
			"T コーティング",
			"T* コーティング",
			"SMC (Super-Multi-Coated)",
			"HMC (Hard Multi Coating)",
			"SHMC (Super Hydrophobic Multi Coating)",
			"各社固有名のマルチコート",
		},
		TraitGroups: []OptionGroup{
			{Label: "contrast", Options: []string{
				"high_contrast", "low_contrast", "medium_contrast",
				"microcontrast_high", "microcontrast_low", "contrast_drop_backlight",
			}},
			{Label: "resolution", Options: []string{
				"high_resolution", "low_resolution", "sharp_center", "soft_center",
				"sharp_edges", "soft_edges", "chromatic_aberration_strong",
				"chromatic_aberration_controlled", "spherochromatism_strong",
				"spherochromatism_light", "edge_halo_strong", "edge_halo_light",
			}},
			{Label: "bokeh", Options: []string{
				"soap_bubble_bokeh", "smooth_bokeh", "nervous_bokeh", "swirly_bokeh",
				"onion_ring_bokeh", "busy_background", "bokeh_cat_eye", "bokeh_round",
				"bokeh_polygonal", "bokeh_oval", "transition_hard", "transition_soft",
			}},
			{Label: "color", Options: []string{
				"color_warm", "color_cool", "color_neutral", "color_muted",
				"color_vivid", "color_pastel",
			}},
			{Label: "distortion", Options: []string{
				"distortion_barrel", "distortion_pincushion", "distortion_mustache",
				"field_curvature_strong", "field_curvature_weak", "vignetting_strong",
				"vignetting_light", "focus_shift_strong", "focus_shift_minor",
			}},
			{Label: "flare", Options: []string{
				"flare_prone", "flare_resistant", "ghost_strong", "ghost_controlled",
				"flare_veiling", "backlight_resistant",
			}},
			{Label: "rendering", Options: []string{
				"flat_rendering", "3d_pop", "glow_wide_open", "crisp_stopped_down",
				"soft_focus", "rendering_classic", "rendering_modern",
				"rendering_neutral", "rendering_dreamy",
			}},
		},
		ManufacturerPopular: []string{"Canon", "Nikon", "Carl Zeiss", "Leica"},
		ManufacturerRegions: []OptionGroup{
			{Label: "ドイツ・オーストリア圏", Options: []string{"Voigtländer & Sohn", "Carl Zeiss"}},
			{Label: "フランス", Options: []string{"Charles Chevalier", "Lerebours"}},
			{Label: "日本", Options: []string{"Canon", "Nikon", "asahi_pentax"}},
		},
		Decades: decades,
	}
}

// LoadVocabulary reads a YAML override on top of the defaults. Only
// keys present in the file replace the built-ins; unknown keys are
// ignored so the file can be shared with the render configuration.
func LoadVocabulary(path string) (*Vocabulary, error) {
	vocab := DefaultVocabulary()
	if path == "" {
		return vocab, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog vocabulary: %w", err)
	}
	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse catalog vocabulary: %w", err)
	}
	if len(override.DesignTypeLabels) > 0 {
		vocab.DesignTypeLabels = override.DesignTypeLabels
	}
	if len(override.PriceBuckets) > 0 {
		vocab.PriceBuckets = override.PriceBuckets
	}
	if len(override.CoatingOptions) > 0 {
		vocab.CoatingOptions = override.CoatingOptions
	}
	if len(override.TraitGroups) > 0 {
		vocab.TraitGroups = override.TraitGroups
	}
	if len(override.ManufacturerPopular) > 0 {
		vocab.ManufacturerPopular = override.ManufacturerPopular
	}
	if len(override.ManufacturerRegions) > 0 {
		vocab.ManufacturerRegions = override.ManufacturerRegions
	}
	if len(override.Decades) > 0 {
		vocab.Decades = override.Decades
	}
	return vocab, nil
}

// DesignTypeLabel maps a raw design-type token to its display label,
// falling back to the raw token when no mapping exists.
func (v *Vocabulary) DesignTypeLabel(raw string) string {
	if label, ok := v.DesignTypeLabels[raw]; ok {
		return label
	}
	return raw
}

// ---- record accessors ----
// Facet values live in different places across catalog generations.
// Legacy records carry them on meta; structured records under
// classification / coating / market_info. Meta wins when present.

// YearToDecade derives the decade facet token from a release year,
// e.g. 1962 → "1960s". A zero year yields "".
func YearToDecade(year int) string {
	if year == 0 {
		return ""
	}
	decade := (year / 10) * 10
	return fmt.Sprintf("%ds", decade)
}

// DesignType resolves the raw design-type token for a lens.
func DesignType(lens *domain.Lens) string {
	if lens.Meta.DesignType != "" {
		return lens.Meta.DesignType
	}
	return lens.Classification.DesignType
}

// CoatingDescription concatenates the coating-descriptive fields used
// for the coating facet's substring match.
func CoatingDescription(lens *domain.Lens) string {
	var parts []string
	if lens.Meta.Coating != "" {
		parts = append(parts, lens.Meta.Coating)
	}
	if lens.Coating.Type != "" {
		parts = append(parts, lens.Coating.Type)
	}
	if lens.Coating.Notes != "" {
		parts = append(parts, lens.Coating.Notes)
	}
	return strings.Join(parts, " ")
}

// PriceRange resolves the record's price span: meta.price_range when
// present, market_info.price_range_jpy otherwise. Nil means the record
// has no price data and never matches a non-empty price constraint.
func PriceRange(lens *domain.Lens) *domain.PriceSpan {
	if lens.Meta.PriceRange != nil {
		return lens.Meta.PriceRange
	}
	return lens.MarketInfo.PriceRangeJPY
}

// Characteristics resolves the record's trait list: the explicit list
// when present, classification category tags otherwise.
func Characteristics(lens *domain.Lens) []string {
	if len(lens.Meta.Characteristics) > 0 {
		return lens.Meta.Characteristics
	}
	return lens.Classification.CategoryTags
}
