package domain

// Lens is a fixed-shape catalog record for a single lens.
// It mirrors the schema of the JSON files under data/lenses and is the
// unit the filter engine and the search index operate on.
type Lens struct {
	Meta                     LensMeta                 `json:"meta"`
	Classification           LensClassification       `json:"classification"`
	OpticalConstruction      OpticalConstruction      `json:"optical_construction"`
	Coating                  Coating                  `json:"coating"`
	Specifications           Specifications           `json:"specifications"`
	RenderingCharacteristics RenderingCharacteristics `json:"rendering_characteristics"`
	Aberrations              Aberrations              `json:"aberrations"`
	MarketInfo               MarketInfo               `json:"market_info"`
	Compatibility            Compatibility            `json:"compatibility"`
	Media                    LensMedia                `json:"media"`
	Editorial                Editorial                `json:"editorial"`
}

// LensMeta identifies a lens. Slug is unique across the catalog and is
// the lookup key for detail pages. Some legacy records carry facet
// values directly on meta; those take precedence over the structured
// fields below (see the catalog package accessors).
type LensMeta struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Slug             string     `json:"slug"`
	ManufacturerID   string     `json:"manufacturer_id"`
	MountID          string     `json:"mount_id"`
	ReleaseYear      int        `json:"release_year"`
	ProductionPeriod string     `json:"production_period"`
	Country          string     `json:"country"`
	DesignType       string     `json:"design_type,omitempty"`
	Coating          string     `json:"coating,omitempty"`
	Characteristics  []string   `json:"characteristics,omitempty"`
	PriceRange       *PriceSpan `json:"price_range,omitempty"`
}

// LensClassification groups taxonomy fields used for faceted browsing.
type LensClassification struct {
	FocalLengthType string   `json:"focal_length_type"`
	DesignType      string   `json:"design_type"`
	Era             string   `json:"era"`
	CategoryTags    []string `json:"category_tags"`
}

// OpticalConstruction describes the element/group layout.
type OpticalConstruction struct {
	Elements     int    `json:"elements"`
	Groups       int    `json:"groups"`
	DiagramNotes string `json:"diagram_notes,omitempty"`
}

// Coating describes the lens coating.
type Coating struct {
	Type       string `json:"type"`
	MultiLayer bool   `json:"multi_layer"`
	Notes      string `json:"notes,omitempty"`
}

// Specifications holds the physical and optical spec sheet.
type Specifications struct {
	FocalLengthMM      float64 `json:"focal_length_mm"`
	MaxAperture        float64 `json:"max_aperture"`
	MinAperture        float64 `json:"min_aperture"`
	ApertureBlades     int     `json:"aperture_blades"`
	MinFocusDistanceM  float64 `json:"min_focus_distance_m"`
	FilterDiameterMM   float64 `json:"filter_diameter_mm"`
	WeightG            int     `json:"weight_g"`
	FocusType          string  `json:"focus_type"`
	ApertureControl    string  `json:"aperture_control"`
}

// Sharpness describes resolution wide open vs stopped down.
type Sharpness struct {
	WideOpen    string `json:"wide_open"`
	StoppedDown string `json:"stopped_down"`
}

// RenderingCharacteristics describes the drawing style of the lens.
type RenderingCharacteristics struct {
	Sharpness       Sharpness `json:"sharpness"`
	Bokeh           string    `json:"bokeh"`
	Contrast        string    `json:"contrast"`
	Color           string    `json:"color"`
	FlareResistance string    `json:"flare_resistance"`
	Ghosting        string    `json:"ghosting"`
}

// Aberrations describes residual aberrations.
type Aberrations struct {
	ChromaticAberration string `json:"chromatic_aberration"`
	SphericalAberration string `json:"spherical_aberration"`
	Distortion          string `json:"distortion"`
	Vignetting          string `json:"vignetting"`
}

// PriceSpan is a closed price interval in JPY.
type PriceSpan struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// MarketInfo holds used-market data.
type MarketInfo struct {
	PriceRangeJPY *PriceSpan `json:"price_range_jpy,omitempty"`
	Availability  string     `json:"availability"`
	CommonIssues  []string   `json:"common_issues"`
}

// Compatibility lists adaptation targets.
type Compatibility struct {
	AdaptableTo           []string `json:"adaptable_to"`
	InfinityFocusPossible bool     `json:"infinity_focus_possible"`
}

// LensMedia holds image references.
type LensMedia struct {
	SampleImages   []string `json:"sample_images"`
	OpticalDiagram string   `json:"optical_diagram,omitempty"`
}

// Editorial holds curated prose about the lens.
type Editorial struct {
	Summary         string `json:"summary"`
	HistoricalNotes string `json:"historical_notes,omitempty"`
}

// Bleve field name constants for consistent field references in queries
// and mappings.
const (
	LensFieldSlug         = "slug"
	LensFieldName         = "name"
	LensFieldManufacturer = "manufacturer"
	LensFieldDesignType   = "design_type"
	LensFieldEra          = "era"
	LensFieldTags         = "tags"
	LensFieldSummary      = "summary"
)
