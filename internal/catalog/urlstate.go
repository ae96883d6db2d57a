package catalog

import (
	"net/url"
	"strconv"
)

// Query parameter names. One parameter per facet, repeated for
// multi-value selections, plus two scalar parameters for the
// continuous price range. An absent parameter leaves its facet
// unconstrained.
const (
	ParamDecade       = "decade"
	ParamDesign       = "design"
	ParamManufacturer = "manufacturer"
	ParamPrice        = "price"
	ParamCoating      = "coating"
	ParamTrait        = "trait"
	ParamPriceMin     = "priceMin"
	ParamPriceMax     = "priceMax"
)

// EncodeQuery serializes a filter state to URL query values. Facet
// values are emitted sorted so equal states encode identically.
func EncodeQuery(state FilterState) url.Values {
	values := url.Values{}
	setAll := func(param string, set FacetSet) {
		for _, v := range set.Values() {
			values.Add(param, v)
		}
	}
	setAll(ParamDecade, state.Decades)
	setAll(ParamDesign, state.DesignTypes)
	setAll(ParamManufacturer, state.Manufacturers)
	setAll(ParamPrice, state.PriceBuckets)
	setAll(ParamCoating, state.Coatings)
	setAll(ParamTrait, state.Traits)
	if state.PriceRange.Min != nil {
		values.Set(ParamPriceMin, strconv.Itoa(*state.PriceRange.Min))
	}
	if state.PriceRange.Max != nil {
		values.Set(ParamPriceMax, strconv.Itoa(*state.PriceRange.Max))
	}
	return values
}

// DecodeQuery reconstructs a filter state from query values. The input
// may be partial or malformed: unknown parameters are ignored and
// unparseable numeric bounds are dropped as if absent, never an error.
func DecodeQuery(values url.Values) FilterState {
	state := NewFilterState()
	fill := func(param string, set FacetSet) {
		for _, v := range values[param] {
			if v != "" {
				set[v] = struct{}{}
			}
		}
	}
	fill(ParamDecade, state.Decades)
	fill(ParamDesign, state.DesignTypes)
	fill(ParamManufacturer, state.Manufacturers)
	fill(ParamPrice, state.PriceBuckets)
	fill(ParamCoating, state.Coatings)
	fill(ParamTrait, state.Traits)
	state.PriceRange.Min = parseBound(values.Get(ParamPriceMin))
	state.PriceRange.Max = parseBound(values.Get(ParamPriceMax))
	return state
}

// DecodeQueryString is DecodeQuery over a raw query string. A string
// that fails URL parsing yields an unconstrained state.
func DecodeQueryString(raw string) FilterState {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return NewFilterState()
	}
	return DecodeQuery(values)
}

func parseBound(raw string) *int {
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
