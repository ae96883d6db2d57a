package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/tsukino/mcp-lensref-server/internal/domain"
)

// FacetSet is one facet's selection. Empty means the facet is
// unconstrained: every record passes.
type FacetSet map[string]struct{}

// NewFacetSet builds a set from values, dropping empties.
func NewFacetSet(values ...string) FacetSet {
	s := FacetSet{}
	for _, v := range values {
		if v != "" {
			s[v] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s FacetSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Empty reports whether the facet is unconstrained.
func (s FacetSet) Empty() bool {
	return len(s) == 0
}

// Values returns the sorted members.
func (s FacetSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Equal reports set equality.
func (s FacetSet) Equal(other FacetSet) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// PriceQuery is the continuous price constraint. A nil bound is open.
type PriceQuery struct {
	Min *int
	Max *int
}

// Empty reports whether the range is unconstrained.
func (p PriceQuery) Empty() bool {
	return p.Min == nil && p.Max == nil
}

// Equal reports value equality of the bounds.
func (p PriceQuery) Equal(other PriceQuery) bool {
	return intPtrEqual(p.Min, other.Min) && intPtrEqual(p.Max, other.Max)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ErrInvalidPriceRange rejects a custom price entry: negative bounds,
// non-integer bounds or min > max. The filter state is left unchanged
// on rejection.
var ErrInvalidPriceRange = errors.New("invalid price range")

// ParsePriceQuery validates raw custom price bounds. Empty strings are
// open bounds.
func ParsePriceQuery(minRaw, maxRaw string) (PriceQuery, error) {
	var q PriceQuery
	parse := func(raw string) (*int, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, ErrInvalidPriceRange
		}
		return &n, nil
	}
	var err error
	if q.Min, err = parse(minRaw); err != nil {
		return PriceQuery{}, err
	}
	if q.Max, err = parse(maxRaw); err != nil {
		return PriceQuery{}, err
	}
	if q.Min != nil && q.Max != nil && *q.Min > *q.Max {
		return PriceQuery{}, ErrInvalidPriceRange
	}
	return q, nil
}

// FilterState is the full catalog filter: six facet sets plus the
// continuous price range. Facets are conjunctive; a record must
// satisfy every non-empty facet.
type FilterState struct {
	Decades       FacetSet
	DesignTypes   FacetSet
	Manufacturers FacetSet
	PriceBuckets  FacetSet
	Coatings      FacetSet
	Traits        FacetSet
	PriceRange    PriceQuery
}

// NewFilterState returns an unconstrained state.
func NewFilterState() FilterState {
	return FilterState{
		Decades:       FacetSet{},
		DesignTypes:   FacetSet{},
		Manufacturers: FacetSet{},
		PriceBuckets:  FacetSet{},
		Coatings:      FacetSet{},
		Traits:        FacetSet{},
	}
}

// Empty reports whether no facet constrains the catalog.
func (f FilterState) Empty() bool {
	return f.Decades.Empty() && f.DesignTypes.Empty() && f.Manufacturers.Empty() &&
		f.PriceBuckets.Empty() && f.Coatings.Empty() && f.Traits.Empty() &&
		f.PriceRange.Empty()
}

// Equal reports state equality: set equality per facet, value equality
// for the price range.
func (f FilterState) Equal(other FilterState) bool {
	return f.Decades.Equal(other.Decades) &&
		f.DesignTypes.Equal(other.DesignTypes) &&
		f.Manufacturers.Equal(other.Manufacturers) &&
		f.PriceBuckets.Equal(other.PriceBuckets) &&
		f.Coatings.Equal(other.Coatings) &&
		f.Traits.Equal(other.Traits) &&
		f.PriceRange.Equal(other.PriceRange)
}

// Engine evaluates filter states against lens records using the
// injected vocabulary.
type Engine struct {
	vocab *Vocabulary
}

// NewEngine builds a filter engine. A nil vocabulary uses the defaults.
func NewEngine(vocab *Vocabulary) *Engine {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Engine{vocab: vocab}
}

// Vocabulary returns the injected facet data.
func (e *Engine) Vocabulary() *Vocabulary {
	return e.vocab
}

// Matches reports whether a lens satisfies every non-empty facet of
// the state.
func (e *Engine) Matches(lens *domain.Lens, state FilterState) bool {
	if !state.Decades.Empty() {
		if !state.Decades.Has(YearToDecade(lens.Meta.ReleaseYear)) {
			return false
		}
	}
	if !state.DesignTypes.Empty() {
		// Matching happens on the display label, not the raw token.
		if !state.DesignTypes.Has(e.vocab.DesignTypeLabel(DesignType(lens))) {
			return false
		}
	}
	if !state.Manufacturers.Empty() {
		if !state.Manufacturers.Has(lens.Meta.ManufacturerID) {
			return false
		}
	}
	if !state.PriceBuckets.Empty() {
		if !e.matchesPriceBuckets(lens, state.PriceBuckets) {
			return false
		}
	}
	if !state.PriceRange.Empty() {
		if !matchesPriceQuery(lens, state.PriceRange) {
			return false
		}
	}
	if !state.Coatings.Empty() {
		if !matchesCoating(lens, state.Coatings) {
			return false
		}
	}
	if !state.Traits.Empty() {
		if !matchesTraits(lens, state.Traits) {
			return false
		}
	}
	return true
}

// Filter returns the subset of the catalog matching the state, in
// catalog order.
func (e *Engine) Filter(catalog []*domain.Lens, state FilterState) []*domain.Lens {
	var out []*domain.Lens
	for _, lens := range catalog {
		if e.Matches(lens, state) {
			out = append(out, lens)
		}
	}
	return out
}

// matchesPriceBuckets: the record's own price span must overlap at
// least one selected bucket range. Overlap, not containment.
func (e *Engine) matchesPriceBuckets(lens *domain.Lens, selected FacetSet) bool {
	pr := PriceRange(lens)
	if pr == nil {
		return false
	}
	for key := range selected {
		bucket, ok := e.vocab.PriceBuckets[key]
		if !ok {
			continue
		}
		if pr.Min <= bucket.Max && pr.Max >= bucket.Min {
			return true
		}
	}
	return false
}

// matchesPriceQuery: symmetric overlap against the open/closed query
// range. A record without price data never matches a non-empty
// constraint.
func matchesPriceQuery(lens *domain.Lens, q PriceQuery) bool {
	pr := PriceRange(lens)
	if pr == nil {
		return false
	}
	if q.Min != nil && pr.Max < *q.Min {
		return false
	}
	if q.Max != nil && pr.Min > *q.Max {
		return false
	}
	return true
}

// matchesCoating: the selected label must occur as a substring of the
// record's coating description. Case-sensitive, no tokenization.
func matchesCoating(lens *domain.Lens, selected FacetSet) bool {
	desc := CoatingDescription(lens)
	for label := range selected {
		if strings.Contains(desc, label) {
			return true
		}
	}
	return false
}

// matchesTraits: the record's trait list must intersect the selection.
func matchesTraits(lens *domain.Lens, selected FacetSet) bool {
	for _, trait := range Characteristics(lens) {
		if selected.Has(trait) {
			return true
		}
	}
	return false
}
