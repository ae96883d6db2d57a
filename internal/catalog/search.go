package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"github.com/tsukino/mcp-lensref-server/internal/domain"
)

// lensSearchDoc is the flattened view of a lens stored in the search
// index.
type lensSearchDoc struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	DesignType   string `json:"design_type"`
	Era          string `json:"era"`
	Tags         string `json:"tags"`
	Summary      string `json:"summary"`
}

// SearchIndex holds an in-memory full-text index over the lens
// catalog. It is rebuilt whenever the content store reloads; searches
// against a not-yet-built index report not ready instead of failing.
type SearchIndex struct {
	maxResults int
	mu         sync.RWMutex
	index      bleve.Index
}

// NewSearchIndex creates an empty search index.
func NewSearchIndex(maxResults int) *SearchIndex {
	if maxResults <= 0 {
		maxResults = 20
	}
	return &SearchIndex{maxResults: maxResults}
}

// createLensMapping creates the Bleve mapping for lens documents:
// name and summary analyzed for full-text search, identity and
// taxonomy fields as keywords for exact filters.
func createLensMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	textField := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = standard.Name
		f.Store = true
		f.IncludeTermVectors = true
		return f
	}
	keywordField := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = keyword.Name
		f.Store = true
		return f
	}

	docMapping.AddFieldMappingsAt(domain.LensFieldName, textField())
	docMapping.AddFieldMappingsAt(domain.LensFieldSummary, textField())
	docMapping.AddFieldMappingsAt(domain.LensFieldTags, textField())
	docMapping.AddFieldMappingsAt(domain.LensFieldSlug, keywordField())
	docMapping.AddFieldMappingsAt(domain.LensFieldManufacturer, keywordField())
	docMapping.AddFieldMappingsAt(domain.LensFieldDesignType, keywordField())
	docMapping.AddFieldMappingsAt(domain.LensFieldEra, keywordField())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Rebuild replaces the index contents with the given catalog.
func (s *SearchIndex) Rebuild(lenses []*domain.Lens) error {
	index, err := bleve.NewMemOnly(createLensMapping())
	if err != nil {
		return fmt.Errorf("failed to create search index: %w", err)
	}
	batch := index.NewBatch()
	for _, lens := range lenses {
		doc := lensSearchDoc{
			Slug:         lens.Meta.Slug,
			Name:         lens.Meta.Name,
			Manufacturer: lens.Meta.ManufacturerID,
			DesignType:   DesignType(lens),
			Era:          lens.Classification.Era,
			Tags:         strings.Join(lens.Classification.CategoryTags, " "),
			Summary:      lens.Editorial.Summary,
		}
		if err := batch.Index(lens.Meta.Slug, doc); err != nil {
			return fmt.Errorf("failed to index lens %s: %w", lens.Meta.Slug, err)
		}
	}
	if err := index.Batch(batch); err != nil {
		return fmt.Errorf("failed to apply index batch: %w", err)
	}

	s.mu.Lock()
	old := s.index
	s.index = index
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// IsReady reports whether the index has been built.
func (s *SearchIndex) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index != nil
}

// Close releases the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index == nil {
		return nil
	}
	err := s.index.Close()
	s.index = nil
	return err
}

// Hit is one search result.
type Hit struct {
	Slug      string
	Name      string
	Score     float64
	Fragments []string
}

// Search runs a full-text query, optionally constrained to a
// manufacturer and/or design type.
func (s *SearchIndex) Search(queryStr, manufacturer, designType string) ([]Hit, uint64, error) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	if index == nil {
		return nil, 0, fmt.Errorf("search index is not ready")
	}

	searchReq := bleve.NewSearchRequest(buildLensQuery(queryStr, manufacturer, designType))
	searchReq.Size = s.maxResults
	searchReq.Fields = []string{domain.LensFieldSlug, domain.LensFieldName}
	searchReq.Highlight = bleve.NewHighlight()
	searchReq.Highlight.AddField(domain.LensFieldSummary)

	results, err := index.Search(searchReq)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	var hits []Hit
	for _, hit := range results.Hits {
		h := Hit{Score: hit.Score}
		if v, ok := hit.Fields[domain.LensFieldSlug].(string); ok {
			h.Slug = v
		}
		if v, ok := hit.Fields[domain.LensFieldName].(string); ok {
			h.Name = v
		}
		if fragments, ok := hit.Fragments[domain.LensFieldSummary]; ok {
			h.Fragments = fragments
		}
		hits = append(hits, h)
	}
	return hits, results.Total, nil
}

func buildLensQuery(queryStr, manufacturer, designType string) query.Query {
	nameQuery := bleve.NewMatchQuery(queryStr)
	nameQuery.SetField(domain.LensFieldName)
	nameQuery.SetBoost(5.0)

	summaryQuery := bleve.NewMatchQuery(queryStr)
	summaryQuery.SetField(domain.LensFieldSummary)

	tagsQuery := bleve.NewMatchQuery(queryStr)
	tagsQuery.SetField(domain.LensFieldTags)

	searchQuery := query.Query(bleve.NewDisjunctionQuery(nameQuery, summaryQuery, tagsQuery))

	if manufacturer == "" && designType == "" {
		return searchQuery
	}
	must := []query.Query{searchQuery}
	if manufacturer != "" {
		q := bleve.NewTermQuery(manufacturer)
		q.SetField(domain.LensFieldManufacturer)
		must = append(must, q)
	}
	if designType != "" {
		q := bleve.NewTermQuery(designType)
		q.SetField(domain.LensFieldDesignType)
		must = append(must, q)
	}
	return bleve.NewConjunctionQuery(must...)
}
