package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/tsukino/mcp-lensref-server/internal/domain"
	"github.com/tsukino/mcp-lensref-server/internal/render"
)

// Data directory layout. Each subdirectory holds one record per file,
// keyed by slug (the file name without extension).
const (
	DesignsDir = "designs"
	LensesDir  = "lenses"
	TermsDir   = "terms"
)

// ErrNotFound reports a slug with no record.
var ErrNotFound = errors.New("record not found")

// Snapshot is one immutable load of the content directory. The store
// swaps whole snapshots on reload, so readers never see a half-loaded
// catalog.
type Snapshot struct {
	Designs map[string]*render.Object
	Lenses  map[string]*domain.Lens
	Terms   map[string]*domain.Term

	// LensList is the catalog in stable slug order.
	LensList []*domain.Lens
}

// DesignSlugs returns the design slugs in sorted order.
func (s *Snapshot) DesignSlugs() []string {
	return sortedKeys(s.Designs)
}

// LensSlugs returns the lens slugs in sorted order.
func (s *Snapshot) LensSlugs() []string {
	return sortedKeys(s.Lenses)
}

// TermSlugs returns the term slugs in sorted order.
func (s *Snapshot) TermSlugs() []string {
	return sortedKeys(s.Terms)
}

// TermLinks returns the auto-link dictionary entries derived from the
// loaded terms, sorted by display text.
func (s *Snapshot) TermLinks() []domain.TermLink {
	var links []domain.TermLink
	for slug, term := range s.Terms {
		title := term.Title
		if title == "" {
			title = slug
		}
		links = append(links, domain.TermLink{Term: title, Slug: slug})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Term < links[j].Term })
	return links
}

// Store reads the flat-file content directory.
type Store struct {
	dataDir string
}

// NewStore creates a store over a data directory.
func NewStore(dataDir string) *Store {
	return &Store{dataDir: dataDir}
}

// Load reads every record in the data directory into a fresh snapshot.
// Individual file failures are skipped and aggregated into the returned
// error; the snapshot is still usable when err is non-nil.
func (s *Store) Load() (*Snapshot, error) {
	snap := &Snapshot{
		Designs: map[string]*render.Object{},
		Lenses:  map[string]*domain.Lens{},
		Terms:   map[string]*domain.Term{},
	}
	var errs error

	errs = multierr.Append(errs, s.loadDir(DesignsDir, func(slug string, data []byte) error {
		doc := &render.Object{}
		if err := json.Unmarshal(data, doc); err != nil {
			return err
		}
		snap.Designs[slug] = doc
		return nil
	}))

	errs = multierr.Append(errs, s.loadDir(LensesDir, func(slug string, data []byte) error {
		var lens domain.Lens
		if err := json.Unmarshal(data, &lens); err != nil {
			return err
		}
		if lens.Meta.Slug == "" {
			lens.Meta.Slug = slug
		}
		snap.Lenses[slug] = &lens
		return nil
	}))

	errs = multierr.Append(errs, s.loadDir(TermsDir, func(slug string, data []byte) error {
		term, err := decodeTerm(slug, data)
		if err != nil {
			return err
		}
		snap.Terms[slug] = term
		return nil
	}))

	for _, slug := range snap.LensSlugs() {
		snap.LensList = append(snap.LensList, snap.Lenses[slug])
	}
	return snap, errs
}

// loadDir walks one record subdirectory. A missing directory is not an
// error; the content kind is simply empty.
func (s *Store) loadDir(sub string, decode func(slug string, data []byte) error) error {
	dir := filepath.Join(s.dataDir, sub)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var errs error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", sub, name, err))
			continue
		}
		if ext != ".json" {
			if data, err = yamlToJSON(data); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", sub, name, err))
				continue
			}
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))
		if err := decode(slug, data); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s/%s: %w", sub, name, err))
		}
	}
	return errs
}

// yamlToJSON converts a YAML record to JSON so both formats flow
// through the same decoders. Key order within YAML mappings is kept.
func yamlToJSON(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	v, err := yamlNodeValue(&node)
	if err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

func yamlNodeValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlNodeValue(node.Content[0])
	case yaml.MappingNode:
		// Mappings decode to ordered objects; a plain map would let
		// json.Marshal re-sort the keys and lose the document's order.
		obj := &render.Object{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := yamlNodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(node.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		var out []any
		for _, c := range node.Content {
			v, err := yamlNodeValue(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// decodeTerm keeps the known term fields typed and everything else in
// the free-form field map.
func decodeTerm(slug string, data []byte) (*domain.Term, error) {
	var term domain.Term
	if err := json.Unmarshal(data, &term); err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	delete(fields, "slug")
	delete(fields, "title")
	delete(fields, "content")
	term.Fields = fields
	if term.Slug == "" {
		term.Slug = slug
	}
	return &term, nil
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
