package render

import (
	"fmt"
	"strconv"
)

// The resolver never sniffs structure inside render logic. Every field
// value is first decoded into one of the closed shape variants below;
// rendering then dispatches on the variant. Classification precedence
// follows the schema history: field-name-specific shapes first, generic
// structural fallbacks second, nothing last.

type shape interface {
	shape()
}

type shapeNothing struct{}

// shapeTimeline: array of items bearing a description, rendered in
// source order.
type shapeTimeline struct {
	entries []timelineRaw
}

type timelineRaw struct {
	heading  string
	designer string
	body     citedText
}

// shapeVariants: array of {name, description}.
type shapeVariants struct {
	variants []pointGroup
}

// shapePhilosophy: array of {section, points}.
type shapePhilosophy struct {
	groups []pointGroup
}

type pointGroup struct {
	name   string
	points []citedText
}

// shapeReferences: array of entries bearing both id and title.
type shapeReferences struct {
	refs []Reference
}

// shapeOrigin: object with base_design / photographic_adaptation.
type shapeOrigin struct {
	defs []labeledText
}

type labeledText struct {
	key  string
	text string
}

// shapeLensList: array of name/slug pairs cross-referencing the catalog.
type shapeLensList struct {
	items []lensRefRaw
}

type lensRefRaw struct {
	name string
	slug string
}

// shapeStructure: the basic_structure composite. All four parts are
// independently optional and render as sibling blocks in this order.
type shapeStructure struct {
	overview       *layoutOverview
	philosophy     []pointGroup
	configurations []string
	symmetry       string
}

type layoutOverview struct {
	title    string
	sections []overviewSection
}

type overviewSection struct {
	name      string
	content   string
	items     []string
	citations []int
}

// shapeGrouped: object whose values are cited-text runs, one titled
// sub-block per key. Used for optical_characteristics and the generic
// grouped-object fallback.
type shapeGrouped struct {
	subs []labeledTexts
}

type labeledTexts struct {
	key   string
	texts []citedText
}

// shapeCitedList: array of cited-text items.
type shapeCitedList struct {
	items []citedText
}

// shapeNamedList: array of objects with a name-bearing key.
type shapeNamedList struct {
	names []string
}

// shapeScalarList: array of scalars.
type shapeScalarList struct {
	items []string
}

// shapeKeyValues: arbitrary object reduced to its scalar-valued keys.
type shapeKeyValues struct {
	defs []labeledText
}

func (shapeNothing) shape()    {}
func (shapeTimeline) shape()   {}
func (shapeVariants) shape()   {}
func (shapePhilosophy) shape() {}
func (shapeReferences) shape() {}
func (shapeOrigin) shape()     {}
func (shapeLensList) shape()   {}
func (shapeStructure) shape()  {}
func (shapeGrouped) shape()    {}
func (shapeCitedList) shape()  {}
func (shapeNamedList) shape()  {}
func (shapeScalarList) shape() {}
func (shapeKeyValues) shape()  {}

// citedText is a text leaf with its citation side-channel.
type citedText struct {
	text      string
	citations []int
}

// ---- low-level sniffing helpers ----

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return trimFloat(t), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// citationNumbers extracts the numeric entries of a citations array.
// Non-numeric entries are dropped; an empty result is nil so callers
// can treat "no citations" uniformly.
func citationNumbers(v any) []int {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []int
	for _, item := range arr {
		if f, ok := item.(float64); ok {
			out = append(out, int(f))
		}
	}
	return out
}

// citedTextOf accepts a bare string or a {text, citations} object.
func citedTextOf(v any) (citedText, bool) {
	if s, ok := asString(v); ok {
		return citedText{text: s}, true
	}
	if t, ok := objectGet(v, "text"); ok {
		if s, ok := asString(t); ok {
			cites, _ := objectGet(v, "citations")
			return citedText{text: s, citations: citationNumbers(cites)}, true
		}
	}
	return citedText{}, false
}

// citedTextRun accepts a single cited-text value or an array of them.
func citedTextRun(v any) ([]citedText, bool) {
	if ct, ok := citedTextOf(v); ok {
		if _, bare := asString(v); !bare {
			return []citedText{ct}, true
		}
		// A bare string is not a cited-text run on its own; only
		// arrays and {text} objects qualify.
		return nil, false
	}
	arr, ok := v.([]any)
	if !ok || len(arr) == 0 {
		return nil, false
	}
	if _, ok := objectGet(arr[0], "text"); !ok {
		return nil, false
	}
	var out []citedText
	for _, item := range arr {
		if ct, ok := citedTextOf(item); ok {
			out = append(out, ct)
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}

func hasKey(v any, key string) bool {
	_, ok := objectGet(v, key)
	return ok
}

func stringAt(v any, key string) string {
	raw, ok := objectGet(v, key)
	if !ok {
		return ""
	}
	s, _ := asString(raw)
	return s
}

func stringListAt(v any, key string) []string {
	raw, ok := objectGet(v, key)
	if !ok {
		return nil
	}
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range arr {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// ---- classification ----

// nameKeys are probed in order when an array of objects has no better
// interpretation; the first present key names the item.
var nameKeys = []string{"name", "title", "label", "slug"}

// classify maps a (field, value) pair to its shape. First match wins;
// field-name-specific shapes take precedence because schema generations
// reused names with different structures.
func classify(field string, value any) shape {
	if value == nil {
		return shapeNothing{}
	}

	switch field {
	case "lens_list":
		if s, ok := classifyLensList(value); ok {
			return s
		}
	case "variants":
		if s, ok := classifyVariants(value); ok {
			return s
		}
	case "historical_development":
		if s, ok := classifyTimeline(value); ok {
			return s
		}
	case "design_philosophy":
		if groups, ok := pointGroups(value); ok {
			return shapePhilosophy{groups: groups}
		}
	case "origin":
		if s, ok := classifyOrigin(value); ok {
			return s
		}
	case "references":
		if s, ok := classifyReferences(value); ok {
			return s
		}
	case "basic_structure":
		if s, ok := classifyStructure(value); ok {
			return s
		}
	case "optical_characteristics":
		if s, ok := classifyOptical(value); ok {
			return s
		}
	}

	return classifyGeneric(value)
}

func classifyLensList(value any) (shape, bool) {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 || !hasKey(arr[0], "name") {
		return nil, false
	}
	var items []lensRefRaw
	for _, raw := range arr {
		name := ""
		if ct, ok := citedTextOf(rawValueAt(raw, "name")); ok {
			name = ct.text
		}
		if name == "" {
			continue
		}
		items = append(items, lensRefRaw{name: name, slug: stringAt(raw, "slug")})
	}
	if len(items) == 0 {
		return nil, false
	}
	return shapeLensList{items: items}, true
}

func rawValueAt(v any, key string) any {
	raw, _ := objectGet(v, key)
	return raw
}

func classifyVariants(value any) (shape, bool) {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 || !hasKey(arr[0], "name") || !hasKey(arr[0], "description") {
		return nil, false
	}
	var variants []pointGroup
	for _, raw := range arr {
		name := stringAt(raw, "name")
		desc, _ := objectGet(raw, "description")
		points, ok := citedTextRun(desc)
		if !ok {
			if ct, single := citedTextOf(desc); single {
				points = []citedText{ct}
			}
		}
		if name == "" && len(points) == 0 {
			continue
		}
		variants = append(variants, pointGroup{name: name, points: points})
	}
	if len(variants) == 0 {
		return nil, false
	}
	return shapeVariants{variants: variants}, true
}

func classifyTimeline(value any) (shape, bool) {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 || !hasKey(arr[0], "description") {
		return nil, false
	}
	var entries []timelineRaw
	for _, raw := range arr {
		desc, _ := objectGet(raw, "description")
		body, ok := citedTextOf(desc)
		if !ok {
			continue
		}
		if body.citations == nil {
			if cites, ok := objectGet(raw, "citations"); ok {
				body.citations = citationNumbers(cites)
			}
		}
		heading := ""
		if year, ok := objectGet(raw, "year"); ok {
			if s, ok := scalarString(year); ok {
				heading = s
			}
		}
		if heading == "" {
			heading = stringAt(raw, "period")
		}
		entries = append(entries, timelineRaw{
			heading:  heading,
			designer: stringAt(raw, "designer"),
			body:     body,
		})
	}
	if len(entries) == 0 {
		return nil, false
	}
	return shapeTimeline{entries: entries}, true
}

func pointGroups(value any) ([]pointGroup, bool) {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 || !hasKey(arr[0], "section") || !hasKey(arr[0], "points") {
		return nil, false
	}
	var groups []pointGroup
	for _, raw := range arr {
		points, _ := citedTextRun(rawValueAt(raw, "points"))
		groups = append(groups, pointGroup{name: stringAt(raw, "section"), points: points})
	}
	return groups, true
}

func classifyOrigin(value any) (shape, bool) {
	if !isObject(value) {
		return nil, false
	}
	var defs []labeledText
	for _, key := range []string{"base_design", "photographic_adaptation"} {
		if text := stringAt(value, key); text != "" {
			defs = append(defs, labeledText{key: key, text: text})
		}
	}
	if len(defs) == 0 {
		return nil, false
	}
	return shapeOrigin{defs: defs}, true
}

func classifyReferences(value any) (shape, bool) {
	arr, ok := value.([]any)
	if !ok || len(arr) == 0 || !hasKey(arr[0], "id") || !hasKey(arr[0], "title") {
		return nil, false
	}
	var refs []Reference
	for _, raw := range arr {
		id, ok := objectGet(raw, "id")
		if !ok {
			continue
		}
		f, ok := id.(float64)
		if !ok {
			continue
		}
		refs = append(refs, Reference{
			ID:     int(f),
			Title:  stringAt(raw, "title"),
			Source: stringAt(raw, "author_or_source"),
			URL:    stringAt(raw, "url"),
		})
	}
	if len(refs) == 0 {
		return nil, false
	}
	return shapeReferences{refs: refs}, true
}

func classifyStructure(value any) (shape, bool) {
	if !isObject(value) {
		return nil, false
	}
	var s shapeStructure
	if lo, ok := objectGet(value, "layout_overview"); ok && isObject(lo) {
		overview := &layoutOverview{title: stringAt(lo, "title")}
		if sections, ok := objectGet(lo, "sections"); ok {
			if arr, ok := sections.([]any); ok {
				for _, raw := range arr {
					sec := overviewSection{
						name:    stringAt(raw, "section"),
						content: stringAt(raw, "content"),
						items:   stringListAt(raw, "items"),
					}
					if cites, ok := objectGet(raw, "citations"); ok {
						sec.citations = citationNumbers(cites)
					}
					if sec.name == "" && sec.content == "" && len(sec.items) == 0 {
						continue
					}
					overview.sections = append(overview.sections, sec)
				}
			}
		}
		if len(overview.sections) > 0 {
			s.overview = overview
		}
	}
	if groups, ok := pointGroups(rawValueAt(value, "design_philosophy")); ok {
		s.philosophy = groups
	}
	s.configurations = stringListAt(value, "typical_configurations")
	if sym, ok := objectGet(value, "symmetry"); ok {
		s.symmetry = stringAt(sym, "text")
	}
	if s.overview == nil && s.philosophy == nil && len(s.configurations) == 0 && s.symmetry == "" {
		return nil, false
	}
	return s, true
}

// classifyOptical walks the optical_characteristics object: immediate
// or one-level-nested values that are either cited-text runs or
// new-generation {sections: [...]} objects each become a titled
// sub-block.
func classifyOptical(value any) (shape, bool) {
	entries, ok := objectEntries(value)
	if !ok {
		return nil, false
	}
	var subs []labeledTexts
	appendLeaf := func(key string, v any) bool {
		if texts, ok := citedTextRun(v); ok {
			subs = append(subs, labeledTexts{key: key, texts: texts})
			return true
		}
		if sections, ok := objectGet(v, "sections"); ok {
			if texts, ok := citedTextRun(sections); ok {
				cites := citationNumbers(rawValueAt(v, "citations"))
				if cites != nil && len(texts) > 0 && texts[len(texts)-1].citations == nil {
					texts[len(texts)-1].citations = cites
				}
				subs = append(subs, labeledTexts{key: key, texts: texts})
				return true
			}
		}
		return false
	}
	for _, e := range entries {
		if e.value == nil {
			continue
		}
		if appendLeaf(e.key, e.value) {
			continue
		}
		if nested, ok := objectEntries(e.value); ok {
			for _, n := range nested {
				appendLeaf(n.key, n.value)
			}
		}
	}
	if len(subs) == 0 {
		return nil, false
	}
	return shapeGrouped{subs: subs}, true
}

// classifyGeneric applies the shape fallbacks available to any field.
func classifyGeneric(value any) shape {
	if arr, ok := value.([]any); ok {
		if len(arr) == 0 {
			return shapeNothing{}
		}
		if items, ok := citedTextRun(arr); ok {
			return shapeCitedList{items: items}
		}
		if isObject(arr[0]) {
			for _, key := range nameKeys {
				if hasKey(arr[0], key) {
					var names []string
					for _, item := range arr {
						if s, ok := scalarString(rawValueAt(item, key)); ok {
							names = append(names, s)
						} else {
							names = append(names, compactJSON(item))
						}
					}
					return shapeNamedList{names: names}
				}
			}
			var names []string
			for _, item := range arr {
				names = append(names, compactJSON(item))
			}
			return shapeNamedList{names: names}
		}
		var items []string
		for _, item := range arr {
			if s, ok := scalarString(item); ok {
				items = append(items, s)
			} else {
				items = append(items, fmt.Sprint(item))
			}
		}
		return shapeScalarList{items: items}
	}

	entries, ok := objectEntries(value)
	if !ok {
		return shapeNothing{}
	}
	var subs []labeledTexts
	for _, e := range entries {
		if texts, ok := citedTextRun(e.value); ok {
			subs = append(subs, labeledTexts{key: e.key, texts: texts})
		}
	}
	if len(subs) > 0 {
		return shapeGrouped{subs: subs}
	}
	// Definition list of the scalar-valued keys. Nested objects without
	// a text key are dropped, not stringified.
	var defs []labeledText
	for _, e := range entries {
		if e.value == nil {
			continue
		}
		if s, ok := scalarString(e.value); ok {
			defs = append(defs, labeledText{key: e.key, text: s})
			continue
		}
		if ct, ok := citedTextOf(e.value); ok {
			defs = append(defs, labeledText{key: e.key, text: ct.text})
		}
	}
	if len(defs) == 0 {
		return shapeNothing{}
	}
	return shapeKeyValues{defs: defs}
}

func compactJSON(v any) string {
	entries, ok := objectEntries(v)
	if !ok {
		return fmt.Sprint(v)
	}
	out := "{"
	for i, e := range entries {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s: %v", e.key, e.value)
	}
	return out + "}"
}
