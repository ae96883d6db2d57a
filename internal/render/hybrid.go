package render

import "fmt"

// The hybrid schema generation is a strict chapters → sections → items
// tree with a closed item-type tag. Items decode into the ContentItem
// variants below; rendering dispatches through the variant's own
// asNode method, so adding a variant without a renderer does not
// compile.

// ContentItem is the closed tagged-variant set of hybrid items.
type ContentItem interface {
	asNode(l *Linker) Node
	isText() bool
	floated() bool
}

// ParagraphItem is a prose item.
type ParagraphItem struct {
	Text      string
	Citations []int
}

// ListItem is a bullet-list item.
type ListItem struct {
	Items     []string
	Citations []int
}

// ImageItem is a figure item. Layout "left"/"right" makes it eligible
// for float grouping.
type ImageItem struct {
	Src       string
	Alt       string
	Caption   string
	Layout    string
	Scale     float64
	Variant   string
	Era       string
	Citations []int
}

// QuoteItem is a block quotation.
type QuoteItem struct {
	Text      string
	Citations []int
}

// TableItem is a tabular item.
type TableItem struct {
	Headers   []string
	Rows      [][]string
	Citations []int
}

func (p ParagraphItem) asNode(l *Linker) Node {
	return Paragraph{Text: l.Inline(p.Text, p.Citations)}
}

func (li ListItem) asNode(l *Linker) Node {
	list := List{}
	for i, item := range li.Items {
		in := l.Inline(item, nil)
		if i == len(li.Items)-1 {
			in.Citations = li.Citations
		}
		list.Items = append(list.Items, in)
	}
	return list
}

func (img ImageItem) asNode(*Linker) Node {
	return Image{
		Src:       img.Src,
		Alt:       img.Alt,
		Caption:   img.Caption,
		Layout:    img.Layout,
		Scale:     img.Scale,
		Variant:   img.Variant,
		Era:       img.Era,
		Citations: img.Citations,
	}
}

func (q QuoteItem) asNode(l *Linker) Node {
	return Quote{Text: l.Inline(q.Text, q.Citations)}
}

func (t TableItem) asNode(*Linker) Node {
	return Table{Headers: t.Headers, Rows: t.Rows, Citations: t.Citations}
}

func (ParagraphItem) isText() bool { return true }
func (ListItem) isText() bool      { return true }
func (ImageItem) isText() bool     { return false }
func (QuoteItem) isText() bool     { return false }
func (TableItem) isText() bool     { return false }

func (ParagraphItem) floated() bool { return false }
func (ListItem) floated() bool      { return false }
func (img ImageItem) floated() bool { return img.Layout == "left" || img.Layout == "right" }
func (QuoteItem) floated() bool     { return false }
func (TableItem) floated() bool     { return false }

// HybridDoc is a decoded hybrid record.
type HybridDoc struct {
	Chapters []HybridChapter
}

// HybridChapter is one chapter of a hybrid record.
type HybridChapter struct {
	ID       string
	Title    string
	Sections []HybridSection
}

// HybridSection is one section of a chapter.
type HybridSection struct {
	ID        string
	Title     string
	Meta      []Definition
	Citations []int
	Items     []ContentItem
}

// IsHybrid is the structural type guard for the hybrid schema
// generation: the record exposes a chapters array whose elements are
// objects carrying a sections array. It is checked once at the top of
// record rendering; the choice between the hybrid renderer and the
// per-field resolver is never made per field.
func IsHybrid(doc *Object) bool {
	chapters, ok := doc.Get("chapters").([]any)
	if !ok || len(chapters) == 0 {
		return false
	}
	for _, c := range chapters {
		sections, ok := objectGet(c, "sections")
		if !ok {
			return false
		}
		if _, ok := sections.([]any); !ok {
			return false
		}
	}
	return true
}

// DecodeHybrid decodes the chapters tree. Items with a missing or
// unrecognized type tag go through a best-effort legacy path recorded
// on the diagnostics; items no heuristic can interpret are dropped with
// a diagnostic, never an error.
func DecodeHybrid(doc *Object, d *Diagnostics) *HybridDoc {
	out := &HybridDoc{}
	chapters, _ := doc.Get("chapters").([]any)
	for _, rawChapter := range chapters {
		ch := HybridChapter{
			ID:    stringAt(rawChapter, "id"),
			Title: stringAt(rawChapter, "title"),
		}
		sections, _ := objectGet(rawChapter, "sections")
		arr, _ := sections.([]any)
		for _, rawSection := range arr {
			ch.Sections = append(ch.Sections, decodeSection(rawSection, ch.ID, d))
		}
		out.Chapters = append(out.Chapters, ch)
	}
	return out
}

func decodeSection(raw any, chapterID string, d *Diagnostics) HybridSection {
	sec := HybridSection{
		ID:    stringAt(raw, "id"),
		Title: stringAt(raw, "title"),
	}
	if cites, ok := objectGet(raw, "citations"); ok {
		sec.Citations = citationNumbers(cites)
	}
	if meta, ok := objectGet(raw, "meta"); ok {
		if entries, ok := objectEntries(meta); ok {
			for _, e := range entries {
				if e.key == "title" {
					continue
				}
				if s, ok := asString(e.value); ok && s != "" {
					sec.Meta = append(sec.Meta, Definition{Term: e.key, Value: s})
				}
			}
		}
	}
	items, _ := objectGet(raw, "items")
	arr, _ := items.([]any)
	for i, rawItem := range arr {
		path := fmt.Sprintf("%s/%s/%d", chapterID, sec.ID, i)
		if item, ok := decodeItem(rawItem, path, d); ok {
			sec.Items = append(sec.Items, item)
		}
	}
	return sec
}

func decodeItem(raw any, path string, d *Diagnostics) (ContentItem, bool) {
	if !isObject(raw) {
		d.record(DroppedItem, path, "item is not an object")
		return nil, false
	}
	cites := citationNumbers(rawValueAt(raw, "citations"))
	switch stringAt(raw, "type") {
	case "paragraph":
		return ParagraphItem{Text: stringAt(raw, "text"), Citations: cites}, true
	case "list":
		return ListItem{Items: stringListAt(raw, "items"), Citations: cites}, true
	case "image":
		return decodeImageItem(raw, cites), true
	case "quote":
		return QuoteItem{Text: stringAt(raw, "text"), Citations: cites}, true
	case "table":
		return TableItem{
			Headers:   stringListAt(raw, "headers"),
			Rows:      decodeRows(rawValueAt(raw, "rows")),
			Citations: cites,
		}, true
	}
	return decodeLegacyItem(raw, path, cites, d)
}

func decodeImageItem(raw any, cites []int) ImageItem {
	scale := 1.0
	if f, ok := rawValueAt(raw, "scale").(float64); ok && f > 0 {
		scale = f
	}
	return ImageItem{
		Src:       stringAt(raw, "src"),
		Alt:       stringAt(raw, "alt"),
		Caption:   stringAt(raw, "caption"),
		Layout:    stringAt(raw, "layout"),
		Scale:     scale,
		Variant:   stringAt(raw, "variant"),
		Era:       stringAt(raw, "era"),
		Citations: cites,
	}
}

func decodeRows(v any) [][]string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var rows [][]string
	for _, rawRow := range arr {
		cells, ok := rawRow.([]any)
		if !ok {
			continue
		}
		row := make([]string, 0, len(cells))
		for _, c := range cells {
			s, _ := scalarString(c)
			row = append(row, s)
		}
		rows = append(rows, row)
	}
	return rows
}

// decodeLegacyItem handles untagged items from pre-hybrid content: a
// media.images payload renders as an image, any text-bearing field as a
// paragraph. This is a migration path, not a steady-state contract.
func decodeLegacyItem(raw any, path string, cites []int, d *Diagnostics) (ContentItem, bool) {
	if media, ok := objectGet(raw, "media"); ok {
		if images, ok := objectGet(media, "images"); ok {
			if arr, ok := images.([]any); ok && len(arr) > 0 {
				d.record(LegacyImageGuess, path, "untagged item with media.images")
				img := decodeImageItem(arr[0], cites)
				return img, true
			}
		}
	}
	text := legacyText(raw)
	if text != "" {
		d.record(LegacyParagraphGuess, path, "untagged item with text field")
		return ParagraphItem{Text: text, Citations: cites}, true
	}
	d.record(DroppedItem, path, "no recognized type and no fallback shape")
	return nil, false
}

// legacyText probes text-bearing fields in priority order:
// text > description > description.text > name.
func legacyText(raw any) string {
	if s := stringAt(raw, "text"); s != "" {
		return s
	}
	if desc, ok := objectGet(raw, "description"); ok {
		if s, ok := asString(desc); ok && s != "" {
			return s
		}
		if s := stringAt(desc, "text"); s != "" {
			return s
		}
	}
	return stringAt(raw, "name")
}

// RenderHybrid renders a decoded hybrid document: one block per
// chapter, one subsection per section, float grouping applied within
// each section.
func (r *Renderer) RenderHybrid(doc *HybridDoc) []Block {
	var blocks []Block
	for _, ch := range doc.Chapters {
		block := Block{Key: ch.ID, Title: ch.Title}
		for _, sec := range ch.Sections {
			block.Nodes = append(block.Nodes, r.renderHybridSection(sec))
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func (r *Renderer) renderHybridSection(sec HybridSection) Node {
	sub := Subsection{Title: sec.Title}
	if len(sec.Meta) > 0 {
		sub.Nodes = append(sub.Nodes, Definitions{Entries: sec.Meta})
	}
	for _, chunk := range groupFloats(sec.Items) {
		if chunk.image == nil {
			sub.Nodes = append(sub.Nodes, chunk.items[0].asNode(r.linker))
			continue
		}
		group := FloatGroup{Image: chunk.image.asNode(r.linker).(Image)}
		for _, item := range chunk.items {
			group.Nodes = append(group.Nodes, item.asNode(r.linker))
		}
		sub.Nodes = append(sub.Nodes, group)
	}
	if len(sec.Citations) > 0 {
		sub.Nodes = append(sub.Nodes, CitationMark{Citations: sec.Citations})
	}
	return sub
}

// itemChunk is either a single item (image == nil) or a float group.
type itemChunk struct {
	image *ImageItem
	items []ContentItem
}

// groupFloats is a single left-to-right pass over a section's items.
// A left/right-floated image absorbs the contiguous paragraph/list run
// that follows it; the inverted legacy pattern (text immediately
// followed by a floated image) is reordered so the image still comes
// first. Visual order is always image-then-text.
func groupFloats(items []ContentItem) []itemChunk {
	var chunks []itemChunk
	i := 0
	for i < len(items) {
		item := items[i]

		// Inverted legacy pattern: paragraph/list followed by a
		// floated image. The triggering text joins the run after the
		// image.
		if item.isText() && i+1 < len(items) && items[i+1].floated() {
			img := items[i+1].(ImageItem)
			run := []ContentItem{item}
			i += 2
			for i < len(items) && items[i].isText() {
				run = append(run, items[i])
				i++
			}
			chunks = append(chunks, itemChunk{image: &img, items: run})
			continue
		}

		if item.floated() {
			img := item.(ImageItem)
			var run []ContentItem
			i++
			for i < len(items) && items[i].isText() {
				run = append(run, items[i])
				i++
			}
			chunks = append(chunks, itemChunk{image: &img, items: run})
			continue
		}

		chunks = append(chunks, itemChunk{items: []ContentItem{item}})
		i++
	}
	return chunks
}
