package render

// RenderRecord renders a full design record into an ordered block
// sequence. The hybrid type guard runs exactly once, up front; for all
// other schema generations the record renders field by field in key
// order, with two exceptions: meta is never a section of its own, and
// origin is hoisted to render first whether it sits at the top level or
// inside a legacy meta.origin.
func (r *Renderer) RenderRecord(doc *Object, d *Diagnostics) []Block {
	if doc == nil {
		return nil
	}
	if IsHybrid(doc) {
		return r.RenderHybrid(DecodeHybrid(doc, d))
	}

	var blocks []Block

	meta := doc.Get("meta")
	if figures := r.opticalFormulaBlock(meta); figures != nil {
		blocks = append(blocks, figures...)
	}

	origin := doc.Get("origin")
	if origin == nil {
		if v, ok := objectGet(meta, "origin"); ok {
			origin = v
		}
	}
	if origin != nil {
		blocks = append(blocks, r.RenderSection("origin", origin)...)
	}

	for _, key := range doc.Keys() {
		if key == "meta" || key == "origin" {
			continue
		}
		if key == "chapters" {
			// Reached only when the chapter tree failed the hybrid
			// guard. The field has no section rendering, so surface
			// the loss instead of skipping it silently.
			d.record(DroppedItem, "chapters", "malformed chapter tree")
			continue
		}
		blocks = append(blocks, r.RenderSection(key, doc.Get(key))...)
	}
	return blocks
}

// RecordTitle extracts the display name and optional english name from
// a record's meta.
func RecordTitle(doc *Object) (name, englishName string) {
	meta := doc.Get("meta")
	return stringAt(meta, "name"), stringAt(meta, "english_name")
}

// opticalFormulaBlock renders the meta.media.optical_formula figures
// that lead a design page, when present.
func (r *Renderer) opticalFormulaBlock(meta any) []Block {
	media, ok := objectGet(meta, "media")
	if !ok {
		return nil
	}
	formula, ok := objectGet(media, "optical_formula")
	if !ok {
		return nil
	}
	arr, ok := formula.([]any)
	if !ok || len(arr) == 0 {
		return nil
	}
	var nodes []Node
	for _, raw := range arr {
		src := stringAt(raw, "src")
		if src == "" {
			continue
		}
		img := Image{
			Src:     src,
			Caption: stringAt(raw, "caption"),
			Variant: stringAt(raw, "variant"),
			Era:     stringAt(raw, "era"),
			Scale:   1,
		}
		if img.Caption == "" {
			img.Alt = "Optical diagram"
		}
		nodes = append(nodes, img)
	}
	if len(nodes) == 0 {
		return nil
	}
	return []Block{{
		Key:   "optical_formula",
		Title: r.cfg.sectionTitle("optical_formula"),
		Nodes: nodes,
	}}
}
