package render

// Renderer turns schema-ambiguous design documents into block
// sequences. It is a pure function of its inputs plus the injected
// configuration; it performs no I/O.
type Renderer struct {
	cfg    *Config
	linker *Linker
}

// New builds a Renderer. hasCatalog reports whether a slug resolves to
// a catalog detail page and may be nil.
func New(cfg *Config, hasCatalog func(slug string) bool) *Renderer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Renderer{
		cfg:    cfg,
		linker: NewLinker(cfg.TermLinks, hasCatalog),
	}
}

// Linker exposes the term linker, for callers that render loose prose
// outside a design record (term pages).
func (r *Renderer) Linker() *Linker {
	return r.linker
}

// RenderSection renders one top-level field of a design record. It is
// total: any value yields either renderable blocks or nil, never a
// panic, and an unrecognized or empty value yields no block at all
// (no empty headings).
func (r *Renderer) RenderSection(field string, value any) []Block {
	switch s := classify(field, value).(type) {
	case shapeNothing:
		return nil
	case shapeTimeline:
		return r.blockOf(field, r.timelineNode(s))
	case shapeVariants:
		return r.blockOf(field, r.groupNodes(s.variants)...)
	case shapePhilosophy:
		return r.blockOf(field, r.groupNodes(s.groups)...)
	case shapeReferences:
		return r.blockOf(field, References{Entries: s.refs})
	case shapeOrigin:
		return r.blockOf(field, r.originNode(s))
	case shapeLensList:
		return r.blockOf(field, r.lensListNode(s))
	case shapeStructure:
		return r.structureBlocks(field, s)
	case shapeGrouped:
		return r.blockOf(field, r.groupedNodes(field, s)...)
	case shapeCitedList:
		return r.blockOf(field, r.citedList(s.items))
	case shapeNamedList:
		return r.blockOf(field, r.plainList(s.names))
	case shapeScalarList:
		return r.blockOf(field, r.plainList(s.items))
	case shapeKeyValues:
		return r.blockOf(field, r.definitions(s.defs))
	default:
		return nil
	}
}

func (r *Renderer) blockOf(field string, nodes ...Node) []Block {
	if len(nodes) == 0 {
		return nil
	}
	return []Block{{Key: field, Title: r.cfg.sectionTitle(field), Nodes: nodes}}
}

func (r *Renderer) timelineNode(s shapeTimeline) Node {
	t := Timeline{}
	for _, e := range s.entries {
		t.Entries = append(t.Entries, TimelineEntry{
			Heading:  e.heading,
			Designer: e.designer,
			Body:     r.linker.Inline(e.body.text, e.body.citations),
		})
	}
	return t
}

func (r *Renderer) groupNodes(groups []pointGroup) []Node {
	var nodes []Node
	for _, g := range groups {
		nodes = append(nodes, Subsection{
			Title: g.name,
			Nodes: []Node{r.citedList(g.points)},
		})
	}
	return nodes
}

func (r *Renderer) citedList(items []citedText) Node {
	l := List{}
	for _, it := range items {
		l.Items = append(l.Items, r.linker.Inline(it.text, it.citations))
	}
	return l
}

func (r *Renderer) plainList(items []string) Node {
	l := List{}
	for _, it := range items {
		l.Items = append(l.Items, r.linker.Inline(it, nil))
	}
	return l
}

func (r *Renderer) originNode(s shapeOrigin) Node {
	d := Definitions{}
	for _, def := range s.defs {
		d.Entries = append(d.Entries, Definition{
			Term:  r.cfg.subsectionLabel("origin", def.key),
			Value: def.text,
		})
	}
	return d
}

// lensListNode resolves each entry to a link target: explicit slug
// first, term-dictionary lookup second, plain text last.
func (r *Renderer) lensListNode(s shapeLensList) Node {
	refs := CrossRefs{}
	for _, item := range s.items {
		ref := CrossRef{Label: item.name}
		if item.slug != "" {
			ref.Link = Link{Kind: LinkLens, Slug: item.slug}
		} else if _, ok := r.linker.LookupSlug(item.name); ok {
			ref.Link = r.linker.resolve(item.name)
		}
		refs.Entries = append(refs.Entries, ref)
	}
	return refs
}

// structureBlocks renders the basic_structure composite as sibling
// blocks, in fixed order: layout overview, design philosophy, typical
// configurations, symmetry.
func (r *Renderer) structureBlocks(field string, s shapeStructure) []Block {
	var blocks []Block
	add := func(sub string, title string, nodes ...Node) {
		if title == "" {
			title = r.cfg.subsectionLabel(field, sub)
		}
		blocks = append(blocks, Block{Key: field + "-" + sub, Title: title, Nodes: nodes})
	}
	if s.overview != nil {
		var nodes []Node
		for _, sec := range s.overview.sections {
			var inner []Node
			if sec.content != "" {
				inner = append(inner, Paragraph{Text: r.linker.Inline(sec.content, sec.citations)})
			}
			if len(sec.items) > 0 {
				list := r.plainList(sec.items).(List)
				if sec.content == "" && sec.citations != nil && len(list.Items) > 0 {
					list.Items[len(list.Items)-1].Citations = sec.citations
				}
				inner = append(inner, list)
			}
			nodes = append(nodes, Subsection{Title: sec.name, Nodes: inner})
		}
		add("layout_overview", s.overview.title, nodes...)
	}
	if len(s.philosophy) > 0 {
		add("design_philosophy", "", r.groupNodes(s.philosophy)...)
	}
	if len(s.configurations) > 0 {
		add("typical_configurations", "", r.plainList(s.configurations))
	}
	if s.symmetry != "" {
		add("symmetry", "", Paragraph{Text: r.linker.Inline(s.symmetry, nil)})
	}
	return blocks
}

func (r *Renderer) groupedNodes(field string, s shapeGrouped) []Node {
	var nodes []Node
	for _, sub := range s.subs {
		nodes = append(nodes, Subsection{
			Title: r.cfg.subsectionLabel(field, sub.key),
			Nodes: []Node{r.citedList(sub.texts)},
		})
	}
	return nodes
}

func (r *Renderer) definitions(defs []labeledText) Node {
	d := Definitions{}
	for _, def := range defs {
		d.Entries = append(d.Entries, Definition{
			Term:  prettifyKey(def.key),
			Value: def.text,
		})
	}
	return d
}
