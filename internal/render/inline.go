package render

import (
	"regexp"
	"strings"

	"github.com/tsukino/mcp-lensref-server/internal/domain"
)

// LinkKind distinguishes cross-reference targets.
type LinkKind int

const (
	// LinkNone marks plain text.
	LinkNone LinkKind = iota
	// LinkTerm targets a glossary page.
	LinkTerm
	// LinkLens targets a lens detail page in the catalog.
	LinkLens
	// LinkExternal targets an absolute URL held in Slug.
	LinkExternal
)

// Link is a navigable cross-reference target.
type Link struct {
	Kind LinkKind
	Slug string
}

// Span is a run of text, optionally linked.
type Span struct {
	Text string
	Link Link
}

// Inline is a run of spans with trailing citation markers. Each
// citation number N renders as a superscript link to "#ref-N".
type Inline struct {
	Spans     []Span
	Citations []int
}

func plainInline(text string, citations []int) Inline {
	return Inline{Spans: []Span{{Text: text}}, Citations: citations}
}

// String returns the unlinked text of the inline, for tests and
// plain-text output.
func (in Inline) String() string {
	var sb strings.Builder
	for _, s := range in.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Linker converts known terminology inside free text into links. The
// match is a plain substring alternation, not word-boundary aware, and
// dictionary order decides overlapping matches: the first listed term
// wins at the earliest match position.
type Linker struct {
	entries    []domain.TermLink
	slugByTerm map[string]string
	re         *regexp.Regexp
	hasCatalog func(slug string) bool
}

// NewLinker builds a linker over the given dictionary. hasCatalog
// reports whether a catalog detail page exists for a slug; when it
// does, matches link to the catalog page instead of the glossary. A nil
// hasCatalog always resolves to the glossary.
func NewLinker(entries []domain.TermLink, hasCatalog func(slug string) bool) *Linker {
	l := &Linker{
		entries:    entries,
		slugByTerm: make(map[string]string, len(entries)),
		hasCatalog: hasCatalog,
	}
	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Term == "" {
			continue
		}
		if _, dup := l.slugByTerm[e.Term]; dup {
			continue
		}
		l.slugByTerm[e.Term] = e.Slug
		terms = append(terms, e.Term)
	}
	if len(terms) > 0 {
		// Terms are embedded unescaped, matching the upstream data
		// contract. If an operator ships a term that breaks the
		// alternation the linker degrades to plain text.
		re, err := regexp.Compile("(" + strings.Join(terms, "|") + ")")
		if err == nil {
			l.re = re
		}
	}
	return l
}

// LinkText splits text into spans, turning every dictionary match into
// a link.
func (l *Linker) LinkText(text string) []Span {
	if l == nil || l.re == nil || text == "" {
		return []Span{{Text: text}}
	}
	matches := l.re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return []Span{{Text: text}}
	}
	var spans []Span
	last := 0
	for _, m := range matches {
		if m[0] > last {
			spans = append(spans, Span{Text: text[last:m[0]]})
		}
		term := text[m[0]:m[1]]
		spans = append(spans, Span{Text: term, Link: l.resolve(term)})
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// Inline wraps LinkText into an Inline with citations attached.
func (l *Linker) Inline(text string, citations []int) Inline {
	return Inline{Spans: l.LinkText(text), Citations: citations}
}

// resolve picks the link target for a matched term: catalog detail page
// when one exists for the slug, glossary page otherwise. A dictionary
// entry with an empty slug yields plain text.
func (l *Linker) resolve(term string) Link {
	slug := l.slugByTerm[term]
	if slug == "" {
		return Link{}
	}
	if l.hasCatalog != nil && l.hasCatalog(slug) {
		return Link{Kind: LinkLens, Slug: slug}
	}
	return Link{Kind: LinkTerm, Slug: slug}
}

// LookupSlug returns the dictionary slug for an exact term, if any.
func (l *Linker) LookupSlug(term string) (string, bool) {
	if l == nil {
		return "", false
	}
	slug, ok := l.slugByTerm[term]
	if !ok || slug == "" {
		return "", false
	}
	return slug, ok
}
