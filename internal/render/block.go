package render

import "fmt"

// Block is one titled, collapsible unit of rendered content. A design
// record renders to an ordered block sequence; the presentation layer
// decides chrome (collapsing, styling) and is not this package's
// concern.
type Block struct {
	// Key is the source field or chapter id the block came from.
	Key   string
	Title string
	Nodes []Node
}

// Node is a closed set of renderable content nodes. Every implementation
// lives in this package.
type Node interface {
	node()
}

// Paragraph is a run of prose with optional trailing citation markers.
type Paragraph struct {
	Text Inline
}

// List is an unordered list of prose items.
type List struct {
	Items []Inline
}

// Timeline is a chronological sequence. Entry order is the source
// order; entries are never re-sorted by year.
type Timeline struct {
	Entries []TimelineEntry
}

// TimelineEntry is one step of a Timeline. Heading is the year or
// period string, Designer an optional attribution.
type TimelineEntry struct {
	Heading  string
	Designer string
	Body     Inline
}

// References is a numbered, anchor-tagged reference list.
type References struct {
	Entries []Reference
}

// Reference is one bibliography entry. Its anchor is the link target
// for citation markers elsewhere in the record.
type Reference struct {
	ID     int
	Title  string
	Source string
	URL    string
}

// Anchor returns the in-page anchor name for the reference. The
// "ref-N" format is a contract with citation markers, which link to
// "#ref-N".
func (r Reference) Anchor() string {
	return fmt.Sprintf("ref-%d", r.ID)
}

// CrossRefs is a list of links into the catalog or glossary.
type CrossRefs struct {
	Entries []CrossRef
}

// CrossRef is one cross-reference entry. A zero Link renders as plain
// text.
type CrossRef struct {
	Label string
	Link  Link
}

// Definitions is a term/value list for scalar-valued object fields.
type Definitions struct {
	Entries []Definition
}

// Definition is one term/value pair.
type Definition struct {
	Term  string
	Value string
}

// Subsection is a titled group of nodes nested inside a block.
type Subsection struct {
	Title string
	Nodes []Node
}

// Image is a figure with optional caption and layout hint.
type Image struct {
	Src       string
	Alt       string
	Caption   string
	Layout    string // "left", "right", "center" or ""
	Scale     float64
	Variant   string
	Era       string
	Citations []int
}

// Quote is a block quotation.
type Quote struct {
	Text Inline
}

// Table is a tabular node. Headers may be empty.
type Table struct {
	Headers   []string
	Rows      [][]string
	Citations []int
}

// FloatGroup is an image plus the text run that wraps around it. The
// image always renders first regardless of source order.
type FloatGroup struct {
	Image Image
	Nodes []Node
}

// CitationMark is a standalone run of citation markers, used for
// section-level citations rendered after a section's items.
type CitationMark struct {
	Citations []int
}

func (Paragraph) node()    {}
func (List) node()         {}
func (Timeline) node()     {}
func (References) node()   {}
func (CrossRefs) node()    {}
func (Definitions) node()  {}
func (Subsection) node()   {}
func (Image) node()        {}
func (Quote) node()        {}
func (Table) node()        {}
func (FloatGroup) node()   {}
func (CitationMark) node() {}
