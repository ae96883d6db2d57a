package domain

// Term is a glossary entry. Beyond the identifying fields the document
// is schema-loose: sections carry whatever keys the author used, so the
// body is kept as an untyped tree and rendered by the render package.
type Term struct {
	Slug    string         `json:"slug"`
	Title   string         `json:"title"`
	Content string         `json:"content,omitempty"`
	Fields  map[string]any `json:"-"`
}

// TermLink is one entry of the static term dictionary. Term is the
// literal substring matched in prose, Slug the glossary page it links
// to. Dictionary order is significant: the first listed term wins when
// two terms overlap at the same position.
type TermLink struct {
	Term string `json:"term" yaml:"term"`
	Slug string `json:"slug" yaml:"slug"`
}
