package render

import (
	"fmt"
	"strings"
)

// Markdown serializes a block sequence for text-based consumers (the
// MCP tools). Reference entries emit "ref-N" anchors and citation
// markers link to "#ref-N", preserving the in-page anchor contract.
func Markdown(blocks []Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		if b.Title != "" {
			fmt.Fprintf(&sb, "## %s\n\n", b.Title)
		}
		writeNodes(&sb, b.Nodes, 0)
	}
	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		writeNode(sb, n, depth)
	}
}

func writeNode(sb *strings.Builder, n Node, depth int) {
	switch node := n.(type) {
	case Paragraph:
		sb.WriteString(inlineMarkdown(node.Text))
		sb.WriteString("\n\n")
	case List:
		for _, item := range node.Items {
			fmt.Fprintf(sb, "- %s\n", inlineMarkdown(item))
		}
		sb.WriteString("\n")
	case Timeline:
		for _, e := range node.Entries {
			heading := e.Heading
			if e.Designer != "" {
				heading += " (" + e.Designer + ")"
			}
			fmt.Fprintf(sb, "- **%s** — %s\n", heading, inlineMarkdown(e.Body))
		}
		sb.WriteString("\n")
	case References:
		for _, ref := range node.Entries {
			fmt.Fprintf(sb, "<a id=%q></a>[%d] ", ref.Anchor(), ref.ID)
			if ref.URL != "" {
				fmt.Fprintf(sb, "[%s](%s)", ref.Title, ref.URL)
			} else {
				sb.WriteString(ref.Title)
			}
			if ref.Source != "" {
				sb.WriteString(" — " + ref.Source)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	case CrossRefs:
		for _, ref := range node.Entries {
			fmt.Fprintf(sb, "- %s\n", linkMarkdown(ref.Label, ref.Link))
		}
		sb.WriteString("\n")
	case Definitions:
		for _, def := range node.Entries {
			fmt.Fprintf(sb, "**%s**: %s\n", def.Term, def.Value)
		}
		sb.WriteString("\n")
	case Subsection:
		if node.Title != "" {
			fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", min(depth+3, 6)), node.Title)
		}
		writeNodes(sb, node.Nodes, depth+1)
	case Image:
		alt := node.Alt
		if alt == "" {
			alt = node.Caption
		}
		fmt.Fprintf(sb, "![%s](%s)\n", alt, node.Src)
		if label := strings.Join(nonEmpty(node.Variant, node.Era), " · "); label != "" {
			fmt.Fprintf(sb, "*%s*\n", label)
		}
		if node.Caption != "" {
			fmt.Fprintf(sb, "*%s*", node.Caption)
			sb.WriteString(citationMarkdown(node.Citations))
			sb.WriteString("\n")
		} else if marks := citationMarkdown(node.Citations); marks != "" {
			sb.WriteString(marks + "\n")
		}
		sb.WriteString("\n")
	case Quote:
		fmt.Fprintf(sb, "> %s\n\n", inlineMarkdown(node.Text))
	case Table:
		writeTable(sb, node)
	case FloatGroup:
		writeNode(sb, node.Image, depth)
		writeNodes(sb, node.Nodes, depth)
	case CitationMark:
		if marks := citationMarkdown(node.Citations); marks != "" {
			sb.WriteString(marks + "\n\n")
		}
	}
}

func writeTable(sb *strings.Builder, t Table) {
	width := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return
	}
	headers := make([]string, width)
	copy(headers, t.Headers)
	fmt.Fprintf(sb, "| %s |\n", strings.Join(headers, " | "))
	sep := make([]string, width)
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(sb, "| %s |\n", strings.Join(sep, " | "))
	for _, row := range t.Rows {
		cells := make([]string, width)
		copy(cells, row)
		fmt.Fprintf(sb, "| %s |\n", strings.Join(cells, " | "))
	}
	sb.WriteString(citationMarkdown(t.Citations))
	sb.WriteString("\n")
}

func inlineMarkdown(in Inline) string {
	var sb strings.Builder
	for _, span := range in.Spans {
		sb.WriteString(linkMarkdown(span.Text, span.Link))
	}
	sb.WriteString(citationMarkdown(in.Citations))
	return sb.String()
}

func linkMarkdown(text string, link Link) string {
	switch link.Kind {
	case LinkTerm:
		return fmt.Sprintf("[%s](/terms/%s)", text, link.Slug)
	case LinkLens:
		return fmt.Sprintf("[%s](/lenses/%s)", text, link.Slug)
	case LinkExternal:
		return fmt.Sprintf("[%s](%s)", text, link.Slug)
	default:
		return text
	}
}

func citationMarkdown(citations []int) string {
	var sb strings.Builder
	for _, n := range citations {
		fmt.Fprintf(&sb, " [[%d]](#ref-%d)", n, n)
	}
	return sb.String()
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
