// Package plaintext converts rich note content into plain text for search.
package plaintext

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FromMarkdown converts markdown content to plain text by walking the
// goldmark AST. Formatting is discarded; fenced code block contents are kept
// so code inside rich-text notes stays searchable.
func FromMarkdown(markdown string) string {
	if markdown == "" {
		return ""
	}

	md := goldmark.New()
	source := []byte(markdown)
	node := md.Parser().Parse(text.NewReader(source))

	var builder strings.Builder
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindText:
			textNode := n.(*ast.Text)
			builder.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				builder.WriteString("\n")
			}
		case ast.KindParagraph, ast.KindHeading, ast.KindList:
			builder.WriteString("\n")
		case ast.KindCodeBlock:
			writeLines(&builder, n, source)
			return ast.WalkSkipChildren, nil
		case ast.KindFencedCodeBlock:
			writeLines(&builder, n, source)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

func writeLines(builder *strings.Builder, n ast.Node, source []byte) {
	builder.WriteString("\n")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(source))
	}
}

// FirstHeadingTitle extracts a title from markdown: the first heading if one
// exists, otherwise the first non-empty line. Returns "" when the content has
// no usable line.
func FirstHeadingTitle(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			title := strings.TrimSpace(strings.TrimLeft(line, "#"))
			if title != "" {
				return truncate(title, 200)
			}
			continue
		}
		return truncate(line, 100)
	}
	return ""
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
