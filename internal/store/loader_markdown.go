package store

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdownLoader flattens a Markdown document through the goldmark
// AST. Headings come out as ATX lines at their original level; other
// blocks keep their source lines. The first level-1 heading becomes
// the document title.
type markdownLoader struct{}

func (l *markdownLoader) Load(r io.Reader, _ string) (string, string, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	title := ""

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			heading := string(node.Text(src))
			if title == "" && node.Level == 1 {
				title = heading
			}
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(strings.Repeat("#", node.Level))
			b.WriteByte(' ')
			b.WriteString(heading)
		default:
			t := blockText(n, src)
			if t == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n\n")
			}
			b.WriteString(t)
		}
	}

	return title, b.String(), nil
}

// blockText collects the raw source lines of a block node. Container
// nodes without their own line span (lists, block quotes) recurse into
// their children instead.
func blockText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeBlock {
		if lines := n.Lines(); lines.Len() > 0 {
			var b strings.Builder
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(src))
			}
			return strings.TrimSpace(b.String())
		}
	}
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(t)
		}
	}
	return strings.TrimSpace(b.String())
}
