package store

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// docxLoader extracts text from a .docx. Paragraphs with Heading
// styles become ATX lines; the first heading doubles as the title.
// go-docx needs a ReadSeeker with a known size, so input is staged in
// a temp file.
type docxLoader struct{}

func (l *docxLoader) Load(r io.Reader, _ string) (string, string, error) {
	tmp, err := os.CreateTemp("", "standards-docx-*.docx")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return "", "", fmt.Errorf("parse docx: %w", err)
	}

	var b strings.Builder
	title := ""

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := paragraphText(para)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		if lvl := paragraphHeadingLevel(para); lvl > 0 {
			if title == "" {
				title = text
			}
			b.WriteString(strings.Repeat("#", lvl))
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}

	return title, b.String(), nil
}

func paragraphHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch style[len(style)-1] {
	case '1', '2', '3', '4', '5', '6':
		return int(style[len(style)-1] - '0')
	}
	return 0
}

func paragraphText(para *docx.Paragraph) string {
	var b strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				b.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(b.String())
}
