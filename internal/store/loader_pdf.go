package store

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// pdfLoader extracts plain text from a PDF. ledongthuc/pdf needs a
// ReadSeeker with a known size, so input is staged in a temp file.
type pdfLoader struct{}

func (l *pdfLoader) Load(r io.Reader, _ string) (string, string, error) {
	tmp, err := os.CreateTemp("", "standards-pdf-*.pdf")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return "", "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}

	text := b.String()
	title := ""
	if i := strings.IndexByte(text, '\n'); i > 0 {
		title = strings.TrimSpace(text[:i])
	} else {
		title = strings.TrimSpace(text)
	}
	return title, text, nil
}
