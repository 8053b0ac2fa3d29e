package store

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// A loader converts one document format into plain text. Heading
// structure is preserved as "#"-prefixed lines so the section indexer
// sees the same shape regardless of the source format.
type loader interface {
	Load(r io.Reader, filename string) (title, text string, err error)
}

var supportedExt = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".csv":      true,
	".pdf":      true,
	".docx":     true,
}

func forFile(filename string) (loader, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return &textLoader{}, nil
	case ".md", ".markdown":
		return &markdownLoader{}, nil
	case ".html", ".htm":
		return &htmlLoader{}, nil
	case ".csv":
		return &csvLoader{}, nil
	case ".pdf":
		return &pdfLoader{}, nil
	case ".docx":
		return &docxLoader{}, nil
	}
	return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(filename))
}

// textLoader reads plain text verbatim. The first non-blank line
// doubles as the title.
type textLoader struct{}

func (l *textLoader) Load(r io.Reader, _ string) (string, string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var b strings.Builder
	title := ""
	for scanner.Scan() {
		line := scanner.Text()
		if title == "" && strings.TrimSpace(line) != "" {
			title = strings.TrimSpace(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	return title, strings.TrimRight(b.String(), "\n"), nil
}
