package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvLoader renders CSV data as pipe-delimited table lines, which the
// section indexer flags as table content and the chunk planner keeps
// row-whole.
type csvLoader struct{}

func (l *csvLoader) Load(r io.Reader, _ string) (string, string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", "", nil
	}

	var b strings.Builder
	for i, row := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, " | "))
	}

	title := strings.Join(records[0], " | ")
	return title, b.String(), nil
}
