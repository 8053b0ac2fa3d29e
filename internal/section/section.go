// Package section parses a document's heading structure into an
// ordered, non-overlapping list of sections with byte ranges.
package section

import (
	"regexp"
	"strconv"
	"strings"
)

// Section is a heading-bounded range of a document's content. Ranges
// are half-open [StartOffset, EndOffset), monotonically increasing,
// and together partition the content.
type Section struct {
	Index       int    `json:"index"`
	Level       int    `json:"level"`
	Title       string `json:"title"`
	StartOffset int    `json:"start_offset"`
	EndOffset   int    `json:"end_offset"`
	HasFormula  bool   `json:"has_formula"`
	HasTable    bool   `json:"has_table"`
}

// FrontMatterTitle names the implicit section covering content that
// precedes the first recognized heading.
const FrontMatterTitle = "front matter"

// A rule recognizes one heading family. Rules are tried in order; the
// first match wins. Patterns are anchored to the start of the line so
// indented table cells and formula fragments never match.
type rule struct {
	name  string
	re    *regexp.Regexp
	level func(m []string) int
	title func(m []string) string
}

var rules = []rule{
	{
		name:  "atx",
		re:    regexp.MustCompile(`^(#{1,6})\s+(\S.*?)\s*$`),
		level: func(m []string) int { return len(m[1]) },
		title: func(m []string) string { return m[2] },
	},
	{
		name:  "chapter",
		re:    regexp.MustCompile(`^제\s?([0-9]+)\s?장\s*(.*)$`),
		level: func(m []string) int { return 1 },
		title: func(m []string) string { return headingTitle(m[0]) },
	},
	{
		name:  "clause",
		re:    regexp.MustCompile(`^제\s?([0-9]+)\s?절\s*(.*)$`),
		level: func(m []string) int { return 2 },
		title: func(m []string) string { return headingTitle(m[0]) },
	},
	{
		name: "numbered",
		re:   regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)*)\.?[ \t]+(\S.*?)\s*$`),
		level: func(m []string) int {
			return strings.Count(m[1], ".") + 1
		},
		title: func(m []string) string { return m[1] + " " + m[2] },
	},
	{
		name:  "appendix",
		re:    regexp.MustCompile(`^부록\s*(.*)$`),
		level: func(m []string) int { return 1 },
		title: func(m []string) string { return headingTitle(m[0]) },
	},
}

func headingTitle(line string) string {
	return strings.TrimSpace(line)
}

var (
	formulaRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9_]*\s*=\s*[-0-9A-Za-z(√]`)
	mathRunes = "≤≥±√∑Σ∫∙×≒≈Δαβγφσ"
)

// Index parses content into an ordered section list. When no heading
// is recognized — or parsing fails on malformed input — the result is
// a single section spanning the whole document; a document never has
// zero sections. Heading numbers are trusted only for depth: document
// order decides section order, so out-of-order or duplicated numbers
// are handled by position.
func Index(content string) (sections []Section) {
	defer func() {
		if r := recover(); r != nil {
			sections = fallback(content)
		}
	}()

	type heading struct {
		offset int
		level  int
		title  string
	}
	var heads []heading

	offset := 0
	for offset <= len(content) {
		end := strings.IndexByte(content[offset:], '\n')
		var line string
		next := len(content) + 1
		if end >= 0 {
			line = content[offset : offset+end]
			next = offset + end + 1
		} else {
			line = content[offset:]
		}

		if lvl, title, ok := matchHeading(line); ok {
			heads = append(heads, heading{offset: offset, level: lvl, title: title})
		}

		offset = next
	}

	if len(heads) == 0 {
		return fallback(content)
	}

	if heads[0].offset > 0 {
		sections = append(sections, makeSection(content, len(sections), 0, FrontMatterTitle, 0, heads[0].offset))
	}
	for i, h := range heads {
		end := len(content)
		if i+1 < len(heads) {
			end = heads[i+1].offset
		}
		sections = append(sections, makeSection(content, len(sections), h.level, h.title, h.offset, end))
	}
	return sections
}

func matchHeading(line string) (level int, title string, ok bool) {
	if line == "" || len(line) > 200 {
		return 0, "", false
	}
	// Table rows masquerade as numbered headings ("3.2 | 4.5 | ...").
	if strings.ContainsRune(line, '|') {
		return 0, "", false
	}
	for _, r := range rules {
		m := r.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if r.name == "numbered" && !plausibleNumber(m[1], m[2]) {
			continue
		}
		return r.level(m), r.title(m), true
	}
	return 0, "", false
}

// plausibleNumber rejects numeric lines that are data rather than
// headings: years ("2016 edition"), deep decimal values, and rows
// whose "title" is just more numbers.
func plausibleNumber(num, rest string) bool {
	segs := strings.Split(num, ".")
	if len(segs) > 4 {
		return false
	}
	if n, err := strconv.Atoi(segs[0]); err != nil || n == 0 || n >= 100 {
		return false
	}
	if r := rest[0]; r >= '0' && r <= '9' {
		return false
	}
	return true
}

func makeSection(content string, index, level int, title string, start, end int) Section {
	body := content[start:end]
	return Section{
		Index:       index,
		Level:       level,
		Title:       title,
		StartOffset: start,
		EndOffset:   end,
		HasFormula:  ContainsFormula(body),
		HasTable:    ContainsTable(body),
	}
}

func fallback(content string) []Section {
	return []Section{{
		Index:       0,
		Level:       0,
		Title:       FrontMatterTitle,
		StartOffset: 0,
		EndOffset:   len(content),
		HasFormula:  ContainsFormula(content),
		HasTable:    ContainsTable(content),
	}}
}

// ContainsFormula reports whether text carries lexical formula
// markers. The chunk planner treats such blocks as indivisible.
func ContainsFormula(text string) bool {
	if strings.ContainsAny(text, mathRunes) {
		return true
	}
	return formulaRe.MatchString(text)
}

// ContainsTable reports whether text contains table rows. Rows are
// never split across chunks.
func ContainsTable(text string) bool {
	for line := range strings.Lines(text) {
		if strings.Count(line, "|") >= 2 {
			return true
		}
	}
	return false
}
