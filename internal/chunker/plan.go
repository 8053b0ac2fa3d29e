// Package chunker turns a document and its section index into a
// deterministic, resumable sequence of token-bounded chunks, ranked by
// lexical relevance when a query is supplied.
package chunker

import (
	"sort"
	"strings"

	"github.com/kcsc-gpt/standards-api/internal/section"
)

// DefaultChunkSize is the token budget applied when a request carries
// no chunk size or a non-positive one.
const DefaultChunkSize = 1000

// DefaultPageChunks is how many chunks one paginated response carries.
const DefaultPageChunks = 3

// Chunk is one bounded segment of a document.
type Chunk struct {
	Index     int    `json:"chunk_index"`
	Relevance Tier   `json:"relevance"`
	Content   string `json:"content"`
	Tokens    int    `json:"tokens"`
	HasMore   bool   `json:"has_more"`
}

// Plan is the full chunk sequence for one (document, query, chunk
// size) shape. It is immutable once built and safe to share across
// concurrent readers.
type Plan struct {
	Code      string  `json:"code"`
	Query     string  `json:"query,omitempty"`
	ChunkSize int     `json:"chunk_size"`
	Chunks    []Chunk `json:"chunks"`
}

// TotalChunks returns the length of the full plan.
func (p *Plan) TotalChunks() int { return len(p.Chunks) }

// Page is one paginated slice of a plan.
type Page struct {
	Code         string  `json:"code"`
	Query        string  `json:"query,omitempty"`
	TotalChunks  int     `json:"total_chunks"`
	CurrentChunk int     `json:"current_chunk"`
	Chunks       []Chunk `json:"chunks"`
	NextChunk    *int    `json:"next_chunk,omitempty"`
	Completed    bool    `json:"completed"`
}

// unit is an indivisible-or-small piece of text the slicer accumulates.
// A unit whose token count alone exceeds the budget becomes its own
// oversized chunk rather than being truncated.
type unit struct {
	text   string
	tokens int
	tier   Tier
}

// BuildPlan computes the full plan for a document. With a query,
// sections are reordered by descending relevance (ties keep document
// order); content within a section always stays in document order.
// Without a query every section is taken sequentially and tagged n/a.
// For fixed inputs the result is identical on every call.
func BuildPlan(code, content, query string, secs []section.Section, chunkSize int) *Plan {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	plan := &Plan{Code: code, Query: query, ChunkSize: chunkSize}

	if strings.TrimSpace(content) == "" {
		plan.Chunks = []Chunk{{Index: 0, Relevance: TierNA}}
		return plan
	}

	var units []unit
	for _, s := range orderSections(content, secs, query) {
		body := content[s.StartOffset:s.EndOffset]
		units = append(units, sectionUnits(body, s.tier, chunkSize)...)
	}

	plan.Chunks = slice(units, chunkSize)
	for i := range plan.Chunks {
		plan.Chunks[i].Index = i
		plan.Chunks[i].HasMore = i < len(plan.Chunks)-1
	}
	return plan
}

// Page returns the slice of the plan starting at start. Indexes are
// over the full plan, so any start returned as next_chunk resumes the
// exact sequence. A start at or past the end is benign: an empty slice
// with completed=true.
func (p *Plan) Page(start, max int) Page {
	if start < 0 {
		start = 0
	}
	if max <= 0 {
		max = DefaultPageChunks
	}

	total := len(p.Chunks)
	pg := Page{
		Code:         p.Code,
		Query:        p.Query,
		TotalChunks:  total,
		CurrentChunk: start,
		Chunks:       []Chunk{},
	}
	if start >= total {
		pg.Completed = true
		return pg
	}

	end := start + max
	if end > total {
		end = total
	}
	pg.Chunks = p.Chunks[start:end]
	if end < total {
		next := end
		pg.NextChunk = &next
	}
	pg.Completed = end >= total
	return pg
}

type rankedSection struct {
	section.Section
	tier  Tier
	score float64
}

func orderSections(content string, secs []section.Section, query string) []rankedSection {
	ranked := make([]rankedSection, 0, len(secs))
	for _, s := range secs {
		rs := rankedSection{Section: s, tier: TierNA}
		if query != "" {
			rs.score, rs.tier = Score(content[s.StartOffset:s.EndOffset], query)
		}
		ranked = append(ranked, rs)
	}
	if query != "" {
		// Stable: equal scores keep document order.
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].score > ranked[j].score
		})
	}
	return ranked
}

// sectionUnits breaks a section body into paragraph units. Paragraphs
// over budget are split by sentences, except table blocks and formula
// paragraphs, which stay whole no matter their size.
func sectionUnits(body string, tier Tier, budget int) []unit {
	var units []unit
	for _, para := range splitParagraphs(body) {
		tokens := EstimateTokens(para)
		if tokens <= budget || section.ContainsTable(para) || section.ContainsFormula(para) {
			units = append(units, unit{text: para, tokens: tokens, tier: tier})
			continue
		}
		for _, sent := range splitSentences(para) {
			units = append(units, unit{text: sent, tokens: EstimateTokens(sent), tier: tier})
		}
	}
	return units
}

// slice accumulates units into chunks within the token budget, cutting
// at unit boundaries. A chunk never mixes relevance tiers, so each
// chunk inherits exactly one source tier.
func slice(units []unit, budget int) []Chunk {
	var chunks []Chunk
	var cur []string
	curTokens := 0
	curTier := TierNA

	flush := func() {
		if len(cur) == 0 {
			return
		}
		chunks = append(chunks, Chunk{
			Relevance: curTier,
			Content:   strings.Join(cur, "\n\n"),
			Tokens:    curTokens,
		})
		cur = nil
		curTokens = 0
	}

	for _, u := range units {
		if len(cur) > 0 && (curTokens+u.tokens > budget || u.tier != curTier) {
			flush()
		}
		cur = append(cur, u.text)
		curTokens += u.tokens
		curTier = u.tier
	}
	flush()
	return chunks
}

func splitParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by whitespace. Korean prose ends sentences with the same
// marks, so one rule covers both scripts.
func splitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	bytes := []byte(text)
	for i := 0; i < len(bytes); i++ {
		cur.WriteByte(bytes[i])
		b := bytes[i]
		if (b == '.' || b == '!' || b == '?') && i+1 < len(bytes) && (bytes[i+1] == ' ' || bytes[i+1] == '\n') {
			if s := strings.TrimSpace(cur.String()); s != "" {
				sentences = append(sentences, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
