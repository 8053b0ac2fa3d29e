package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/kcsc-gpt/standards-api/internal/chunker"
	"github.com/kcsc-gpt/standards-api/internal/store"
)

type searchRequest struct {
	Query      string `json:"query"`
	SearchType string `json:"search_type"`
	Limit      int    `json:"limit"`
}

type searchResult struct {
	Code           string  `json:"code"`
	Title          string  `json:"title"`
	Category       string  `json:"category,omitempty"`
	Content        string  `json:"content"`
	RelevanceScore float64 `json:"relevance_score"`
}

// handleSearch performs lexical search over the store. A title hit
// outranks a body hit; code and category modes match their fields
// directly.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid_parameter", "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		jsonError(w, "invalid_parameter", "query is required", http.StatusBadRequest)
		return
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	var results []searchResult
	switch req.SearchType {
	case "code":
		results = s.searchByCode(req.Query)
	case "category":
		results = s.searchByCategory(req.Query)
	default:
		results = s.searchByKeyword(req.Query)
	}

	if len(results) > limit {
		results = results[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":     results,
		"total":       len(results),
		"query":       req.Query,
		"search_type": req.SearchType,
	})
}

func (s *Server) searchByCode(query string) []searchResult {
	norm := store.NormalizeCode(query)
	var out []searchResult
	for _, d := range s.store.All() {
		docNorm := store.NormalizeCode(d.Code)
		if !strings.Contains(docNorm, norm) {
			continue
		}
		score := 0.8
		if docNorm == norm {
			score = 1.0
		}
		out = append(out, result(d, score))
	}
	sortResults(out)
	return out
}

func (s *Server) searchByCategory(query string) []searchResult {
	norm := store.NormalizeCode(query)
	var out []searchResult
	for _, d := range s.store.All() {
		if d.Category == "" || !strings.Contains(store.NormalizeCode(d.Category), norm) {
			continue
		}
		out = append(out, result(d, 0.9))
	}
	return out
}

func (s *Server) searchByKeyword(query string) []searchResult {
	var out []searchResult
	for _, d := range s.store.All() {
		titleScore, _ := chunker.Score(d.Title, query)
		var score float64
		switch {
		case titleScore > 0:
			score = 1.0
		default:
			if bodyScore, _ := chunker.Score(d.Content, query); bodyScore > 0 {
				score = 0.5
			}
		}
		if score > 0 {
			out = append(out, result(d, score))
		}
	}
	sortResults(out)
	return out
}

func result(d *store.Document, score float64) searchResult {
	return searchResult{
		Code:           d.Code,
		Title:          d.Title,
		Category:       d.Category,
		Content:        preview(d.Content, 300),
		RelevanceScore: score,
	}
}

func sortResults(results []searchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
}

func preview(content string, maxRunes int) string {
	runes := []rune(content)
	if len(runes) <= maxRunes {
		return content
	}
	return string(runes[:maxRunes]) + "..."
}

// handleStandardDetail returns a document's title, content and section
// index in one response.
func (s *Server) handleStandardDetail(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookupDocument(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":     doc.Code,
		"title":    doc.Title,
		"category": doc.Category,
		"content":  doc.Content,
		"tokens":   chunker.EstimateTokens(doc.Content),
		"sections": doc.Sections(),
	})
}

// handleStats reports store and cache statistics.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	categories := make(map[string]bool)
	for _, d := range s.store.All() {
		if d.Category != "" {
			categories[d.Category] = true
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_documents":  s.store.Len(),
		"total_categories": len(categories),
		"total_topics":     s.topics.Len(),
		"plans_cached":     s.cache.Len(),
	})
}
