package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kcsc-gpt/standards-api/internal/chunker"
	"github.com/kcsc-gpt/standards-api/internal/store"
	"github.com/kcsc-gpt/standards-api/internal/stream"
	"github.com/kcsc-gpt/standards-api/internal/topic"
)

// handleChunked returns one page of a document's chunk plan.
// Non-positive or missing chunk_size falls back to the configured
// default; a start_chunk at or past the end is a benign empty page.
func (s *Server) handleChunked(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookupDocument(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("query")
	chunkSize, ok := s.intParam(w, r, "chunk_size", s.cfg.DefaultChunkSize)
	if !ok {
		return
	}
	if chunkSize <= 0 {
		chunkSize = s.cfg.DefaultChunkSize
	}
	startChunk, ok := s.intParam(w, r, "start_chunk", 0)
	if !ok {
		return
	}

	plan, err := s.plan(doc, query, chunkSize)
	if err != nil {
		s.log.Error("chunk planning failed", "code", doc.Code, "error", err)
		jsonError(w, "internal", "chunk planning failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, plan.Page(startChunk, s.cfg.MaxPageChunks))
}

// handleStream emits the whole plan as NDJSON, one record per chunk,
// terminated by a completion marker or a terminal error record.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookupDocument(w, r)
	if !ok {
		return
	}

	query := r.URL.Query().Get("query")
	chunkTokens, ok := s.intParam(w, r, "chunk_tokens", s.cfg.StreamChunkTokens)
	if !ok {
		return
	}
	if chunkTokens <= 0 {
		chunkTokens = s.cfg.StreamChunkTokens
	}

	plan, err := s.plan(doc, query, chunkTokens)
	if err != nil {
		s.log.Error("chunk planning failed", "code", doc.Code, "error", err)
		jsonError(w, "internal", "chunk planning failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)

	var flush func()
	if f, can := w.(http.Flusher); can {
		flush = f.Flush
	}

	em := stream.New(w, flush)
	if err := em.Run(r.Context(), plan); err != nil {
		// Terminal record already written; the connection may be gone.
		s.log.Warn("stream aborted", "code", doc.Code, "state", em.State().String(), "error", err)
	}
}

// handleSections returns the document's section index.
func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookupDocument(w, r)
	if !ok {
		return
	}
	secs := doc.Sections()
	writeJSON(w, http.StatusOK, map[string]any{
		"code":           doc.Code,
		"title":          doc.Title,
		"total_sections": len(secs),
		"sections":       secs,
	})
}

// handleTopic is a pass-through to the precomputed topic registry.
func (s *Server) handleTopic(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	name := chi.URLParam(r, "topic")

	rec, err := s.topics.Lookup(code, name)
	if errors.Is(err, topic.ErrNotFound) {
		jsonError(w, "not_found", "topic "+name+" not found for "+code, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// lookupDocument resolves {code}, rejecting malformed codes and
// unknown documents before any planning work happens.
func (s *Server) lookupDocument(w http.ResponseWriter, r *http.Request) (*store.Document, bool) {
	code := chi.URLParam(r, "code")
	if store.NormalizeCode(code) == "" {
		jsonError(w, "invalid_parameter", "malformed document code", http.StatusBadRequest)
		return nil, false
	}
	doc, err := s.store.Get(code)
	if err != nil {
		jsonError(w, "not_found", "standard "+code+" not found", http.StatusNotFound)
		return nil, false
	}
	return doc, true
}

func (s *Server) plan(doc *store.Document, query string, chunkSize int) (*chunker.Plan, error) {
	return s.cache.GetOrCompute(doc.Code, query, chunkSize, func() (*chunker.Plan, error) {
		return chunker.BuildPlan(doc.Code, doc.Content, query, doc.Sections(), chunkSize), nil
	})
}

func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		jsonError(w, "invalid_parameter", name+" must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return n, true
}
