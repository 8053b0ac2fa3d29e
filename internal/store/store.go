// Package store holds the in-process document set. It is populated
// once at startup and immutable afterwards, so concurrent reads need
// no locking.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/width"

	"github.com/kcsc-gpt/standards-api/internal/section"
)

// ErrNotFound indicates no document exists for a code.
var ErrNotFound = errors.New("document not found")

// Document is one standard held by the store. Content never changes
// after load; the section index is computed at most once.
type Document struct {
	Code     string
	Title    string
	Category string
	Content  string

	once     sync.Once
	sections []section.Section
}

// Sections returns the document's section index, computing it on
// first use.
func (d *Document) Sections() []section.Section {
	d.once.Do(func() {
		d.sections = section.Index(d.Content)
	})
	return d.sections
}

// Store maps normalized codes to documents.
type Store struct {
	docs  map[string]*Document
	order []*Document
}

// New builds a store from documents directly, bypassing the data
// directory. Used for seeding in tests.
func New(docs ...*Document) *Store {
	s := &Store{docs: make(map[string]*Document)}
	for _, d := range docs {
		s.add(d)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i].Code < s.order[j].Code })
	return s
}

// NormalizeCode folds width and case and strips whitespace and
// punctuation, so "KDS 14 20 52", "KDS_14_20_52" and "kds 14-20-52"
// all address the same document. The same rule applies everywhere a
// code or topic name is accepted.
func NormalizeCode(code string) string {
	code = width.Fold.String(code)
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// Load reads every document under dir: JSON collection files are
// expanded into their member documents, and loose .txt/.md/.html/.csv/
// .pdf/.docx files become one document each. Files it cannot read are
// logged and skipped so one bad file never takes down startup.
func Load(dir string, log *slog.Logger) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	s := &Store{docs: make(map[string]*Document)}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		ext := strings.ToLower(filepath.Ext(name))

		switch {
		case name == "topics.json":
			// Owned by the topic registry.
		case ext == ".json":
			if err := s.loadCollection(path); err != nil {
				log.Warn("skipping collection file", "file", name, "error", err)
			}
		case supportedExt[ext]:
			if err := s.loadFile(path, name); err != nil {
				log.Warn("skipping document file", "file", name, "error", err)
			}
		}
	}

	if len(s.docs) == 0 {
		return nil, fmt.Errorf("no documents loaded from %s", dir)
	}

	sort.Slice(s.order, func(i, j int) bool { return s.order[i].Code < s.order[j].Code })
	log.Info("document store loaded", "documents", len(s.docs), "dir", dir)
	return s, nil
}

// Get looks up a document by code, tolerant of spacing, punctuation
// and width differences.
func (s *Store) Get(code string) (*Document, error) {
	d, ok := s.docs[NormalizeCode(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return d, nil
}

// All returns every document ordered by code.
func (s *Store) All() []*Document {
	return s.order
}

// Len returns the number of loaded documents.
func (s *Store) Len() int { return len(s.docs) }

// WarmSections pre-computes section indexes with a bounded worker
// pool so the first requests don't pay the parse cost.
func (s *Store) WarmSections(workers int) {
	if workers <= 0 {
		workers = 1
	}
	queue := make(chan *Document)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range queue {
				d.Sections()
			}
		}()
	}
	for _, d := range s.order {
		queue <- d
	}
	close(queue)
	wg.Wait()
}

func (s *Store) add(d *Document) {
	key := NormalizeCode(d.Code)
	if key == "" {
		return
	}
	if _, exists := s.docs[key]; !exists {
		s.order = append(s.order, d)
	} else {
		for i, old := range s.order {
			if NormalizeCode(old.Code) == key {
				s.order[i] = d
				break
			}
		}
	}
	s.docs[key] = d
}

// collection mirrors the exported data files:
// {"documents":[{"id","title","category","content":{"full":...}}]}.
// Content may also be a bare string.
type collection struct {
	Documents []struct {
		ID       string     `json:"id"`
		Title    string     `json:"title"`
		Category string     `json:"category"`
		Content  docContent `json:"content"`
	} `json:"documents"`
}

type docContent struct {
	Full string
}

func (c *docContent) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		c.Full = s
		return nil
	}
	var obj struct {
		Full string `json:"full"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	c.Full = obj.Full
	return nil
}

func (s *Store) loadCollection(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var col collection
	if err := json.Unmarshal(data, &col); err != nil {
		return fmt.Errorf("parse collection: %w", err)
	}
	for _, doc := range col.Documents {
		if doc.ID == "" {
			continue
		}
		s.add(&Document{
			Code:     doc.ID,
			Title:    doc.Title,
			Category: doc.Category,
			Content:  doc.Content.Full,
		})
	}
	return nil
}

func (s *Store) loadFile(path, name string) error {
	loader, err := forFile(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	title, text, err := loader.Load(f, name)
	if err != nil {
		return err
	}

	code := strings.TrimSuffix(name, filepath.Ext(name))
	if title == "" {
		title = code
	}
	s.add(&Document{Code: code, Title: title, Content: text})
	return nil
}
