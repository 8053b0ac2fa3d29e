// Package topic serves the precomputed topic-summary registry. The
// registry is produced offline; this package only looks records up.
package topic

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/kcsc-gpt/standards-api/internal/store"
)

// ErrNotFound indicates no record exists for a (code, topic) pair.
var ErrNotFound = errors.New("topic not found")

// Record is one precomputed topic summary.
type Record struct {
	Code      string   `json:"code"`
	Topic     string   `json:"topic"`
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
	Formulas  []string `json:"formulas"`
	Tokens    int      `json:"tokens"`
}

// Registry is a read-only (code, topic) → Record lookup, keyed with
// the same normalization as document codes.
type Registry struct {
	records map[string]Record
}

// New builds a registry from records directly. Used for seeding in
// tests.
func New(records ...Record) *Registry {
	reg := &Registry{records: make(map[string]Record)}
	for _, r := range records {
		reg.records[key(r.Code, r.Topic)] = r
	}
	return reg
}

// Load reads topics.json under dir. A missing file is not an error:
// the registry is optional and simply empty.
func Load(dir string, log *slog.Logger) (*Registry, error) {
	reg := &Registry{records: make(map[string]Record)}

	data, err := os.ReadFile(dir + "/topics.json")
	if errors.Is(err, os.ErrNotExist) {
		log.Info("no topic registry found", "dir", dir)
		return reg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read topic registry: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse topic registry: %w", err)
	}
	for _, r := range records {
		reg.records[key(r.Code, r.Topic)] = r
	}

	log.Info("topic registry loaded", "topics", len(reg.records))
	return reg, nil
}

// Lookup returns the record for a code and topic, tolerant of the
// same spelling variations as document codes.
func (r *Registry) Lookup(code, topic string) (Record, error) {
	rec, ok := r.records[key(code, topic)]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s/%s", ErrNotFound, code, topic)
	}
	return rec, nil
}

// Len returns the number of registered topics.
func (r *Registry) Len() int { return len(r.records) }

func key(code, topic string) string {
	return store.NormalizeCode(code) + "/" + store.NormalizeCode(topic)
}
