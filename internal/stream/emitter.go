// Package stream emits a chunk plan as newline-delimited JSON records,
// one chunk at a time, with cancellation checked between records.
package stream

import (
	"context"
	"encoding/json"
	"io"

	"github.com/kcsc-gpt/standards-api/internal/chunker"
)

// State tracks emitter progress. COMPLETED and ERROR are terminal.
type State int

const (
	StateInit State = iota
	StateStreaming
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateStreaming:
		return "streaming"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Emitter writes one plan to a writer as discrete NDJSON records. It
// is single-use: Run may be called once.
type Emitter struct {
	enc   *json.Encoder
	flush func()
	state State
}

// New creates an emitter over w. flush, if non-nil, is called after
// every record so a chunk reaches the consumer before the next is
// produced.
func New(w io.Writer, flush func()) *Emitter {
	return &Emitter{enc: json.NewEncoder(w), flush: flush}
}

// State returns the emitter's current state.
func (e *Emitter) State() State { return e.state }

// record is one wire record. Exactly one of the three shapes is set:
// a chunk, the completion marker, or a terminal error.
type record struct {
	ChunkIndex  *int         `json:"chunk_index,omitempty"`
	Relevance   chunker.Tier `json:"relevance,omitempty"`
	Content     *string      `json:"content,omitempty"`
	Tokens      *int         `json:"tokens,omitempty"`
	HasMore     *bool        `json:"has_more,omitempty"`
	Completed   bool         `json:"completed,omitempty"`
	TotalChunks *int         `json:"total_chunks,omitempty"`
	Kind        string       `json:"kind,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// Run emits every chunk of the plan in order, then a completion
// marker. Cancellation is honored between chunks, never mid-record, so
// no torn records reach the consumer. A write fault emits one terminal
// error record and stops; later chunks are never skipped-and-continued
// since that would corrupt the index sequence.
func (e *Emitter) Run(ctx context.Context, plan *chunker.Plan) error {
	for i := range plan.Chunks {
		select {
		case <-ctx.Done():
			e.state = StateError
			return ctx.Err()
		default:
		}

		e.state = StateStreaming
		c := &plan.Chunks[i]
		rec := record{
			ChunkIndex: &c.Index,
			Relevance:  c.Relevance,
			Content:    &c.Content,
			Tokens:     &c.Tokens,
			HasMore:    &c.HasMore,
		}
		if err := e.emit(rec); err != nil {
			return e.fail(err)
		}
	}

	total := plan.TotalChunks()
	if err := e.emit(record{Completed: true, TotalChunks: &total}); err != nil {
		return e.fail(err)
	}
	e.state = StateCompleted
	return nil
}

func (e *Emitter) emit(rec record) error {
	if err := e.enc.Encode(rec); err != nil {
		return err
	}
	if e.flush != nil {
		e.flush()
	}
	return nil
}

// fail writes the terminal error record on a best-effort basis; the
// transport may already be gone.
func (e *Emitter) fail(err error) error {
	e.state = StateError
	_ = e.enc.Encode(record{Kind: "internal", Error: err.Error()})
	if e.flush != nil {
		e.flush()
	}
	return err
}
