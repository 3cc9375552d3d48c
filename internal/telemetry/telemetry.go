// Package telemetry provides a JSONL event stream for recording catalog
// scrapes and plan evaluations. Each scrape run, scraped entry, and
// evaluation is written as one structured JSON event, so runs can be
// audited and compared after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindScrapeStart = "scrape_start"
	KindEntryDone   = "entry_done"
	KindScrapeDone  = "scrape_done"
	KindEvaluation  = "evaluation"
)

// Event represents a single telemetry record. Each event carries a timestamp,
// a kind tag, and optional context identifiers (run, entry) along with
// arbitrary structured data.
type Event struct {
	Timestamp time.Time      `json:"ts"`
	Kind      string         `json:"kind"`
	RunID     string         `json:"run_id,omitempty"`
	EntryID   string         `json:"entry_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
	now  func() time.Time
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
		now:  time.Now,
	}, nil
}

// Emit writes a single event to the JSONL file. A zero timestamp is set to
// the current time. Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if evt.Timestamp.IsZero() {
		evt.Timestamp = e.now().UTC()
	}
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record is shorthand for emitting an event of kind for a run and entry.
func (e *Emitter) Record(kind, runID, entryID string, data map[string]any) error {
	return e.Emit(Event{Kind: kind, RunID: runID, EntryID: entryID, Data: data})
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
