// Package scrape drives catalog entries through a staged pipeline: each URL
// is fetched and classified, filtered by entry type, and compiled into a
// major. Entries run concurrently and fail independently.
package scrape

import (
	"context"
	"fmt"
	"slices"

	"github.com/papapumpkin/degreeplan/internal/catalog"
)

// Stage labels a pipeline step in an entry's trace.
type Stage string

// Pipeline stages, in the order an entry passes through them.
const (
	StageClassify Stage = "CLASSIFY"
	StageFilter   Stage = "FILTER"
	StageTokenize Stage = "TOKENIZE"
)

// Result holds either a value or the errors that stopped an entry.
type Result[T any] struct {
	Ok  T
	Err []error
}

// IsErr reports whether the result carries errors.
func (r Result[T]) IsErr() bool {
	return len(r.Err) > 0
}

// Pipeline is one entry's progress: its id, the stages it entered, and the
// latest result.
type Pipeline[T any] struct {
	ID     string
	Trace  []Stage
	Result Result[T]
}

// Start begins a pipeline for id carrying v.
func Start[T any](id string, v T) Pipeline[T] {
	return Pipeline[T]{ID: id, Result: Result[T]{Ok: v}}
}

// Then runs fn as stage when p has not failed yet. The stage is appended to
// the trace before fn runs, so a failing stage is the last one traced. A
// returned error or a panic in fn becomes the result's error.
func Then[In, Out any](ctx context.Context, p Pipeline[In], stage Stage, fn func(context.Context, In) (Out, error)) (out Pipeline[Out]) {
	out = Pipeline[Out]{ID: p.ID, Trace: p.Trace}
	if p.Result.IsErr() {
		out.Result.Err = p.Result.Err
		return out
	}
	out.Trace = append(slices.Clip(p.Trace), stage)
	defer func() {
		if r := recover(); r != nil {
			out.Result = Result[Out]{Err: []error{fmt.Errorf("scrape: %s panicked: %v", stage, r)}}
		}
	}()
	v, err := fn(ctx, p.Result.Ok)
	if err != nil {
		out.Result.Err = []error{err}
		return out
	}
	out.Result.Ok = v
	return out
}

// FilterError reports an entry whose type is not among the allowed ones.
type FilterError struct {
	Actual  catalog.EntryType
	Allowed []catalog.EntryType
}

// Error names the rejected entry type and the allowed ones.
func (e *FilterError) Error() string {
	return fmt.Sprintf("scrape: entry type %q not in %v", e.Actual, e.Allowed)
}
