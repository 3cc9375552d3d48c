package scrape

import (
	"context"
	"slices"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/papapumpkin/degreeplan/internal/catalog"
	"github.com/papapumpkin/degreeplan/internal/requirement"
	"github.com/papapumpkin/degreeplan/internal/telemetry"
)

// DefaultConcurrency bounds concurrent fetches when no option sets it.
const DefaultConcurrency = 8

// ClassifiedEntry is a fetched page with its entry type.
type ClassifiedEntry struct {
	URL  string
	Type catalog.EntryType
	Doc  *goquery.Document
}

// CompiledEntry is a catalog entry compiled into a major.
type CompiledEntry struct {
	URL   string
	Type  catalog.EntryType
	Major requirement.Major
}

// Summary partitions a run's entries by outcome. Both slices keep input
// order.
type Summary struct {
	RunID string
	Ok    []Pipeline[CompiledEntry]
	Err   []Pipeline[CompiledEntry]
}

// Majors returns the compiled majors of every successful entry.
func (s Summary) Majors() []requirement.Major {
	out := make([]requirement.Major, 0, len(s.Ok))
	for _, p := range s.Ok {
		out = append(out, p.Result.Ok.Major)
	}
	return out
}

// Runner scrapes catalog entries.
type Runner struct {
	fetcher     Fetcher
	allowed     []catalog.EntryType
	concurrency int
	logger      *zap.Logger
	emitter     *telemetry.Emitter
	newID       func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithConcurrency bounds how many entries are processed at once. Values
// below one are ignored.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithEntryTypes sets the entry types that pass the filter stage.
func WithEntryTypes(types ...catalog.EntryType) Option {
	return func(r *Runner) { r.allowed = types }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTelemetry records run and entry events to e.
func WithTelemetry(e *telemetry.Emitter) Option {
	return func(r *Runner) { r.emitter = e }
}

// NewRunner returns a runner that fetches pages with f. By default only
// majors pass the filter stage.
func NewRunner(f Fetcher, opts ...Option) *Runner {
	r := &Runner{
		fetcher:     f,
		allowed:     []catalog.EntryType{catalog.EntryMajor},
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
		newID:       uuid.NewString,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run pushes every url through the pipeline and waits for all of them. An
// entry's failure never affects its siblings.
func (r *Runner) Run(ctx context.Context, urls []string) Summary {
	runID := r.newID()
	log := r.logger.With(zap.String("run_id", runID))
	start := time.Now()
	log.Info("scrape started", zap.Int("entries", len(urls)), zap.Int("concurrency", r.concurrency))
	r.record(telemetry.KindScrapeStart, runID, "", map[string]any{"entries": len(urls)})

	results := make([]Pipeline[CompiledEntry], len(urls))
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			results[i] = r.entry(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	s := Summary{RunID: runID}
	for _, p := range results {
		ok := !p.Result.IsErr()
		if ok {
			s.Ok = append(s.Ok, p)
		} else {
			s.Err = append(s.Err, p)
		}
		fields := []zap.Field{zap.String("entry", p.ID), zap.Any("trace", p.Trace)}
		if ok {
			log.Debug("entry compiled", append(fields, zap.Int("groups", len(p.Result.Ok.Major.Groups)))...)
		} else {
			log.Warn("entry failed", append(fields, zap.Errors("errors", p.Result.Err))...)
		}
		r.record(telemetry.KindEntryDone, runID, p.ID, map[string]any{
			"ok":    ok,
			"trace": p.Trace,
		})
	}

	log.Info("scrape finished",
		zap.Int("ok", len(s.Ok)),
		zap.Int("failed", len(s.Err)),
		zap.Duration("elapsed", time.Since(start)),
	)
	r.record(telemetry.KindScrapeDone, runID, "", map[string]any{"ok": len(s.Ok), "failed": len(s.Err)})
	return s
}

func (r *Runner) entry(ctx context.Context, url string) Pipeline[CompiledEntry] {
	classified := Then(ctx, Start(url, url), StageClassify, r.classify)
	filtered := Then(ctx, classified, StageFilter, r.filter)
	return Then(ctx, filtered, StageTokenize, tokenize)
}

func (r *Runner) classify(ctx context.Context, url string) (ClassifiedEntry, error) {
	doc, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return ClassifiedEntry{}, err
	}
	return ClassifiedEntry{URL: url, Type: catalog.ClassifyPage(doc), Doc: doc}, nil
}

func (r *Runner) filter(_ context.Context, e ClassifiedEntry) (ClassifiedEntry, error) {
	if !slices.Contains(r.allowed, e.Type) {
		return ClassifiedEntry{}, &FilterError{Actual: e.Type, Allowed: r.allowed}
	}
	return e, nil
}

func tokenize(_ context.Context, e ClassifiedEntry) (CompiledEntry, error) {
	m, err := catalog.CompileMajor(e.Doc)
	if err != nil {
		return CompiledEntry{}, err
	}
	return CompiledEntry{URL: e.URL, Type: e.Type, Major: m}, nil
}

func (r *Runner) record(kind, runID, entryID string, data map[string]any) {
	if err := r.emitter.Record(kind, runID, entryID, data); err != nil {
		r.logger.Warn("telemetry write failed", zap.String("kind", kind), zap.Error(err))
	}
}
