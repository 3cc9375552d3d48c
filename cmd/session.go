package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/degreeplan/internal/config"
	"github.com/papapumpkin/degreeplan/internal/coursestore"
	"github.com/papapumpkin/degreeplan/internal/logging"
	"github.com/papapumpkin/degreeplan/internal/planfile"
	"github.com/papapumpkin/degreeplan/internal/schedule"
	"github.com/papapumpkin/degreeplan/internal/telemetry"
	"github.com/papapumpkin/degreeplan/internal/ui"
	"github.com/papapumpkin/degreeplan/internal/warning"
)

// session bundles what every subcommand needs: config, logger, printer and
// the optional telemetry stream.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	printer *ui.Printer
	emitter *telemetry.Emitter
	runID   string
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	s := &session{
		cfg:     cfg,
		log:     log,
		printer: ui.NewWriter(cmd.ErrOrStderr(), true),
		runID:   uuid.NewString(),
	}
	if cfg.Telemetry.Path != "" {
		em, err := telemetry.NewEmitter(cfg.Telemetry.Path)
		if err != nil {
			return nil, err
		}
		s.emitter = em
	}
	return s, nil
}

func (s *session) Close() {
	if err := s.emitter.Close(); err != nil {
		s.log.Warn("telemetry close failed", zap.Error(err))
	}
	_ = s.log.Sync()
}

// warningOptions maps the configured bands and modes onto a warning pass.
func (s *session) warningOptions() warning.Options {
	band := func(b config.Band) warning.Band { return warning.Band{Min: b.Min, Max: b.Max} }
	l := s.cfg.Load
	return warning.Options{
		Bands: warning.Bands{
			Fall:       band(l.Fall),
			Spring:     band(l.Spring),
			Summer1:    band(l.Summer1),
			Summer2:    band(l.Summer2),
			SummerFull: band(l.SummerFull),
			Coop:       band(l.Coop),
		},
		Fillers:  s.cfg.Fillers,
		Ordering: warning.Ordering(s.cfg.PrereqOrder),
		Logger:   s.log,
	}
}

// openStore opens the course store with its LRU cache in front.
func (s *session) openStore(ctx context.Context) (*coursestore.Store, *coursestore.Cached, error) {
	store, err := coursestore.Open(ctx, s.cfg.Catalog.DBPath)
	if err != nil {
		return nil, nil, err
	}
	cached, err := coursestore.NewCached(store, s.cfg.Catalog.CacheSize)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, cached, nil
}

// loadPlan reads a plan and, when hydrate is set, fills catalog data from
// the course store.
func (s *session) loadPlan(ctx context.Context, path string, hydrate bool) (*planfile.Plan, error) {
	plan, err := planfile.LoadPlan(path)
	if err != nil {
		return nil, err
	}
	if !hydrate {
		return plan, nil
	}
	store, lookup, err := s.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	sched := plan.Schedule()
	if err := schedule.Hydrate(ctx, &sched, lookup); err != nil {
		return nil, err
	}
	plan.Years = sched.Years
	if err := schedule.HydrateCourses(ctx, plan.Transfer, lookup); err != nil {
		return nil, err
	}
	s.log.Debug("plan hydrated", zap.String("plan", path), zap.Int("cached", lookup.Len()))
	return plan, nil
}

func (s *session) record(kind, entryID string, data map[string]any) {
	if err := s.emitter.Record(kind, s.runID, entryID, data); err != nil {
		s.log.Warn("telemetry write failed", zap.String("kind", kind), zap.Error(err))
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
