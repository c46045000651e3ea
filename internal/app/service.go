// Package service runs the ranking pipeline end to end: discover result
// files, parse them in parallel, score every finish, aggregate per-player
// totals, and publish the snapshot.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/clbarnes/ddrank/internal/adapters/discovery"
	filequeue "github.com/clbarnes/ddrank/internal/adapters/mq/queue"
	workerpool "github.com/clbarnes/ddrank/internal/adapters/mq/worker"
	"github.com/clbarnes/ddrank/internal/adapters/repository"
	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/parse"
	"github.com/clbarnes/ddrank/internal/domain/rank"
	"github.com/clbarnes/ddrank/internal/domain/scoring"
	"github.com/clbarnes/ddrank/pkg/logger"
	"github.com/clbarnes/ddrank/pkg/metrics"
)

// Snapshot is the product of one run: the ranking in rank order plus the
// run report. The same corpus always yields a bitwise identical ranking.
type Snapshot struct {
	Entries []model.RankingEntry
	Report  *Report
}

// Service wires the pipeline components together for a single run.
type Service struct {
	// Core components
	source discovery.Source
	store  repository.Store
	curve  scoring.Curve

	// Configuration
	root        string
	levels      []model.Level
	from        time.Time
	until       time.Time
	weights     map[model.Level]float64
	bestK       int
	workerCount int
	queueSize   int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource replaces the filesystem walker, mainly for tests.
func WithSource(src discovery.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithStore sets the repository receiving the published snapshot.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCurve sets the scoring curve applied to every finish.
func WithCurve(curve scoring.Curve) Option {
	return func(s *Service) {
		if curve != nil {
			s.curve = curve
		}
	}
}

// WithLevels restricts the run to the given tournament levels.
func WithLevels(levels ...model.Level) Option {
	return func(s *Service) {
		if len(levels) > 0 {
			s.levels = levels
		}
	}
}

// WithWindow restricts the run to tournaments dated within [from, until].
// A zero bound is open on that side.
func WithWindow(from, until time.Time) Option {
	return func(s *Service) {
		s.from = from
		s.until = until
	}
}

// WithLevelWeights overrides base points per level. Levels missing from the
// map keep their defaults.
func WithLevelWeights(weights map[model.Level]float64) Option {
	return func(s *Service) {
		for lvl, w := range weights {
			s.weights[lvl] = w
		}
	}
}

// WithBestK counts only each player's k highest awards. k <= 0 sums all.
func WithBestK(k int) Option {
	return func(s *Service) {
		s.bestK = k
	}
}

// WithWorkerCount sets the number of parse workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the file job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over the corpus root with default configuration.
func New(root string, opts ...Option) *Service {
	s := &Service{
		root:        root,
		levels:      model.Levels(),
		weights:     scoring.DefaultLevelWeights(),
		bestK:       rank.DefaultBestK,
		workerCount: runtime.NumCPU(),
		queueSize:   4096,
		curve:       scoring.NewDecayCurve(),
		store:       repository.NewSnapshotStore(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.source == nil {
		s.source = discovery.NewFSWalker(s.root,
			discovery.WithLevels(s.levels...),
			discovery.WithWindow(s.from, s.until),
		)
	}

	return s
}

// Store exposes the repository holding the published snapshot.
func (s *Service) Store() repository.Store {
	return s.store
}

// Run executes one complete ranking run. The returned snapshot is also
// published to the service's store.
func (s *Service) Run(ctx context.Context) (*Snapshot, error) {
	report := newReport()
	s.logger.Info(ctx, "starting ranking run",
		logger.String("runID", report.RunID),
		logger.String("root", s.root),
		logger.Int("workers", s.workerCount),
	)

	files, diags, err := s.source.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovering result files: %w", err)
	}
	report.FilesDiscovered = len(files)
	for _, d := range diags {
		report.Skipped = append(report.Skipped, FileDiagnostic{Path: d.Path, Err: d.Err})
	}

	outcomes, err := s.parseAll(ctx, files)
	if err != nil {
		return nil, err
	}

	awards := s.collect(ctx, report, outcomes)
	entries := rank.NewAggregator(rank.WithBestK(s.bestK)).Aggregate(awards)

	s.store.Publish(ctx, entries)

	report.PlayersRanked = len(entries)
	report.Duration = time.Since(report.Started)
	sortReport(report)
	metrics.RecordPointAwards(len(awards))
	metrics.RecordRunDuration(float64(report.Duration.Milliseconds()))

	s.logger.Info(ctx, "ranking run complete",
		logger.String("runID", report.RunID),
		logger.Int("filesParsed", report.FilesParsed),
		logger.Int("filesRejected", report.FilesRejected),
		logger.Int("playersRanked", report.PlayersRanked),
		logger.String("duration", report.Duration.String()),
	)

	return &Snapshot{Entries: entries, Report: report}, nil
}

// parseAll fans the discovered files out over the worker pool and waits for
// every outcome.
func (s *Service) parseAll(ctx context.Context, files []discovery.Result) ([]workerpool.Outcome, error) {
	// The queue must hold every discovered file; a full queue drops jobs,
	// and a dropped file would silently change the ranking.
	capacity := s.queueSize
	if len(files) > capacity {
		capacity = len(files)
	}
	q := filequeue.NewInMemoryQueue(filequeue.WithCapacity(capacity))
	sink := &outcomeSink{}
	pool := workerpool.NewPool(s.workerCount, q, sink)
	pool.Start(ctx)

	for _, f := range files {
		if !q.Enqueue(ctx, f) {
			break
		}
	}
	_ = q.Close()
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sink.outcomes, nil
}

// collect folds parsed outcomes into point awards and files every defect
// into the report.
func (s *Service) collect(ctx context.Context, report *Report, outcomes []workerpool.Outcome) []model.PointAward {
	var awards []model.PointAward
	for _, o := range outcomes {
		if len(o.Malformed) > 0 {
			report.MalformedLines += len(o.Malformed)
			report.Malformed = append(report.Malformed, LineDiagnostic{Path: o.Path, Defects: o.Malformed})
		}

		var tieErr *parse.TieConsistencyError
		switch {
		case o.Err == nil:
			report.FilesParsed++
			awards = append(awards, scoring.Assign(o.Tournament, s.weights[o.Tournament.Level], s.curve)...)
		case errors.As(o.Err, &tieErr):
			report.FilesRejected++
			report.Rejected = append(report.Rejected, FileDiagnostic{Path: o.Path, Err: o.Err})
			s.logger.Warn(ctx, "tournament rejected",
				logger.String("path", o.Path), logger.Error(o.Err))
		default:
			report.FilesUnreadable++
			report.Unreadable = append(report.Unreadable, FileDiagnostic{Path: o.Path, Err: o.Err})
			s.logger.Warn(ctx, "result file unreadable",
				logger.String("path", o.Path), logger.Error(o.Err))
		}
	}
	return awards
}

func sortReport(r *Report) {
	byPath := func(ds []FileDiagnostic) {
		sort.Slice(ds, func(i, j int) bool { return ds[i].Path < ds[j].Path })
	}
	byPath(r.Unreadable)
	byPath(r.Rejected)
	byPath(r.Skipped)
	sort.Slice(r.Malformed, func(i, j int) bool { return r.Malformed[i].Path < r.Malformed[j].Path })
}

// outcomeSink accumulates worker outcomes. Workers call Collect
// concurrently; reads happen only after the pool has drained.
type outcomeSink struct {
	mu       sync.Mutex
	outcomes []workerpool.Outcome
}

func (s *outcomeSink) Collect(_ context.Context, o workerpool.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outcomes = append(s.outcomes, o)
}
