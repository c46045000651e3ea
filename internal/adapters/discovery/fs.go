package discovery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/clbarnes/ddrank/internal/adapters/dedupe"
	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/pkg/logger"
	"github.com/clbarnes/ddrank/pkg/metrics"
)

// resultFile matches filenames that start with an ISO-8601 date and end in
// .tsv, capturing the date.
var resultFile = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}).*\.tsv$`)

const dateLayout = "2006-01-02"

// Option applies a configuration option to the FSWalker.
type Option func(*FSWalker)

// WithLevels restricts discovery to the given levels.
func WithLevels(levels ...model.Level) Option {
	return func(w *FSWalker) {
		w.levels = make(map[model.Level]bool, len(levels))
		for _, lvl := range levels {
			w.levels[lvl] = true
		}
	}
}

// WithWindow restricts discovery to files dated within [from, until].
// A zero bound is open on that side.
func WithWindow(from, until time.Time) Option {
	return func(w *FSWalker) {
		w.from = from
		w.until = until
	}
}

// WithTracker sets the seen-path tracker guarding against symlink cycles.
func WithTracker(tracker dedupe.Tracker) Option {
	return func(w *FSWalker) {
		if tracker != nil {
			w.tracker = tracker
		}
	}
}

// FSWalker implements Source over a directory tree, following symlinks.
type FSWalker struct {
	root    string
	levels  map[model.Level]bool
	from    time.Time
	until   time.Time
	tracker dedupe.Tracker
	logger  logger.Logger
}

// NewFSWalker creates a walker over root with configuration options.
// All levels are enabled by default.
func NewFSWalker(root string, opts ...Option) *FSWalker {
	w := &FSWalker{
		root:    root,
		levels:  make(map[model.Level]bool, len(model.Levels())),
		tracker: dedupe.NewTracker(),
		logger:  logger.Get().Named("discovery"),
	}
	for _, lvl := range model.Levels() {
		w.levels[lvl] = true
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Discover walks the corpus. Unknown top-level directories and unreadable
// subtrees become diagnostics; only an unusable root is an error.
func (w *FSWalker) Discover(ctx context.Context) ([]Result, []Diagnostic, error) {
	topLevel, err := os.ReadDir(w.root)
	if err != nil {
		return nil, nil, fmt.Errorf("reading corpus root %s: %w", w.root, err)
	}

	var results []Result
	var diags []Diagnostic

	for _, entry := range topLevel {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		path := filepath.Join(w.root, entry.Name())
		info, err := os.Stat(path) // follows symlinks
		if err != nil {
			diags = append(diags, Diagnostic{Path: path, Err: err})
			continue
		}
		if !info.IsDir() {
			continue
		}

		level, err := model.ParseLevel(entry.Name())
		if err != nil {
			diags = append(diags, Diagnostic{
				Path: path,
				Err:  fmt.Errorf("%w: %s", ErrUnknownLevelDir, entry.Name()),
			})
			metrics.RecordUnknownLevelDir()
			continue
		}
		if !w.levels[level] {
			w.logger.Debug(ctx, "level disabled, skipping", logger.String("level", level.String()))
			continue
		}

		if err := w.walk(ctx, path, level, &results, &diags); err != nil {
			return nil, nil, err
		}
	}

	return results, diags, nil
}

// walk recurses beneath one level directory. It returns an error only for
// cancellation; filesystem defects become diagnostics.
func (w *FSWalker) walk(ctx context.Context, dir string, level model.Level, results *[]Result, diags *[]Diagnostic) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Guard against symlinked directory cycles.
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		if w.tracker.SeenAndRecord(ctx, "dir:"+resolved) {
			w.logger.Debug(ctx, "directory already visited", logger.String("dir", dir))
			return nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		*diags = append(*diags, Diagnostic{Path: dir, Err: fmt.Errorf("%w: %w", ErrUnreadableDir, err)})
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path) // follows symlinks
		if err != nil {
			*diags = append(*diags, Diagnostic{Path: path, Err: err})
			continue
		}

		if info.IsDir() {
			if err := w.walk(ctx, path, level, results, diags); err != nil {
				return err
			}
			continue
		}

		m := resultFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		date, err := time.Parse(dateLayout, m[1])
		if err != nil {
			w.logger.Warn(ctx, "filename date is not a calendar date, skipping",
				logger.String("path", path), logger.Error(err))
			continue
		}

		if !w.inWindow(date) {
			continue
		}

		if resolved, err := filepath.EvalSymlinks(path); err == nil {
			if w.tracker.SeenAndRecord(ctx, resolved) {
				w.logger.Debug(ctx, "file already discovered via another link",
					logger.String("path", path))
				continue
			}
		}

		open := func() (io.ReadCloser, error) { return os.Open(path) }
		*results = append(*results, Result{Path: path, Level: level, Date: date, Open: open})
		metrics.RecordFileDiscovered()
	}

	return nil
}

func (w *FSWalker) inWindow(date time.Time) bool {
	if !w.from.IsZero() && date.Before(w.from) {
		return false
	}
	if !w.until.IsZero() && date.After(w.until) {
		return false
	}
	return true
}
