// Command ddrank reads a directory of directories of TSV files reporting
// tournament finishing places, and prints a TSV with columns rank, rating,
// player ID. Logs and diagnostics go to stderr; stdout carries only the
// ranking table.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/clbarnes/ddrank/internal/adapters/repository"
	service "github.com/clbarnes/ddrank/internal/app"
	"github.com/clbarnes/ddrank/internal/config"
	"github.com/clbarnes/ddrank/internal/domain/model"
	"github.com/clbarnes/ddrank/internal/domain/scoring"
	"github.com/clbarnes/ddrank/pkg/logger"
	"github.com/clbarnes/ddrank/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsReadHeaderTimeout = 5 * time.Second

func main() {
	var (
		dir        = flag.String("dir", "", "directory containing directories of TSV results (overrides config root)")
		from       = flag.String("from", "", "only count tournaments on or after this (partial) ISO-8601 datetime")
		to         = flag.String("to", "", "only count tournaments on or before this (partial) ISO-8601 datetime")
		configPath = flag.String("config", "", "path to a YAML config file")
		top        = flag.Int("top", 0, "print only the first N ranking rows")
		player     = flag.Uint64("player", 0, "print only the row for this player ID")
		workers    = flag.Int("workers", 0, "number of parse workers (overrides config)")
		verbose    = flag.Bool("v", false, "enable debug logging")

		noSmall        = flag.Bool("no-small", false, "exclude small tournaments")
		noMedium       = flag.Bool("no-medium", false, "exclude medium tournaments")
		noMajor        = flag.Bool("no-major", false, "exclude major tournaments")
		noChampionship = flag.Bool("no-championship", false, "exclude championship tournaments")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The loader reads the config file path from the environment; the flag
	// is a convenience on top of that.
	if *configPath != "" {
		if err := os.Setenv("DDRANK_CONFIG", *configPath); err != nil {
			fail(ctx, log, "setting config path", err)
		}
	}
	cfg, err := config.Load(ctx)
	if err != nil {
		fail(ctx, log, "loading config", err)
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	root := cfg.Root
	if *dir != "" {
		root = *dir
	}

	levels := enabledLevels(*noSmall, *noMedium, *noMajor, *noChampionship)
	if len(levels) == 0 {
		log.Warn(ctx, "every tournament level is excluded; nothing to rank")
		return
	}

	win, err := resolveWindow(cfg, *from, *to)
	if err != nil {
		fail(ctx, log, "parsing date bounds", err)
	}

	weights, err := cfg.Weights()
	if err != nil {
		fail(ctx, log, "resolving level weights", err)
	}

	workerCount := cfg.WorkerCount
	if *workers > 0 {
		workerCount = *workers
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, log, cfg.MetricsAddr)
	}

	svc := service.New(root,
		service.WithLogger(log),
		service.WithLevels(levels...),
		service.WithWindow(win.from, win.until),
		service.WithLevelWeights(weights),
		service.WithCurve(scoring.NewDecayCurve(scoring.WithFinishDecay(cfg.FinishDecay))),
		service.WithBestK(cfg.BestK),
		service.WithWorkerCount(workerCount),
		service.WithQueueSize(cfg.QueueSize),
	)

	snap, err := svc.Run(ctx)
	if err != nil {
		fail(ctx, log, "ranking run failed", err)
	}

	if err := printRanking(ctx, svc.Store(), snap, *top, *player); err != nil {
		fail(ctx, log, "writing ranking", err)
	}
}

func fail(ctx context.Context, log logger.Logger, msg string, err error) {
	log.Error(ctx, msg, logger.Error(err))
	os.Exit(1)
}

// enabledLevels maps the exclusion flags onto the level list.
func enabledLevels(noSmall, noMedium, noMajor, noChampionship bool) []model.Level {
	excluded := map[model.Level]bool{
		model.LevelSmall:        noSmall,
		model.LevelMedium:       noMedium,
		model.LevelMajor:        noMajor,
		model.LevelChampionship: noChampionship,
	}

	var levels []model.Level
	for _, lvl := range model.Levels() {
		if !excluded[lvl] {
			levels = append(levels, lvl)
		}
	}
	return levels
}

type window struct {
	from  time.Time
	until time.Time
}

// resolveWindow combines the explicit -from/-to bounds with the configured
// rolling window. Explicit bounds win.
func resolveWindow(cfg *config.Config, fromStr, toStr string) (window, error) {
	var w window
	if cfg.WindowDays > 0 {
		w.from = time.Now().UTC().AddDate(0, 0, -cfg.WindowDays)
	}

	if fromStr != "" {
		from, err := parseBound(fromStr, false)
		if err != nil {
			return window{}, err
		}
		w.from = from
	}
	if toStr != "" {
		until, err := parseBound(toStr, true)
		if err != nil {
			return window{}, err
		}
		w.until = until
	}
	return w, nil
}

// printRanking writes the requested slice of the snapshot to stdout as
// rank, score, player ID rows.
func printRanking(ctx context.Context, store repository.Store, snap *service.Snapshot, top int, player uint64) error {
	entries := snap.Entries
	switch {
	case player != 0:
		entry, err := store.Rank(ctx, model.PlayerID(player))
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("player %d is not ranked", player)
		}
		if err != nil {
			return err
		}
		entries = []model.RankingEntry{entry}
	case top > 0:
		var err error
		entries, err = store.TopN(ctx, top)
		if err != nil {
			return err
		}
	}

	for _, e := range entries {
		score := strconv.FormatFloat(e.Score, 'g', -1, 64)
		if _, err := fmt.Printf("%d\t%s\t%d\n", e.Rank, score, e.Player); err != nil {
			return err
		}
	}
	return nil
}

// serveMetrics exposes the Prometheus registry for the duration of the run.
func serveMetrics(ctx context.Context, log logger.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}
	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Info(ctx, "serving metrics", logger.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn(ctx, "metrics listener stopped", logger.Error(err))
	}
}
