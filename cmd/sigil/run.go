package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"sigil-hq/sigil/pkg/cli"
	"sigil-hq/sigil/pkg/config"
	langErrors "sigil-hq/sigil/pkg/lang/errors"
	"sigil-hq/sigil/pkg/lang/expr"
	"sigil-hq/sigil/pkg/lang/fact"
	"sigil-hq/sigil/pkg/packs"
	"sigil-hq/sigil/pkg/store"
	"sigil-hq/sigil/pkg/telemetry/logging"
	"sigil-hq/sigil/pkg/telemetry/metrics"
	"sigil-hq/sigil/pkg/trace"
)

var runFlags struct {
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the sigil daemon",
	Long: `Start the sigil daemon with the specified configuration.

The daemon loads the configured fact packs, watches them for changes,
and sweeps every fact through the evaluator after each (re)load. Sweep
outcomes feed the Prometheus metrics endpoint and, when tracing is
enabled, the trace store. Old traces are pruned on the configured
schedule.

Examples:
  # Start with default config
  sigil run

  # Start with custom config
  sigil run --config /etc/sigil/config.yaml

  # Validate config without starting
  sigil run --dry-run`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging); err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Sigil v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fact store
	factStore, err := store.Open(cfg.Store)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer factStore.Close()
	fmt.Println("✓ Fact store opened")

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Telemetry.Metrics, nil)
	}

	// Trace store and retention
	var recorder *trace.Recorder
	if cfg.Trace.Enabled {
		traceStore, err := trace.OpenStore(cfg.Trace.Path)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		defer traceStore.Close()
		recorder = trace.NewRecorder(traceStore)

		scheduler := trace.NewScheduler(trace.NewPruner(traceStore, cfg.Trace))
		if err := scheduler.Start(ctx); err != nil {
			return cli.NewCommandError("run", err)
		}
		defer scheduler.Stop()
		fmt.Println("✓ Trace store initialized")
	}

	// Packs
	registry := packs.NewRegistry(cfg.Packs.Dir)
	if _, err := registry.Reload(); err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Printf("✓ Packs loaded (%d packs)\n", len(registry.Packs()))

	sweep := func() {
		sweepPacks(ctx, registry, factStore, collector, recorder)
	}
	sweep()

	// Pack watcher
	if cfg.Packs.Watch {
		watcher, err := packs.NewWatcher(cfg.Packs.Dir, cfg.Packs.DebounceInterval.Std())
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		go func() {
			err := watcher.Watch(ctx, func() error {
				if _, err := registry.Reload(); err != nil {
					return err
				}
				sweep()
				return nil
			})
			if err != nil {
				slog.Error("pack watcher exited", "error", err)
			}
		}()
		defer watcher.Stop()
		fmt.Println("✓ Pack watcher started")
	}

	// Metrics endpoint
	var metricsSrv *http.Server
	if collector != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, "ok")
		})

		metricsSrv = &http.Server{
			Addr:    cfg.Telemetry.Metrics.ListenAddress,
			Handler: mux,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server failed", "error", err)
			}
		}()
		fmt.Printf("✓ Metrics endpoint: http://%s/metrics\n", cfg.Telemetry.Metrics.ListenAddress)
	}

	fmt.Println("\nPress Ctrl+C to stop")

	sig := <-cli.WaitForShutdown()
	fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
	cancel()

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", "error", err)
		}
	}

	fmt.Println("✓ Stopped")
	return nil
}

// sweepPacks evaluates every loaded fact in isolation, feeding the
// outcomes to metrics and, when enabled, the trace store. The sweep is
// what surfaces bad facts that linted clean but fail against the live
// store.
func sweepPacks(ctx context.Context, registry *packs.Registry, factStore *store.Store, collector *metrics.Collector, recorder *trace.Recorder) {
	raws := registry.Facts()
	if len(raws) == 0 {
		return
	}

	evalCtx := expr.NewBaseContext(factStore.HasFactFunc(ctx))
	if collector != nil {
		observeRegexOutcomes(evalCtx, collector)
	}
	results := fact.EvaluateTraced(raws, evalCtx)

	active := 0
	failed := 0
	for _, res := range results {
		outcome := metrics.OutcomeInactive
		switch {
		case res.Err != nil:
			outcome = metrics.OutcomeError
			failed++
			if collector != nil && langErrors.IsType(res.Err, langErrors.TypeSanitization) {
				collector.RecordSanitizerRejection()
			}
			slog.Warn("fact failed during sweep", "fact", res.Raw, "error", res.Err)
		case res.Active:
			outcome = metrics.OutcomeActive
			active++
		}
		if collector != nil {
			collector.RecordEvaluation(outcome, res.Duration)
		}
	}

	if collector != nil {
		stats := expr.DefaultStats()
		collector.ObserveCacheStats(stats.Hits, stats.Misses)
	}

	if recorder != nil {
		batchID, err := recorder.RecordBatch(ctx, results)
		if err != nil {
			slog.Error("failed to record sweep batch", "error", err)
		} else {
			slog.Debug("sweep batch recorded", "batch_id", batchID)
		}
	}

	slog.Info("pack sweep completed",
		"facts", len(results),
		"active", active,
		"failed", failed,
	)
}

// observeRegexOutcomes wraps the regex builtins in a context so that
// every pattern reaching the structural validator is counted, whether
// it was accepted or rejected. Builtin failures that never validated a
// pattern, such as wrong argument types, are not counted.
func observeRegexOutcomes(evalCtx expr.Context, collector *metrics.Collector) {
	for _, name := range []string{"match", "search", "replace"} {
		fn, ok := evalCtx[name].(expr.Func)
		if !ok {
			continue
		}
		inner := fn
		evalCtx[name] = expr.Func(func(args ...any) (any, error) {
			value, err := inner(args...)
			switch {
			case err == nil:
				collector.RecordRegexValidation(true)
			case langErrors.IsType(err, langErrors.TypeRegexSafety):
				collector.RecordRegexValidation(false)
			}
			return value, err
		})
	}
}
