package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fluxorio/taskpool/pkg/observability/otel"
	"github.com/fluxorio/taskpool/pkg/observability/prometheus"
	"github.com/fluxorio/taskpool/pkg/profile"
	"github.com/fluxorio/taskpool/pkg/taskpool"
)

const (
	stepCompute = "COMPUTE_CHECKSUM"
	stepSubmit  = "SUBMIT"
)

func newRunCmd() *cobra.Command {
	var (
		cfgFile string
		workers int
		tasks   int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a synthetic workload through the pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadBenchConfig(cfgFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cmd.Flags().Changed("tasks") {
				cfg.Tasks = tasks
			}
			return runBench(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml or json)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of pool workers")
	cmd.Flags().IntVarP(&tasks, "tasks", "n", 1000, "number of tasks to submit")

	return cmd
}

func runBench(ctx context.Context, out io.Writer, cfg BenchConfig) error {
	logger := logrus.New()
	if cfg.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	runID := uuid.NewString()
	log := logger.WithField("run_id", runID)

	if cfg.Tracing.Enabled {
		err := otel.Initialize(ctx, otel.Config{
			ServiceName: "poolbench",
			Exporter:    cfg.Tracing.Exporter,
			Endpoint:    cfg.Tracing.Endpoint,
			SampleRatio: cfg.Tracing.SampleRatio,
		})
		if err != nil {
			return fmt.Errorf("tracing init: %w", err)
		}
		defer func() {
			if err := otel.Shutdown(context.Background()); err != nil {
				log.WithError(err).Warn("tracing shutdown failed")
			}
		}()
	}

	if cfg.MetricsAddr != "" {
		go func() {
			log.WithField("addr", cfg.MetricsAddr).Info("serving metrics")
			if err := fasthttp.ListenAndServe(cfg.MetricsAddr, prometheus.FastHTTPHandler()); err != nil {
				log.WithError(err).Error("metrics server failed")
			}
		}()
	}

	pool, err := taskpool.New(taskpool.Config{
		Workers:     cfg.Workers,
		Logger:      newLogrusAdapter(log),
		Metrics:     prometheus.NewPoolMetrics(nil),
		BaseContext: ctx,
	})
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"workers": cfg.Workers,
		"tasks":   cfg.Tasks,
		"payload": cfg.PayloadBytes,
	}).Info("starting bench run")

	payload := make([]byte, cfg.PayloadBytes)
	for i := range payload {
		payload[i] = byte(i)
	}

	var span trace.Span
	if cfg.Tracing.Enabled {
		ctx, span = otel.Tracer().Start(ctx, "bench.run",
			trace.WithAttributes(
				attribute.String("run.id", runID),
				attribute.Int("run.workers", cfg.Workers),
				attribute.Int("run.tasks", cfg.Tasks),
			))
		defer span.End()
	}

	// One Timer per task, merged into the master under a lock; a Timer on
	// its own is single-goroutine.
	var timerMu sync.Mutex
	master := profile.NewTimer()

	start := time.Now()
	futures := make([]taskpool.Future, 0, cfg.Tasks)

	submitTimer := profile.NewTimer()
	submitTimer.Start(stepSubmit)
	for i := 0; i < cfg.Tasks; i++ {
		if ctx.Err() != nil {
			log.Warn("run cancelled while submitting")
			break
		}

		f, err := pool.Submit(taskpool.NewNamedTask("checksum", func(taskCtx context.Context) (interface{}, error) {
			t := profile.NewTimer()
			t.Start(stepCompute)
			sum := checksum(payload)
			t.RecordN(stepCompute, uint64(len(payload)))

			timerMu.Lock()
			master.Merge(t)
			timerMu.Unlock()
			return sum, nil
		}))
		if err != nil {
			return fmt.Errorf("submit failed: %w", err)
		}
		futures = append(futures, f)
	}
	submitTimer.RecordN(stepSubmit, uint64(len(futures)))

	pool.WaitIdle()
	pool.Shutdown(true)
	elapsed := time.Since(start)

	timerMu.Lock()
	master.Merge(submitTimer)
	timerMu.Unlock()

	failed := 0
	for _, f := range futures {
		if _, err := f.Await(context.Background()); err != nil {
			failed++
		}
	}

	log.WithFields(logrus.Fields{
		"elapsed":  elapsed,
		"executed": len(futures),
		"failed":   failed,
	}).Info("bench run finished")

	renderReport(out, master)
	return nil
}

// checksum burns CPU proportional to the payload size
func checksum(payload []byte) uint64 {
	h := fnv.New64a()
	h.Write(payload)
	return h.Sum64()
}
