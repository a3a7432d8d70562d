package commands

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/evaluation"
	"github.com/XiaoConstantine/streamal-go/pkg/journal"
	"github.com/XiaoConstantine/streamal-go/pkg/telemetry"
)

func NewRunCommand() *cobra.Command {
	var streams streamFlags
	var engineName string
	var learnerName string
	var configPath string
	var journalPath string
	var metricsAddr string
	var limit int
	var interval int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate one engine prequentially over a stream",
		Long: `Run a single decision engine over an instance stream in test-then-train
order. Every snapshot interval the run's accuracy, label spend and engine
state are printed and, when a journal is configured, persisted.`,
		Example: `  # Instance-weighting engine over a CSV dataset
  streamal-cli run --engine weighting --csv electricity.csv

  # Adaptive ensemble over a drifting synthetic stream, journaled
  streamal-cli run --engine ensemble --synthetic --limit 50000 --journal runs.db

  # Expose Prometheus metrics while running
  streamal-cli run --engine weighting --synthetic --limit 0 --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			engine, err := buildEngine(engineName, learnerName, cfg)
			if err != nil {
				return err
			}
			instances, err := streams.load()
			if err != nil {
				return err
			}
			stream, err := streams.stream(instances)
			if err != nil {
				return err
			}

			opts := []evaluation.Option{evaluation.WithInterval(interval)}
			if journalPath != "" {
				j, err := journal.NewSQLiteJournal(journalPath)
				if err != nil {
					return err
				}
				defer j.Close()
				opts = append(opts, evaluation.WithJournal(j))
			}
			if metricsAddr != "" {
				opts = append(opts, evaluation.WithObserver(metricsObserver(engineName)))
				server := &http.Server{Addr: metricsAddr, Handler: promhttp.Handler()}
				go func() { _ = server.ListenAndServe() }()
				defer server.Close()
			}

			result, err := evaluation.New(opts...).Run(ctx, engineName, engine, stream, limit)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}

	streams.register(cmd)
	cmd.Flags().StringVar(&engineName, "engine", "weighting", "engine to run (weighting, ensemble)")
	cmd.Flags().StringVar(&learnerName, "learner", "naive-bayes", "base learner (naive-bayes, majority)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal to append run snapshots to")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	cmd.Flags().IntVar(&limit, "limit", 10000, "instances to process, 0 runs until the stream ends")
	cmd.Flags().IntVar(&interval, "interval", 1000, "instances between snapshots")

	return cmd
}

// metricsObserver feeds snapshot deltas into a process-wide collector.
func metricsObserver(engine string) evaluation.Observer {
	collector := telemetry.NewCollector(nil)
	lastInstances := 0
	lastAcquisitions := 0

	return func(result *evaluation.Result, measurements []core.Measurement) {
		collector.AddInstances(engine, result.Instances-lastInstances)
		collector.AddAcquisitions(engine, result.Acquisitions-lastAcquisitions)
		collector.SetAccuracy(engine, result.Accuracy())
		collector.SetMeasurements(engine, measurements)
		lastInstances = result.Instances
		lastAcquisitions = result.Acquisitions
	}
}

func printResult(result *evaluation.Result) {
	fmt.Printf("run %s (%s)\n", result.RunID, result.Name)
	fmt.Printf("  instances:    %d\n", result.Instances)
	fmt.Printf("  accuracy:     %.4f\n", result.Accuracy())
	fmt.Printf("  acquisitions: %d (%.2f%% of stream)\n", result.Acquisitions, 100*result.AcquisitionRate())
	fmt.Printf("  elapsed:      %s\n", result.Elapsed.Round(time.Millisecond))
	for _, m := range result.Measurements {
		fmt.Printf("  %-22s %.4f\n", m.Name+":", m.Value)
	}
}
