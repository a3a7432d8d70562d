package commands

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/streamal-go/pkg/evaluation"
	"github.com/XiaoConstantine/streamal-go/pkg/journal"
)

func NewCompareCommand() *cobra.Command {
	var streams streamFlags
	var learnerName string
	var configPath string
	var journalPath string
	var limit int
	var interval int

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both engines side by side on the same stream",
		Long: `Evaluate the instance-weighting and adaptive ensemble engines concurrently
over identical copies of one stream, then print their accuracy and label
spend next to each other. File datasets are parsed once; synthetic streams
are replayed from the same seed.`,
		Example: `  # Compare on a CSV dataset
  streamal-cli compare --csv electricity.csv --limit 0

  # Compare on a drifting synthetic stream
  streamal-cli compare --synthetic --drift 0.05 --limit 20000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			instances, err := streams.load()
			if err != nil {
				return err
			}

			var candidates []evaluation.Candidate
			for _, name := range []string{"weighting", "ensemble"} {
				engine, err := buildEngine(name, learnerName, cfg)
				if err != nil {
					return err
				}
				stream, err := streams.stream(instances)
				if err != nil {
					return err
				}
				candidates = append(candidates, evaluation.Candidate{
					Name:   name,
					Engine: engine,
					Stream: stream,
				})
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

			results, err := evaluation.New(opts...).Compare(ctx, limit, candidates...)
			if err != nil {
				return err
			}

			fmt.Printf("%-12s %-10s %-14s %-10s\n", "engine", "accuracy", "acquisitions", "elapsed")
			for _, result := range results {
				fmt.Printf("%-12s %-10.4f %-14s %-10s\n",
					result.Name,
					result.Accuracy(),
					fmt.Sprintf("%d (%.2f%%)", result.Acquisitions, 100*result.AcquisitionRate()),
					result.Elapsed.Round(time.Millisecond))
			}
			return nil
		},
	}

	streams.register(cmd)
	cmd.Flags().StringVar(&learnerName, "learner", "naive-bayes", "base learner (naive-bayes, majority)")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal to append run snapshots to")
	cmd.Flags().IntVar(&limit, "limit", 10000, "instances to process per engine, 0 runs until the stream ends")
	cmd.Flags().IntVar(&interval, "interval", 1000, "instances between snapshots")

	return cmd
}
