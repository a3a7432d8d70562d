package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/streamal-go/pkg/journal"
)

func NewRunsCommand() *cobra.Command {
	var journalPath string
	var runID string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect journaled evaluation runs",
		Long: `List the runs stored in a journal, or print the snapshot history of one
run with --run.`,
		Example: `  # List all runs
  streamal-cli runs --journal runs.db

  # Show the snapshots of one run
  streamal-cli runs --journal runs.db --run 4f1c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := journal.NewSQLiteJournal(journalPath)
			if err != nil {
				return err
			}
			defer j.Close()

			ctx := cmd.Context()
			if runID == "" {
				ids, err := j.Runs(ctx)
				if err != nil {
					return err
				}
				if len(ids) == 0 {
					fmt.Println("journal is empty")
					return nil
				}
				for _, id := range ids {
					recs, err := j.Records(ctx, id)
					if err != nil {
						return err
					}
					last := recs[len(recs)-1]
					fmt.Printf("%s  engine=%-10s instances=%-8d accuracy=%.4f acquisitions=%d\n",
						id, last.Engine, last.Instances, last.Accuracy, last.Acquisitions)
				}
				return nil
			}

			recs, err := j.Records(ctx, runID)
			if err != nil {
				return err
			}
			fmt.Printf("%-6s %-22s %-10s %-10s %-12s\n", "seq", "timestamp", "instances", "accuracy", "acquisitions")
			for _, rec := range recs {
				fmt.Printf("%-6d %-22s %-10d %-10.4f %-12d\n",
					rec.Sequence, rec.Timestamp.Format("2006-01-02 15:04:05"),
					rec.Instances, rec.Accuracy, rec.Acquisitions)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite journal to read")
	cmd.Flags().StringVar(&runID, "run", "", "run ID to show in detail")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}
