package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/streamal-go/cmd/streamal-cli/internal/commands"
)

var rootCmd = &cobra.Command{
	Use:   "streamal-cli",
	Short: "Run stream active-learning engines over datasets",
	Long: `A command-line interface for the streamal-go engines: evaluate the
instance-weighting and adaptive ensemble decision engines prequentially over
CSV, Parquet or synthetic instance streams.

The CLI provides:
- Single-engine evaluation runs with journaled snapshots
- Side-by-side engine comparison on the same stream
- Inspection of journaled runs
- Optional Prometheus metrics during a run`,
	Version: "0.1.0",
}

func main() {
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewCompareCommand())
	rootCmd.AddCommand(commands.NewRunsCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
