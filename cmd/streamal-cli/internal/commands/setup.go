// Package commands wires the streamal-go engines, streams and sinks behind
// the CLI surface.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/streamal-go/pkg/config"
	"github.com/XiaoConstantine/streamal-go/pkg/core"
	"github.com/XiaoConstantine/streamal-go/pkg/datasets"
	"github.com/XiaoConstantine/streamal-go/pkg/ensemble"
	"github.com/XiaoConstantine/streamal-go/pkg/learner"
	"github.com/XiaoConstantine/streamal-go/pkg/logging"
	"github.com/XiaoConstantine/streamal-go/pkg/weighting"
)

// streamFlags selects and parameterizes the instance source. Exactly one of
// csvPath, parquetPath or synthetic must be chosen.
type streamFlags struct {
	csvPath     string
	parquetPath string
	labelColumn string

	synthetic bool
	classes   int
	features  int
	drift     float64
	noise     float64
	seed      int64
}

func (f *streamFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "CSV dataset path (features..., integer label)")
	cmd.Flags().StringVar(&f.parquetPath, "parquet", "", "Parquet dataset path")
	cmd.Flags().StringVar(&f.labelColumn, "label-column", "label", "label column name for Parquet datasets")
	cmd.Flags().BoolVar(&f.synthetic, "synthetic", false, "use the drifting Gaussian generator")
	cmd.Flags().IntVar(&f.classes, "classes", 2, "synthetic: number of classes")
	cmd.Flags().IntVar(&f.features, "features", 2, "synthetic: feature dimensionality")
	cmd.Flags().Float64Var(&f.drift, "drift", 0.01, "synthetic: per-instance center drift")
	cmd.Flags().Float64Var(&f.noise, "noise", 1.0, "synthetic: feature noise stddev")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "synthetic: random seed")
}

// load materializes file-backed datasets once. Synthetic sources return nil
// instances; callers build per-run generators with generator().
func (f *streamFlags) load() ([]*core.Instance, error) {
	chosen := 0
	for _, set := range []bool{f.csvPath != "", f.parquetPath != "", f.synthetic} {
		if set {
			chosen++
		}
	}
	if chosen != 1 {
		return nil, fmt.Errorf("choose exactly one of --csv, --parquet or --synthetic")
	}

	switch {
	case f.csvPath != "":
		return datasets.LoadCSV(f.csvPath)
	case f.parquetPath != "":
		return datasets.LoadParquet(f.parquetPath, f.labelColumn)
	default:
		return nil, nil
	}
}

// generator builds a fresh synthetic stream; identical flags replay the same
// sequence, which keeps comparisons fair.
func (f *streamFlags) generator() (datasets.Stream, error) {
	return datasets.NewSynthetic(
		datasets.WithClasses(f.classes),
		datasets.WithFeatures(f.features),
		datasets.WithDriftRate(f.drift),
		datasets.WithNoise(f.noise),
		datasets.WithSeed(f.seed),
	)
}

// stream returns an independent stream over the loaded dataset, or a fresh
// generator for synthetic sources.
func (f *streamFlags) stream(instances []*core.Instance) (datasets.Stream, error) {
	if f.synthetic {
		return f.generator()
	}
	return datasets.NewSliceStream(instances), nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := configureLogging(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(cfg config.LoggingConfig) error {
	outputs := []logging.Output{logging.NewConsoleOutput(true)}
	if cfg.File != "" {
		fileOutput, err := logging.NewFileOutput(cfg.File)
		if err != nil {
			return err
		}
		outputs = append(outputs, fileOutput)
	}
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.Level),
		Outputs:  outputs,
	}))
	return nil
}

func buildLearner(name string) (core.Learner, error) {
	switch name {
	case "naive-bayes":
		return learner.NewGaussianNB(), nil
	case "majority":
		return learner.NewMajorityClass(), nil
	default:
		return nil, fmt.Errorf("unknown learner %q (naive-bayes, majority)", name)
	}
}

func buildEngine(name, learnerName string, cfg *config.Config) (core.AcquisitionEngine, error) {
	proto, err := buildLearner(learnerName)
	if err != nil {
		return nil, err
	}
	switch name {
	case "weighting":
		return weighting.New(proto, weighting.WithConfig(cfg.Weighting))
	case "ensemble":
		return ensemble.New(proto, ensemble.WithConfig(cfg.Ensemble))
	default:
		return nil, fmt.Errorf("unknown engine %q (weighting, ensemble)", name)
	}
}
