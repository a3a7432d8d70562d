package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	require.NoError(t, DefaultWeighting().Validate())
	require.NoError(t, DefaultEnsemble().Validate())
}

func TestWeightingValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WeightingConfig)
		valid  bool
	}{
		{"default", func(c *WeightingConfig) {}, true},
		{"zero learning rate", func(c *WeightingConfig) { c.LearningRate = 0 }, false},
		{"learning rate at one", func(c *WeightingConfig) { c.LearningRate = 1 }, false},
		{"threshold zero", func(c *WeightingConfig) { c.InitialConfidenceThreshold = 0 }, false},
		{"threshold one", func(c *WeightingConfig) { c.InitialConfidenceThreshold = 1 }, false},
		{"negative warmup", func(c *WeightingConfig) { c.WarmupInstances = -1 }, false},
		{"budget limit above one", func(c *WeightingConfig) { c.Budget.Limit = 1.5 }, false},
		{"negative cost", func(c *WeightingConfig) { c.Budget.Cost = -0.1 }, false},
		{"cost above enforced limit", func(c *WeightingConfig) {
			c.Budget.Enforce = true
			c.Budget.Limit = 0.05
			c.Budget.Cost = 0.1
		}, false},
		{"cost above unenforced limit", func(c *WeightingConfig) {
			c.Budget.Enforce = false
			c.Budget.Limit = 0.05
			c.Budget.Cost = 0.1
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultWeighting()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestEnsembleValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EnsembleConfig)
		valid  bool
	}{
		{"default", func(c *EnsembleConfig) {}, true},
		{"window size zero", func(c *EnsembleConfig) { c.WindowSize = 0 }, false},
		{"weight adjustment zero", func(c *EnsembleConfig) { c.WeightAdjustment = 0 }, false},
		{"uncertainty threshold above one", func(c *EnsembleConfig) { c.InitialUncertaintyThreshold = 1.2 }, false},
		{"threshold step zero", func(c *EnsembleConfig) { c.ThresholdStep = 0 }, false},
		{"forgetting speed zero", func(c *EnsembleConfig) { c.ForgettingSpeed = 0 }, false},
		{"discard threshold zero", func(c *EnsembleConfig) { c.WindowDiscardThreshold = 0 }, false},
		{"small window ok", func(c *EnsembleConfig) { c.WindowSize = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultEnsemble()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidationErrorMessages(t *testing.T) {
	cfg := DefaultWeighting()
	cfg.LearningRate = -1
	err := cfg.Validate()
	require.Error(t, err)

	verrs, ok := err.(ValidationErrors)
	require.True(t, ok)
	assert.NotEmpty(t, verrs)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestNilConfigValidate(t *testing.T) {
	var c *Config
	assert.Error(t, c.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	yamlDoc := `
weighting:
  learning_rate: 0.01
  initial_confidence_threshold: 0.6
  warmup_instances: 10
  budget:
    enforce: true
    limit: 0.5
    cost: 0.02
    reset_period: 50
ensemble:
  window_size: 25
logging:
  level: DEBUG
`
	path := filepath.Join(t.TempDir(), "streamal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Weighting.LearningRate)
	assert.Equal(t, 0.6, cfg.Weighting.InitialConfidenceThreshold)
	assert.Equal(t, 10, cfg.Weighting.WarmupInstances)
	assert.True(t, cfg.Weighting.Budget.Enforce)
	assert.Equal(t, 50, cfg.Weighting.Budget.ResetPeriod)
	assert.Equal(t, 25, cfg.Ensemble.WindowSize)
	// Untouched fields keep their defaults.
	assert.Equal(t, 1.10, cfg.Ensemble.WeightAdjustment)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weighting:\n  learning_rate: 2.0\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
