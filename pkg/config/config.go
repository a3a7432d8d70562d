package config

// Config is the top-level configuration for the streaming active-learning
// engines. Invalid values are rejected by Validate at configuration time,
// never during streaming.
type Config struct {
	Weighting WeightingConfig `yaml:"weighting" validate:"required"`
	Ensemble  EnsembleConfig  `yaml:"ensemble" validate:"required"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WeightingConfig configures the instance-weighting engine.
type WeightingConfig struct {
	// LearningRate regulates the confidence-threshold adaptation step and
	// doubles as the bisection solver's convergence tolerance.
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0,lt=1"`

	// InitialConfidenceThreshold seeds the adaptive confidence threshold.
	InitialConfidenceThreshold float64 `yaml:"initial_confidence_threshold" validate:"gt=0,lt=1"`

	// WarmupInstances is the number of leading instances trained
	// unconditionally before any acquisition decision is made.
	WarmupInstances int `yaml:"warmup_instances" validate:"gte=0"`

	Budget BudgetConfig `yaml:"budget"`
}

// EnsembleConfig configures the adaptive ensemble engine.
type EnsembleConfig struct {
	// WindowSize is the number of instances buffered before a window is
	// processed.
	WindowSize int `yaml:"window_size" validate:"gte=1"`

	// WeightAdjustment is the multiplicative reliability step applied to
	// ensemble member weights after each acquisition.
	WeightAdjustment float64 `yaml:"weight_adjustment" validate:"gt=0"`

	// InitialUncertaintyThreshold seeds the adaptive posterior cutoff below
	// which a label is requested.
	InitialUncertaintyThreshold float64 `yaml:"initial_uncertainty_threshold" validate:"gt=0,lte=1"`

	// ThresholdStep is the additive uncertainty-threshold adjustment.
	ThresholdStep float64 `yaml:"threshold_step" validate:"gt=0,lt=1"`

	// ForgettingSpeed is the b constant of the window decay formula.
	ForgettingSpeed float64 `yaml:"forgetting_speed" validate:"gt=0,lte=1"`

	// WindowDiscardThreshold is the decayed weight below which a retained
	// window is evicted.
	WindowDiscardThreshold float64 `yaml:"window_discard_threshold" validate:"gt=0,lt=0.9999"`

	Budget BudgetConfig `yaml:"budget"`
}

// BudgetConfig configures labeling-budget admission control.
type BudgetConfig struct {
	// Enforce toggles budget enforcement. When false every request is
	// admitted.
	Enforce bool `yaml:"enforce"`

	// Limit is the spend cap per reset period, as a fraction of processed
	// instances.
	Limit float64 `yaml:"limit" validate:"gte=0,lte=1"`

	// Cost is charged per label request.
	Cost float64 `yaml:"cost" validate:"gte=0,lte=1"`

	// ResetPeriod is the processed-instance count after which spend is
	// reset. Zero disables rolling resets (the ensemble engine resets spend
	// itself at each window closeout).
	ResetPeriod int `yaml:"reset_period" validate:"gte=0"`
}

// LoggingConfig configures the package-level logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`
	File  string `yaml:"file"`
}
