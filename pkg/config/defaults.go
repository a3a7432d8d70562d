package config

// Default values mirror the option defaults the algorithms were published
// with: learning rate 0.001, initial confidence threshold 0.5, budget 1.0 at
// cost 0.01 reset every 100 instances, window size 100, weight adjustment
// 1.10, initial uncertainty threshold 0.75 with step 0.05, forgetting speed
// 0.9, window discard threshold 0.1.

// DefaultWeighting returns the default instance-weighting configuration.
func DefaultWeighting() WeightingConfig {
	return WeightingConfig{
		LearningRate:               0.001,
		InitialConfidenceThreshold: 0.5,
		WarmupInstances:            0,
		Budget: BudgetConfig{
			Enforce:     false,
			Limit:       1.0,
			Cost:        0.01,
			ResetPeriod: 100,
		},
	}
}

// DefaultEnsemble returns the default adaptive-ensemble configuration.
func DefaultEnsemble() EnsembleConfig {
	return EnsembleConfig{
		WindowSize:                  100,
		WeightAdjustment:            1.10,
		InitialUncertaintyThreshold: 0.75,
		ThresholdStep:               0.05,
		ForgettingSpeed:             0.9,
		WindowDiscardThreshold:      0.1,
		Budget: BudgetConfig{
			Enforce:     true,
			Limit:       1.0,
			Cost:        0.01,
			ResetPeriod: 0,
		},
	}
}

// Default returns the full default configuration.
func Default() *Config {
	return &Config{
		Weighting: DefaultWeighting(),
		Ensemble:  DefaultEnsemble(),
		Logging:   LoggingConfig{Level: "INFO"},
	}
}
