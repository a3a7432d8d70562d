package config

import (
	"os"

	"github.com/XiaoConstantine/streamal-go/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML configuration file, layers it over the defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithFields(
			errors.Wrap(err, errors.ResourceNotFound, "failed to read config file"),
			errors.Fields{"path": path},
		)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the default configuration and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "failed to parse config YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ValidationFailed, "invalid configuration")
	}
	return cfg, nil
}
