package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Tag     string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "gt", "gte", "min":
		return fmt.Sprintf("%s is below its lower bound", e.Field)
	case "lt", "lte", "max":
		return fmt.Sprintf("%s is above its upper bound", e.Field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", e.Field)
	default:
		return fmt.Sprintf("%s failed validation", e.Field)
	}
}

// ValidationErrors represents multiple validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var messages []string
	for _, err := range e {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

func runStructValidation(v interface{}) ValidationErrors {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var out ValidationErrors
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errs {
			out = append(out, ValidationError{
				Field: e.Namespace(),
				Tag:   e.Tag(),
				Value: e.Value(),
			})
		}
	} else {
		out = append(out, ValidationError{Message: err.Error()})
	}
	return out
}

// Validate checks the full configuration. It returns ValidationErrors
// describing every offending field, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return ValidationErrors{{Field: "config", Tag: "required", Message: "config is nil"}}
	}

	errs := runStructValidation(c)
	errs = append(errs, c.Weighting.Budget.customRules("Weighting.Budget")...)
	errs = append(errs, c.Ensemble.Budget.customRules("Ensemble.Budget")...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the instance-weighting configuration in isolation.
func (c WeightingConfig) Validate() error {
	errs := runStructValidation(c)
	errs = append(errs, c.Budget.customRules("Budget")...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks the adaptive-ensemble configuration in isolation.
func (c EnsembleConfig) Validate() error {
	errs := runStructValidation(c)
	errs = append(errs, c.Budget.customRules("Budget")...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// customRules holds the cross-field checks struct tags cannot express.
func (c BudgetConfig) customRules(prefix string) ValidationErrors {
	var errs ValidationErrors
	if c.Enforce && c.Cost > c.Limit {
		errs = append(errs, ValidationError{
			Field:   prefix + ".Cost",
			Tag:     "ltefield",
			Value:   c.Cost,
			Message: fmt.Sprintf("%s.Cost %.4f exceeds the budget limit %.4f, no request could ever be admitted", prefix, c.Cost, c.Limit),
		})
	}
	return errs
}
