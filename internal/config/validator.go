package config

import (
	"fmt"
	"strings"

	"absviz/internal/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "insight.temperature")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError
	errors = append(errors, c.validateInsight()...)
	errors = append(errors, c.validateLogging()...)
	return errors
}

func (c *Config) validateInsight() []ValidationError {
	var errors []ValidationError
	in := c.Insight

	if in.Temperature < 0 || in.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "insight.temperature",
			Value:   in.Temperature,
			Message: "must be between 0 and 2",
		})
	}
	if in.MaxOutputTokens <= 0 {
		errors = append(errors, ValidationError{
			Field:   "insight.max_output_tokens",
			Value:   in.MaxOutputTokens,
			Message: "must be positive",
		})
	}
	if in.Debounce <= 0 {
		errors = append(errors, ValidationError{
			Field:   "insight.debounce",
			Value:   in.Debounce,
			Message: "must be positive",
		})
	}
	if in.RequestTimeout <= 0 {
		errors = append(errors, ValidationError{
			Field:   "insight.request_timeout",
			Value:   in.RequestTimeout,
			Message: "must be positive",
		})
	}
	if in.Enabled && strings.TrimSpace(in.Model) == "" {
		errors = append(errors, ValidationError{
			Field:   "insight.model",
			Value:   in.Model,
			Message: "must not be empty",
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	if c.Logging.Level == "" || logging.IsValidLevel(c.Logging.Level) {
		return nil
	}
	return []ValidationError{{
		Field:   "logging.level",
		Value:   c.Logging.Level,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(logging.ValidLevels(), ", ")),
	}}
}
