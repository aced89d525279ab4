package config

import (
	"fmt"

	sharperrors "github.com/nick-boey/sharpitect/internal/errors"
)

// ValidationContext names which CLI surface is validating the config,
// mirroring the teacher's ValidationContext enum.
type ValidationContext string

const (
	ValidationContextAnalyze ValidationContext = "analyze"
	ValidationContextServe   ValidationContext = "serve"
	ValidationContextQuery   ValidationContext = "query"
)

// ValidationResult accumulates errors and warnings without short-circuiting
// on the first problem, matching the teacher's ValidationResult shape.
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{Valid: true}
}

func (r *ValidationResult) addError(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarning(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the fields relevant to ctx and returns a
// ValidationResult; callers that need a hard error should use AsError.
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	r := newValidationResult()

	if c.Database.Path == "" {
		r.addError("database.path must not be empty")
	}

	switch ctx {
	case ValidationContextAnalyze:
		if c.Watch.Extension == "" {
			r.addError("watch.extension must not be empty")
		}
	case ValidationContextServe:
		if c.Serve.RateLimitPerSecond <= 0 {
			r.addWarning("serve.rate_limit_per_second <= 0, the server falls back to 20 tool calls per second")
		}
	case ValidationContextQuery:
		// query commands only need a readable database path, checked by the caller.
	}

	if c.Watch.DebounceMS < 0 {
		r.addError("watch.debounce_ms must not be negative")
	}

	return r
}

// AsError converts a failed ValidationResult into a structured
// errors.Validation error (spec.md §7: bad CLI argument, exit code 1
// before touching storage).
func (r *ValidationResult) AsError() error {
	if r.Valid {
		return nil
	}
	msg := "invalid configuration"
	if len(r.Errors) > 0 {
		msg = r.Errors[0]
	}
	e := sharperrors.ValidationErrorf("%s", msg)
	for i, extra := range r.Errors {
		e.WithContext(fmt.Sprintf("error_%d", i), extra)
	}
	return e
}
