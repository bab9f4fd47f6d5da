package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Config. Path is a dotted
// path into the config (e.g. "db.host"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate performs static checks over a Config and returns the findings.
// Callers decide whether warnings block execution; errors always should.
func Validate(c *Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.DB.Host) == "" {
		issues = append(issues, Issue{SeverityError, "db.host", "host must not be empty"})
	}
	if strings.TrimSpace(c.DB.Name) == "" {
		issues = append(issues, Issue{SeverityError, "db.name", "database name must not be empty"})
	}
	if strings.TrimSpace(c.DB.User) == "" {
		issues = append(issues, Issue{SeverityError, "db.user", "user must not be empty"})
	}
	if c.DB.Password == "" {
		issues = append(issues, Issue{SeverityWarning, "db.password", "password is empty; relying on trust/peer auth"})
	}
	if strings.TrimSpace(c.Schema) == "" {
		issues = append(issues, Issue{SeverityError, "schema", "warehouse schema must not be empty"})
	}
	if c.DimensionBatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "dimension_batch_size", "batch size must be positive"})
	}
	if c.FactBatchSize <= 0 {
		issues = append(issues, Issue{SeverityError, "fact_batch_size", "batch size must be positive"})
	}
	if c.FactBatchSize > 0 && c.DimensionBatchSize > c.FactBatchSize {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "dimension_batch_size",
			Message: fmt.Sprintf("dimension batch %d exceeds fact batch %d; unusual but not fatal",
				c.DimensionBatchSize, c.FactBatchSize),
		})
	}

	return issues
}

// HasError reports whether any issue is of error severity.
func HasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
